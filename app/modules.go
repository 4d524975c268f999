package app

import (
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/database"
	"github.com/tech-arch1tect/cadence/middleware/ratelimit"
	"github.com/tech-arch1tect/cadence/server"
	"github.com/tech-arch1tect/cadence/services/identity"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/mail"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"github.com/tech-arch1tect/cadence/services/passwordreset"
	"github.com/tech-arch1tect/cadence/services/resettoken"
	"go.uber.org/fx"
)

// Modules wires every service for cfg. The database module is only included
// when a component that needs it is configured.
func Modules(cfg *config.Config) fx.Option {
	modules := []fx.Option{
		config.NewProvider(cfg),
		logging.Module,
		metrics.Module,
	}

	if NeedsDatabase(cfg) {
		modules = append(modules, database.Module)
	}

	modules = append(modules,
		mail.Module,
		identity.Module,
		resettoken.Module,
		passwordreset.Module,
		ratelimit.Module,
		server.NewProvider(),
		fx.Invoke(registerRoutes),
	)

	return fx.Options(modules...)
}

func NeedsDatabase(cfg *config.Config) bool {
	return cfg.PasswordReset.Store == "database" || cfg.Identity.Provider == "local"
}
