package resettoken

import (
	"context"
	"fmt"

	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/database"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type StoreParams struct {
	fx.In

	Config *config.Config
	DB     *gorm.DB `optional:"true"`
	Logger *logging.Service
}

func ProvideStore(p StoreParams) (Store, error) {
	switch p.Config.PasswordReset.Store {
	case "database":
		if p.DB == nil {
			return nil, fmt.Errorf("password reset store %q requires a database", p.Config.PasswordReset.Store)
		}
		p.Logger.Info("using database reset token store")
		return NewGormStore(p.DB), nil
	case "memory":
		p.Logger.Warn("using in-memory reset token store; codes do not survive restarts")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported password reset store: %s", p.Config.PasswordReset.Store)
	}
}

func registerJanitor(lc fx.Lifecycle, cfg *config.Config, store Store, logger *logging.Service, m *metrics.Service) {
	if !cfg.PasswordReset.CleanupEnabled {
		return
	}

	janitor := NewJanitor(store, cfg.PasswordReset.CleanupInterval, logger.Named("resettoken"), m)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			janitor.Start()
			return nil
		},
		OnStop: janitor.Stop,
	})
}

var Module = fx.Options(
	database.WithModels(&ResetToken{}),
	fx.Provide(ProvideStore),
	fx.Invoke(registerJanitor),
)
