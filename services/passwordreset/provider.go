package passwordreset

import (
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/services/identity"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/mail"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"github.com/tech-arch1tect/cadence/services/resettoken"
	"go.uber.org/fx"
)

func ProvidePasswordResetService(cfg *config.Config, store resettoken.Store, mailer *mail.Service, provider identity.Provider, logger *logging.Service, m *metrics.Service) *Service {
	service := NewService(cfg, store, mailer, provider, logger.Named("passwordreset"))
	service.SetMetrics(m)
	return service
}

var Module = fx.Options(
	fx.Provide(ProvidePasswordResetService),
)
