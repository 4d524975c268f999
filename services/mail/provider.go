package mail

import (
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"go.uber.org/fx"
)

func ProvideMailService(cfg *config.Config, logger *logging.Service, m *metrics.Service) (*Service, error) {
	return NewService(&cfg.Mail, logger, m)
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
)
