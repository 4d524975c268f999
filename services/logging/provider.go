package logging

import (
	"context"

	"github.com/tech-arch1tect/cadence/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var Module = fx.Options(
	fx.Provide(NewLoggingService),
	fx.WithLogger(func(logger *Service) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Logger().Named("fx")}
	}),
	fx.Invoke(func(lc fx.Lifecycle, logger *Service) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				// stdout sync returns EINVAL on some platforms
				_ = logger.Sync()
				return nil
			},
		})
	}),
)

func NewLoggingService(cfg *config.Config) (*Service, error) {
	return NewService(Config{
		Level:      LogLevel(cfg.Log.Level),
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	})
}
