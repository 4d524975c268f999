package ratelimit

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/fx"
)

func ProvideRateLimitStore(lc fx.Lifecycle, cfg *config.Config) Store {
	store := NewStore(&cfg.RateLimit)
	if closer, ok := store.(interface{ Close() }); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				closer.Close()
				return nil
			},
		})
	}
	return store
}

// ForConfig returns the limiter configured by cfg, or nil when rate limiting
// is disabled.
func ForConfig(cfg *config.RateLimitConfig, store Store, logger *logging.Service) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return nil
	}
	return Middleware(&Config{
		Store:     store,
		Rate:      cfg.Rate,
		Period:    cfg.Period,
		CountMode: cfg.CountMode,
		Logger:    logger,
	})
}

var Module = fx.Options(
	fx.Provide(ProvideRateLimitStore),
)
