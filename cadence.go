package cadence

import (
	"github.com/tech-arch1tect/cadence/app"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/internal/options"
	"go.uber.org/fx"
)

type App = app.App

func New(opts ...options.Option) (*App, error) {
	return app.New(opts...)
}

func WithConfig(cfg *config.Config) options.Option {
	return options.WithConfig(cfg)
}

func WithFxOptions(opts ...fx.Option) options.Option {
	return options.WithFxOptions(opts...)
}
