package options

import (
	"github.com/tech-arch1tect/cadence/config"
	"go.uber.org/fx"
)

type Options struct {
	Config         *config.Config
	ExtraFxOptions []fx.Option
}

type Option func(*Options)

// WithConfig skips loading configuration from the environment.
func WithConfig(cfg *config.Config) Option {
	return func(opts *Options) {
		opts.Config = cfg
	}
}

// WithFxOptions appends options after the built-in modules, e.g. fx.Decorate
// to swap a dependency in tests.
func WithFxOptions(fxOpts ...fx.Option) Option {
	return func(opts *Options) {
		opts.ExtraFxOptions = append(opts.ExtraFxOptions, fxOpts...)
	}
}

func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
