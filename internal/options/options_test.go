package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tech-arch1tect/cadence/config"
	"go.uber.org/fx"
)

func TestApply(t *testing.T) {
	cfg := &config.Config{}

	opts := Apply(
		WithConfig(cfg),
		WithFxOptions(fx.NopLogger),
		WithFxOptions(fx.Supply("a"), fx.Supply(1)),
	)

	assert.Same(t, cfg, opts.Config)
	assert.Len(t, opts.ExtraFxOptions, 3)
}

func TestApply_Empty(t *testing.T) {
	opts := Apply()

	assert.Nil(t, opts.Config)
	assert.Empty(t, opts.ExtraFxOptions)
}
