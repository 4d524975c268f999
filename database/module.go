package database

import (
	"context"

	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Options(
	fx.Provide(ProvideDatabaseFx),
	fx.Invoke(registerClose),
)

type Params struct {
	fx.In

	Config *config.Config
	Logger *logging.Service
	Models []Model `group:"models"`
}

func ProvideDatabaseFx(p Params) (*gorm.DB, error) {
	models := make([]any, 0, len(p.Models))
	for _, m := range p.Models {
		models = append(models, m.Value)
	}
	return ProvideDatabase(p.Config.Database, p.Logger, models...)
}

// WithModels registers models for auto-migration when the database module starts.
func WithModels(models ...any) fx.Option {
	wrapped := make([]Model, 0, len(models))
	for _, m := range models {
		wrapped = append(wrapped, Model{Value: m})
	}
	return fx.Provide(fx.Annotate(
		func() []Model { return wrapped },
		fx.ResultTags(`group:"models,flatten"`),
	))
}

func registerClose(lc fx.Lifecycle, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
