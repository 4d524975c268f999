package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"gorm.io/gorm"
)

func TestModule(t *testing.T) {
	t.Run("provides a database with registered models", func(t *testing.T) {
		var db *gorm.DB

		app := fxtest.New(t,
			Module,
			WithModels(&TestModel{}),
			fx.Supply(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared", AutoMigrate: true}}),
			fx.Supply(logging.NewNop()),
			fx.Populate(&db),
		)
		app.RequireStart()
		defer app.RequireStop()

		require.NotNil(t, db)
		assert.True(t, db.Migrator().HasTable(&TestModel{}))
	})

	t.Run("no models registered", func(t *testing.T) {
		err := fx.ValidateApp(
			Module,
			fx.Supply(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}}),
			fx.Supply(logging.NewNop()),
			fx.Invoke(func(*gorm.DB) {}),
		)

		assert.NoError(t, err)
	})
}

func TestProvideDatabaseFx(t *testing.T) {
	p := Params{
		Config: &config.Config{Database: config.DatabaseConfig{Driver: "unsupported", DSN: "x"}},
		Logger: logging.NewNop(),
	}

	db, err := ProvideDatabaseFx(p)

	assert.Error(t, err)
	assert.Nil(t, db)
}
