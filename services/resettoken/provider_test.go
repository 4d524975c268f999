package resettoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/testutils"
)

func TestProvideStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.PasswordReset.Store = "memory"

		store, err := ProvideStore(StoreParams{Config: cfg, Logger: logging.NewNop()})

		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("database", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.PasswordReset.Store = "database"
		db := testutils.SetupTestDB(t, &ResetToken{})

		store, err := ProvideStore(StoreParams{Config: cfg, DB: db, Logger: logging.NewNop()})

		require.NoError(t, err)
		assert.IsType(t, &GormStore{}, store)
	})

	t.Run("database without connection", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.PasswordReset.Store = "database"

		_, err := ProvideStore(StoreParams{Config: cfg, Logger: logging.NewNop()})

		assert.ErrorContains(t, err, "requires a database")
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		cfg.PasswordReset.Store = "redis"

		_, err := ProvideStore(StoreParams{Config: cfg, Logger: logging.NewNop()})

		assert.ErrorContains(t, err, "unsupported password reset store")
	})
}
