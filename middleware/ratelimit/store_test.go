package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		store := NewMemoryStore(0)

		count, resetTime, exists := store.Get("missing")

		assert.False(t, exists)
		assert.Zero(t, count)
		assert.True(t, resetTime.IsZero())
	})

	t.Run("increment opens a window", func(t *testing.T) {
		store := NewMemoryStore(0)
		resetTime := time.Now().Add(time.Minute)

		assert.Equal(t, 1, store.Increment("k", resetTime))
		assert.Equal(t, 2, store.Increment("k", time.Now().Add(time.Hour)))

		count, storedReset, exists := store.Get("k")
		require.True(t, exists)
		assert.Equal(t, 2, count)
		assert.True(t, storedReset.Equal(resetTime))
	})

	t.Run("closed window restarts", func(t *testing.T) {
		store := NewMemoryStore(0)
		store.Increment("k", time.Now().Add(-time.Second))

		_, _, exists := store.Get("k")
		assert.False(t, exists)
		assert.Equal(t, 1, store.Increment("k", time.Now().Add(time.Minute)))
	})

	t.Run("reset", func(t *testing.T) {
		store := NewMemoryStore(0)
		store.Increment("k", time.Now().Add(time.Minute))

		store.Reset("k")
		store.Reset("never-set")

		_, _, exists := store.Get("k")
		assert.False(t, exists)
	})

	t.Run("removeExpired drops closed windows", func(t *testing.T) {
		store := NewMemoryStore(0)
		store.Increment("old", time.Now().Add(-time.Second))
		store.Increment("live", time.Now().Add(time.Minute))

		store.removeExpired()

		assert.Len(t, store.data, 1)
		assert.Contains(t, store.data, "live")
	})

	t.Run("concurrent increments", func(t *testing.T) {
		store := NewMemoryStore(time.Millisecond)
		defer store.Close()
		resetTime := time.Now().Add(time.Minute)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Increment("k", resetTime)
			}()
		}
		wg.Wait()

		count, _, _ := store.Get("k")
		assert.Equal(t, 50, count)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewMemoryStore(time.Millisecond)
		assert.NotPanics(t, func() {
			store.Close()
			store.Close()
		})
	})
}
