package resettoken

import (
	"context"
	"sync"
	"time"

	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"go.uber.org/zap"
)

// Janitor periodically removes expired tokens. Expiry is always enforced at
// read time, so the janitor only bounds table growth.
type Janitor struct {
	store    Store
	interval time.Duration
	logger   *logging.Service
	metrics  *metrics.Service
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewJanitor(store Store, interval time.Duration, logger *logging.Service, m *metrics.Service) *Janitor {
	return &Janitor{
		store:    store,
		interval: interval,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	j.logger.Info("starting reset token cleanup", zap.Duration("interval", j.interval))
	go j.run()
}

func (j *Janitor) Stop(ctx context.Context) error {
	j.once.Do(func() { close(j.stop) })

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Janitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), j.interval)
			_, _ = j.RunOnce(ctx)
			cancel()
		case <-j.stop:
			return
		}
	}
}

// RunOnce deletes every token that expired before now.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := j.store.DeleteExpired(ctx, j.now())
	if err != nil {
		j.logger.Error("failed to clean up expired reset tokens", zap.Error(err))
		return 0, err
	}

	j.metrics.TokensCleaned(deleted)
	if deleted > 0 {
		j.logger.Info("cleaned up expired reset tokens", zap.Int64("deleted_count", deleted))
	} else {
		j.logger.Debug("no expired reset tokens to clean up")
	}
	return deleted, nil
}
