package ratelimit

import (
	"sync"
	"time"
)

// Store tracks fixed-window request counts per key.
type Store interface {
	Get(key string) (count int, resetTime time.Time, exists bool)
	Increment(key string, resetTime time.Time) (count int)
	Reset(key string)
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*window
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count     int
	resetTime time.Time
}

// NewMemoryStore starts a sweeper that drops closed windows every
// sweepInterval. Call Close to stop it.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*window),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	if sweepInterval > 0 {
		go store.sweep(sweepInterval)
	}

	return store
}

func (s *MemoryStore) Get(key string) (int, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.data[key]; ok && s.now().Before(w.resetTime) {
		return w.count, w.resetTime, true
	}
	return 0, time.Time{}, false
}

func (s *MemoryStore) Increment(key string, resetTime time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.data[key]; ok && s.now().Before(w.resetTime) {
		w.count++
		return w.count
	}

	s.data[key] = &window{count: 1, resetTime: resetTime}
	return 1
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.data {
		if !now.Before(w.resetTime) {
			delete(s.data, key)
		}
	}
}
