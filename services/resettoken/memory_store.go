package resettoken

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tokens in process memory. It suits single-instance
// deployments and tests; tokens are lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]*ResetToken
	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*ResetToken),
	}
}

func (s *MemoryStore) Upsert(_ context.Context, email, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if e, exists := s.data[email]; exists {
		e.Code = code
		e.ExpiresAt = expiresAt.UTC()
		e.Used = false
		e.UsedAt = nil
		e.UpdatedAt = now
		return nil
	}

	s.nextID++
	s.data[email] = &ResetToken{
		ID:        s.nextID,
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *MemoryStore) Find(_ context.Context, email, code string, now time.Time) (*ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.data[email]
	if !exists || e.Code != code || !e.IsValid(now) {
		return nil, ErrTokenNotFound
	}

	token := *e
	return &token, nil
}

func (s *MemoryStore) Consume(_ context.Context, email, code string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.data[email]
	if !exists || e.Code != code || !e.IsValid(now) {
		return ErrTokenNotFound
	}

	usedAt := now.UTC()
	e.Used = true
	e.UsedAt = &usedAt
	e.UpdatedAt = usedAt
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for email, e := range s.data {
		if now.After(e.ExpiresAt) {
			delete(s.data, email)
			deleted++
		}
	}
	return deleted, nil
}
