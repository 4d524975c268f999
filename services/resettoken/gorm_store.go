package resettoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Upsert(ctx context.Context, email, code string, expiresAt time.Time) error {
	token := &ResetToken{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt.UTC(),
		Used:      false,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "used", "used_at", "updated_at"}),
	}).Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (s *GormStore) Find(ctx context.Context, email, code string, now time.Time) (*ResetToken, error) {
	var token ResetToken
	err := s.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ? AND expires_at >= ?", email, code, false, now.UTC()).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	return &token, nil
}

// Consume is a single conditional UPDATE; the row count decides the winner.
func (s *GormStore) Consume(ctx context.Context, email, code string, now time.Time) error {
	usedAt := now.UTC()
	result := s.db.WithContext(ctx).
		Model(&ResetToken{}).
		Where("email = ? AND code = ? AND used = ? AND expires_at >= ?", email, code, false, usedAt).
		Updates(map[string]any{"used": true, "used_at": usedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to consume reset token: %w", result.Error)
	}
	if result.RowsAffected != 1 {
		return ErrTokenNotFound
	}
	return nil
}

func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&ResetToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
