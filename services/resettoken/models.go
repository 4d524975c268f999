package resettoken

import (
	"time"
)

type ResetToken struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Email     string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Code      string     `json:"-" gorm:"size:6;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null;index"`
	Used      bool       `json:"used" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (ResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsValid reports whether the token can still be redeemed at now.
func (t *ResetToken) IsValid(now time.Time) bool {
	return !t.Used && !now.After(t.ExpiresAt)
}
