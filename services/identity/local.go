package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Account struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// LocalProvider stores accounts in the application database.
type LocalProvider struct {
	db         *gorm.DB
	bcryptCost int
	logger     *logging.Service
}

func NewLocalProvider(db *gorm.DB, bcryptCost int, logger *logging.Service) *LocalProvider {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &LocalProvider{db: db, bcryptCost: bcryptCost, logger: logger}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	hash, err := p.hashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}
	if err := p.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	p.logger.Info("account created", zap.String("account_id", account.ID))
	return account, nil
}

func (p *LocalProvider) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var account Account
	err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return &User{ID: account.ID, Email: account.Email}, nil
}

func (p *LocalProvider) UpdatePasswordByID(ctx context.Context, id, newPassword string) error {
	return p.updatePassword(p.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id), newPassword)
}

func (p *LocalProvider) UpdatePasswordByEmail(ctx context.Context, email, newPassword string) error {
	return p.updatePassword(p.db.WithContext(ctx).Model(&Account{}).Where("email = ?", strings.ToLower(email)), newPassword)
}

func (p *LocalProvider) VerifyPassword(ctx context.Context, email, password string) error {
	var account Account
	if err := p.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
}

func (p *LocalProvider) updatePassword(query *gorm.DB, newPassword string) error {
	hash, err := p.hashPassword(newPassword)
	if err != nil {
		return err
	}

	result := query.Update("password_hash", hash)
	if result.Error != nil {
		p.logger.Error("failed to update account password", zap.Error(result.Error))
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *LocalProvider) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
