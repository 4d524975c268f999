package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/internal/validation"
	"github.com/tech-arch1tect/cadence/services/identity"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/mail"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"github.com/tech-arch1tect/cadence/services/resettoken"
	"go.uber.org/zap"
)

// Mailer is the outbound email dependency. Send reports delivery success.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) bool
}

type Service struct {
	appName   string
	cfg       config.PasswordResetConfig
	policy    PasswordPolicy
	store     resettoken.Store
	mailer    Mailer
	updater   *Updater
	validator *validation.Validator
	logger    *logging.Service
	metrics   *metrics.Service

	now          func() time.Time
	generateCode func() (string, error)
}

func NewService(cfg *config.Config, store resettoken.Store, mailer Mailer, provider identity.Provider, logger *logging.Service) *Service {
	return &Service{
		appName:      cfg.App.Name,
		cfg:          cfg.PasswordReset,
		policy:       PolicyFromConfig(&cfg.PasswordReset),
		store:        store,
		mailer:       mailer,
		updater:      NewUpdater(provider, logger),
		validator:    validation.New(),
		logger:       logger,
		now:          time.Now,
		generateCode: generateCode,
	}
}

func (s *Service) SetMetrics(m *metrics.Service) {
	s.metrics = m
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Generate issues a fresh code for email, replacing any earlier one, and
// emails it. The call succeeds only if both the store write and the send do.
func (s *Service) Generate(ctx context.Context, email string) error {
	err := s.generate(ctx, email)
	s.metrics.ResetRequest("generate", outcome(err))
	return err
}

func (s *Service) generate(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if err := s.validator.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	code, err := s.generateCode()
	if err != nil {
		s.logger.Error("failed to generate reset code", zap.Error(err))
		return err
	}

	expiresAt := s.now().Add(s.cfg.CodeExpiry)
	if err := s.store.Upsert(ctx, email, code, expiresAt); err != nil {
		s.logger.Error("failed to store reset code", zap.Error(err))
		return err
	}

	html, err := renderResetCodeEmail(s.appName, code, s.cfg.CodeExpiry)
	if err != nil {
		s.logger.Error("failed to render reset code email", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrEmailDeliveryFailed, err)
	}

	if !s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: fmt.Sprintf("Your %s password reset code", s.appName),
		HTML:    html,
	}) {
		s.logger.Warn("reset code email was not delivered", zap.String("email", email))
		return ErrEmailDeliveryFailed
	}

	s.logger.Info("reset code issued",
		zap.String("email", email),
		zap.Time("expires_at", expiresAt))
	return nil
}

// Verify redeems code for email and sets newPassword. The code is consumed
// before the credential change; if that change fails the code stays used.
func (s *Service) Verify(ctx context.Context, email, code, newPassword string) error {
	err := s.verify(ctx, email, code, newPassword)
	s.metrics.ResetRequest("verify", outcome(err))
	return err
}

func (s *Service) verify(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return fmt.Errorf("%w: email, token and new password are required", ErrInvalidInput)
	}

	now := s.now()

	if _, err := s.store.Find(ctx, email, code, now); err != nil {
		if errors.Is(err, resettoken.ErrTokenNotFound) {
			s.logger.Warn("reset code rejected", zap.String("email", email))
			return ErrInvalidOrExpiredCode
		}
		s.logger.Error("failed to look up reset code", zap.Error(err))
		return err
	}

	if err := s.policy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	if err := s.store.Consume(ctx, email, code, now); err != nil {
		if errors.Is(err, resettoken.ErrTokenNotFound) {
			s.logger.Warn("reset code already consumed", zap.String("email", email))
			return ErrInvalidOrExpiredCode
		}
		s.logger.Error("failed to consume reset code", zap.Error(err))
		return err
	}

	if err := s.updater.UpdatePassword(ctx, email, newPassword); err != nil {
		s.logger.Error("password update failed after code was consumed",
			zap.String("email", email),
			zap.Error(err))
		return err
	}

	s.logger.Info("password reset completed", zap.String("email", email))

	if s.cfg.NotifyOnSuccess {
		s.notifySuccess(ctx, email)
	}
	return nil
}

func (s *Service) notifySuccess(ctx context.Context, email string) {
	html, err := renderResetSuccessEmail(s.appName, email)
	if err != nil {
		s.logger.Warn("failed to render password changed email", zap.Error(err))
		return
	}

	if !s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: fmt.Sprintf("Your %s password was changed", s.appName),
		HTML:    html,
	}) {
		s.logger.Warn("password changed notification was not delivered", zap.String("email", email))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidOrExpiredCode):
		return "invalid_code"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrEmailDeliveryFailed):
		return "email_failed"
	case errors.Is(err, ErrCredentialUpdateFailed):
		return "update_failed"
	default:
		return "error"
	}
}
