package passwordreset

import (
	"context"
	"errors"
	"fmt"

	"github.com/tech-arch1tect/cadence/services/identity"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/zap"
)

// Updater changes a user's password through the identity provider, trying a
// direct update by email first when the provider offers one.
type Updater struct {
	provider identity.Provider
	logger   *logging.Service
}

func NewUpdater(provider identity.Provider, logger *logging.Service) *Updater {
	return &Updater{provider: provider, logger: logger}
}

func (u *Updater) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if u.provider == nil {
		return fmt.Errorf("%w: no identity provider configured", ErrCredentialUpdateFailed)
	}

	if byEmail, ok := u.provider.(identity.EmailPasswordUpdater); ok {
		err := byEmail.UpdatePasswordByEmail(ctx, email, newPassword)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, identity.ErrUserNotFound):
			return fmt.Errorf("%w: %s", ErrUserNotFound, email)
		case errors.Is(err, identity.ErrUnsupported):
			u.logger.Debug("update by email unsupported, falling back to lookup")
		default:
			return fmt.Errorf("%w: %v", ErrCredentialUpdateFailed, err)
		}
	}

	user, err := u.provider.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return fmt.Errorf("%w: user lookup: %v", ErrCredentialUpdateFailed, err)
	}

	if err := u.provider.UpdatePasswordByID(ctx, user.ID, newPassword); err != nil {
		u.logger.Error("identity provider rejected password update",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCredentialUpdateFailed, err)
	}
	return nil
}
