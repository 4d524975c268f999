package passwordreset

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidOrExpiredCode   = errors.New("invalid or expired reset code")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailDeliveryFailed    = errors.New("failed to send reset code email")
	ErrCredentialUpdateFailed = errors.New("failed to update password")
	ErrUnknownAction          = errors.New("unknown action")
)
