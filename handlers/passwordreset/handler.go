package passwordreset

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/cadence/services/logging"
	reset "github.com/tech-arch1tect/cadence/services/passwordreset"
	"go.uber.org/zap"
)

const (
	ActionGenerate = "generate"
	ActionVerify   = "verify"
)

// Resetter issues and redeems reset codes.
type Resetter interface {
	Generate(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code, newPassword string) error
}

// Router is satisfied by both *echo.Echo and *echo.Group.
type Router interface {
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type Request struct {
	Action      string `json:"action" validate:"required,oneof=generate verify" doc:"generate emails a code, verify redeems it" example:"generate"`
	Email       string `json:"email" validate:"required,email" example:"musician@example.com"`
	Token       string `json:"token,omitempty" doc:"Six digit code, verify only" example:"482913"`
	NewPassword string `json:"newPassword,omitempty" doc:"Replacement password, verify only" example:"NewPass1!"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	resetter Resetter
	logger   *logging.Service
}

func NewHandler(resetter Resetter, logger *logging.Service) *Handler {
	return &Handler{
		resetter: resetter,
		logger:   logger,
	}
}

// Register mounts the endpoint at path. Middlewares apply to POST only so that
// preflight requests are never rate limited.
func (h *Handler) Register(r Router, path string, middlewares ...echo.MiddlewareFunc) {
	r.POST(path, h.Handle, middlewares...)
	r.OPTIONS(path, h.Preflight)
}

func (h *Handler) Preflight(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *Handler) Handle(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		h.logger.Debug("malformed password reset request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}

	ctx := c.Request().Context()

	var (
		message string
		err     error
	)
	switch req.Action {
	case ActionGenerate:
		message = "Reset code sent to your email"
		err = h.resetter.Generate(ctx, req.Email)
	case ActionVerify:
		message = "Password updated successfully"
		err = h.resetter.Verify(ctx, req.Email, req.Token, req.NewPassword)
	default:
		err = reset.ErrUnknownAction
	}

	if err != nil {
		return h.fail(c, req.Action, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: message})
}

func (h *Handler) fail(c echo.Context, action string, err error) error {
	status, message := errorResponse(err)

	fields := []zap.Field{
		zap.String("action", action),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("password reset request failed", fields...)
	} else {
		h.logger.Info("password reset request rejected", fields...)
	}

	return c.JSON(status, ErrorResponse{Error: message})
}

// errorResponse maps a service error to a status and a message that is safe
// to show the caller. Unknown users and bad codes read the same.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, reset.ErrInvalidInput):
		return http.StatusBadRequest, inputMessage(err)
	case errors.Is(err, reset.ErrInvalidOrExpiredCode), errors.Is(err, reset.ErrUserNotFound):
		return http.StatusBadRequest, "Invalid or expired reset code"
	case errors.Is(err, reset.ErrCredentialUpdateFailed):
		return http.StatusBadRequest, "Failed to update password. Please request a new reset code"
	case errors.Is(err, reset.ErrEmailDeliveryFailed):
		return http.StatusBadRequest, "Failed to send reset code email"
	case errors.Is(err, reset.ErrUnknownAction):
		return http.StatusBadRequest, "Invalid action"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), reset.ErrInvalidInput.Error()+": ")
	if msg == "" || msg == reset.ErrInvalidInput.Error() {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
