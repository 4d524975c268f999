package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/internal/validation"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/mail"
	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) bool
}

type Request struct {
	Type          string `json:"type" validate:"required,oneof=contact quote booking" doc:"Kind of enquiry" example:"quote"`
	Name          string `json:"name" validate:"required,max=120" example:"Ana Silva"`
	Email         string `json:"email" validate:"required,email" example:"ana@example.com"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,max=40" example:"+44 20 7946 0958"`
	Message       string `json:"message" validate:"required,max=5000" example:"Looking to record a four track EP in March."`
	Service       string `json:"service,omitempty" validate:"omitempty,max=120" example:"Mixing"`
	PreferredDate string `json:"preferredDate,omitempty" validate:"omitempty,datetime=2006-01-02" doc:"YYYY-MM-DD" example:"2026-03-14"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type Handler struct {
	appName       string
	inbox         string
	sendAutoReply bool
	mailer        Mailer
	logger        *logging.Service
}

// NewHandler forwards enquiries to the contact inbox, falling back to the
// mail sender address when no inbox is configured.
func NewHandler(cfg *config.Config, mailer Mailer, logger *logging.Service) *Handler {
	inbox := cfg.Contact.Inbox
	if inbox == "" {
		inbox = cfg.Mail.FromAddress
	}

	return &Handler{
		appName:       cfg.App.Name,
		inbox:         inbox,
		sendAutoReply: cfg.Contact.SendAutoReply,
		mailer:        mailer,
		logger:        logger,
	}
}

func (h *Handler) Register(e *echo.Echo, path string, middlewares ...echo.MiddlewareFunc) {
	e.POST(path, h.Submit, middlewares...)
}

func (h *Handler) Submit(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}
	req.normalize()

	if err := c.Validate(&req); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:  fields.First("type", "name", "email", "message"),
				Fields: fields,
			})
		}
		h.logger.Error("contact request validation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}

	if h.inbox == "" {
		h.logger.Error("contact inbox is not configured")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}

	ctx := c.Request().Context()

	html, err := renderEnquiry(h.appName, req)
	if err != nil {
		h.logger.Error("failed to render enquiry email", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}

	if !h.mailer.Send(ctx, mail.Message{
		To:      h.inbox,
		Subject: subjectFor(req),
		HTML:    html,
		ReplyTo: req.Email,
	}) {
		h.logger.Warn("enquiry was not delivered",
			zap.String("type", req.Type),
			zap.String("email", req.Email))
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to send your message. Please try again later"})
	}

	h.logger.Info("enquiry forwarded",
		zap.String("type", req.Type),
		zap.String("email", req.Email))

	if h.sendAutoReply {
		h.autoReply(ctx, req)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Thanks for getting in touch. We'll reply shortly",
	})
}

func (h *Handler) autoReply(ctx context.Context, req Request) {
	html, err := renderAutoReply(h.appName, req)
	if err != nil {
		h.logger.Warn("failed to render auto reply", zap.Error(err))
		return
	}

	if !h.mailer.Send(ctx, mail.Message{
		To:      req.Email,
		Subject: fmt.Sprintf("We received your message - %s", h.appName),
		HTML:    html,
		ReplyTo: h.inbox,
	}) {
		h.logger.Warn("auto reply was not delivered", zap.String("email", req.Email))
	}
}

func (r *Request) normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	r.Service = strings.TrimSpace(r.Service)
	r.PreferredDate = strings.TrimSpace(r.PreferredDate)
}

func subjectFor(req Request) string {
	switch req.Type {
	case "quote":
		return "New quote request from " + req.Name
	case "booking":
		return "New booking request from " + req.Name
	default:
		return "New message from " + req.Name
	}
}
