package app

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/handlers/contact"
	resethandler "github.com/tech-arch1tect/cadence/handlers/passwordreset"
	"github.com/tech-arch1tect/cadence/middleware/ratelimit"
	"github.com/tech-arch1tect/cadence/openapi"
	"github.com/tech-arch1tect/cadence/server"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/mail"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"github.com/tech-arch1tect/cadence/services/passwordreset"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	Version = "1.0.0"

	PasswordResetPath = "/password-reset"
	ContactPath       = "/contact"
)

type routeParams struct {
	fx.In

	Config         *config.Config
	Server         *server.Server
	Logger         *logging.Service
	Metrics        *metrics.Service
	RateLimitStore ratelimit.Store
	PasswordReset  *passwordreset.Service
	Mailer         *mail.Service
}

func registerRoutes(p routeParams) error {
	e := p.Server.Echo()

	var limited []echo.MiddlewareFunc
	if limiter := ratelimit.ForConfig(&p.Config.RateLimit, p.RateLimitStore, p.Logger.Named("ratelimit")); limiter != nil {
		limited = append(limited, limiter)
	}

	resets := resethandler.NewHandler(p.PasswordReset, p.Logger.Named("handlers.passwordreset"))
	resets.Register(e, PasswordResetPath, limited...)

	enquiries := contact.NewHandler(p.Config, p.Mailer, p.Logger.Named("handlers.contact"))
	enquiries.Register(e, ContactPath, limited...)

	if p.Config.Metrics.Enabled {
		e.GET(p.Config.Metrics.Path, echo.WrapHandler(p.Metrics.Handler()))
	}

	if p.Config.OpenAPI.Enabled {
		doc := openapi.New(p.Config.App.Name+" API", Version).
			Description("Public endpoints of the " + p.Config.App.Name + " website backend").
			Tag("password-reset", "Email code password reset").
			Tag("contact", "Contact, quote and booking enquiries").
			Tag("system", "Health")
		if p.Config.App.URL != "" {
			doc.Server(p.Config.App.URL, p.Config.App.Name)
		}

		resets.Document(doc, PasswordResetPath)
		enquiries.Document(doc, ContactPath)
		doc.Operation(http.MethodGet, server.HealthPath).
			Summary("Liveness check").
			OperationID("health").
			Tags("system").
			Response(http.StatusOK, map[string]string{}, "Healthy").
			Build()

		if err := doc.Validate(context.Background()); err != nil {
			return err
		}
		doc.Register(e, p.Config.OpenAPI.Path)
	}

	p.Logger.Info("routes registered",
		zap.Bool("rate_limited", len(limited) > 0),
		zap.Bool("openapi", p.Config.OpenAPI.Enabled),
		zap.Bool("metrics", p.Config.Metrics.Enabled))

	return nil
}
