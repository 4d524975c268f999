package cors

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Config struct {
	AllowOrigin  string
	AllowHeaders []string
	AllowMethods []string
}

var DefaultConfig = Config{
	AllowOrigin:  "*",
	AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	AllowMethods: []string{http.MethodPost, http.MethodOptions},
}

// Middleware sets the CORS headers on every response, including errors, and
// answers preflight OPTIONS requests with an empty 200 without calling next.
func Middleware(cfg Config) echo.MiddlewareFunc {
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = DefaultConfig.AllowOrigin
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = DefaultConfig.AllowHeaders
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = DefaultConfig.AllowMethods
	}

	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	allowMethods := strings.Join(cfg.AllowMethods, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, cfg.AllowOrigin)
			h.Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
			h.Set(echo.HeaderAccessControlAllowMethods, allowMethods)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}

func Default() echo.MiddlewareFunc {
	return Middleware(DefaultConfig)
}
