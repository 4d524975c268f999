package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/internal/validation"
	corsmw "github.com/tech-arch1tect/cadence/middleware/cors"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/zap"
)

const HealthPath = "/healthz"

type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *logging.Service
}

func New(cfg *config.Config, logger *logging.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()

	configureTrustedProxies(e, cfg.Server.TrustedProxies, logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logging.RequestLogger(logger, HealthPath, cfg.Metrics.Path))
	e.Use(corsmw.Default())

	e.GET(HealthPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Server) Address() string {
	return net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
}

// Listen binds the configured address so that port conflicts fail startup
// instead of surfacing later from the serve goroutine.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Address())
	if err != nil {
		return err
	}
	s.echo.Listener = ln
	return nil
}

// Serve blocks until the server is shut down.
func (s *Server) Serve() {
	s.logRoutes()
	s.logger.Info("starting server", zap.String("address", s.ListenAddr()))

	if err := s.echo.Start(s.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("server stopped unexpectedly", zap.Error(err))
	}
}

// ListenAddr reports the bound address, which differs from Address when the
// configured port is 0.
func (s *Server) ListenAddr() string {
	if s.echo.Listener != nil {
		return s.echo.Listener.Addr().String()
	}
	return s.Address()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if timeout := s.cfg.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.logger.Info("stopping server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) logRoutes() {
	for _, route := range s.echo.Routes() {
		s.logger.Debug("route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("handler", shortenHandlerName(route.Name)))
	}
}

// configureTrustedProxies only honours X-Forwarded-For from the listed
// addresses or CIDR ranges. With none configured the peer address is used.
func configureTrustedProxies(e *echo.Echo, proxies []string, logger *logging.Service) {
	var options []echo.TrustOption
	for _, proxy := range proxies {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}

		network, err := parseProxy(proxy)
		if err != nil {
			logger.Warn("ignoring invalid trusted proxy", zap.String("proxy", proxy), zap.Error(err))
			continue
		}
		options = append(options, echo.TrustIPRange(network))
	}

	if len(options) == 0 {
		e.IPExtractor = echo.ExtractIPDirect()
		return
	}

	options = append(options,
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	)
	e.IPExtractor = echo.ExtractIPFromXFFHeader(options...)
}

func parseProxy(proxy string) (*net.IPNet, error) {
	if !strings.Contains(proxy, "/") {
		ip := net.ParseIP(proxy)
		if ip == nil {
			return nil, &net.ParseError{Type: "IP address", Text: proxy}
		}
		if ip.To4() != nil {
			proxy += "/32"
		} else {
			proxy += "/128"
		}
	}

	_, network, err := net.ParseCIDR(proxy)
	return network, err
}

func shortenHandlerName(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > 80 {
		name = name[:77] + "..."
	}
	return name
}
