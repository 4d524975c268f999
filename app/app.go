package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/internal/options"
	"github.com/tech-arch1tect/cadence/server"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	server *server.Server
}

// New assembles the application. Configuration is read from the environment
// unless supplied with options.WithConfig.
func New(opts ...options.Option) (*App, error) {
	o := options.Apply(opts...)

	cfg := o.Config
	if cfg == nil {
		cfg = &config.Config{}
		if err := config.LoadConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	app := &App{config: cfg}

	fxOptions := []fx.Option{
		Modules(cfg),
		fx.Populate(&app.logger, &app.server),
	}
	fxOptions = append(fxOptions, o.ExtraFxOptions...)

	app.fx = fx.New(fxOptions...)
	if err := app.fx.Err(); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	startCtx, cancel := context.WithTimeout(context.Background(), a.fx.StartTimeout())
	defer cancel()

	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	a.logger.Info("received shutdown signal, stopping gracefully", zap.String("signal", sig.String()))

	stopCtx, cancelStop := context.WithTimeout(context.Background(), a.stopTimeout())
	defer cancelStop()

	if err := a.Stop(stopCtx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
		return err
	}
	return nil
}

func (a *App) stopTimeout() time.Duration {
	timeout := a.config.Server.ShutdownTimeout + 5*time.Second
	return max(timeout, a.fx.StopTimeout())
}

func (a *App) Server() *echo.Echo {
	if a.server == nil {
		return nil
	}
	return a.server.Echo()
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.config
}
