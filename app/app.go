package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"

	"waterwise-login/config"
	"waterwise-login/delivery"
	"waterwise-login/login"
	"waterwise-login/transport"
)

// App holds the application's dependencies and state, like the router and
// the authentication transport.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Transport login.Transport
	Registry  *prometheus.Registry
	Router    http.Handler
}

// New creates a new App instance, builds the configured transport, and sets
// up the router.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	tr, err := NewTransport(cfg.Transport, logger)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(cfg, logger, tr), nil
}

// NewWithTransport is New with a caller-supplied transport.
func NewWithTransport(cfg *config.Config, logger *slog.Logger, tr login.Transport) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Transport: tr,
		Registry:  reg,
	}
	app.Router = delivery.NewRouter(app)
	return app
}

// NewTransport builds the backend selected by cfg.Kind.
func NewTransport(cfg config.TransportConfig, logger *slog.Logger) (login.Transport, error) {
	switch cfg.Kind {
	case config.TransportHTTP:
		return transport.NewHTTP(cfg.Endpoint,
			transport.WithTimeout(cfg.Timeout),
			transport.WithRetryMax(cfg.RetryMax),
			transport.WithTransportLogger(logger),
		)
	case config.TransportKratos:
		client := transport.NewRetryingClient(cfg.Timeout, cfg.RetryMax, logger)
		return transport.NewKratos(cfg.KratosPublicURL, client, logger), nil
	default:
		return nil, oops.Code("CONFIG_INVALID").
			With("kind", cfg.Kind).
			Errorf("unknown transport kind %q", cfg.Kind)
	}
}

// Start runs the HTTP server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		a.Logger.Info("server listening", "addr", srv.Addr, "transport", a.Config.Transport.Kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return oops.Code("SERVER_FAILED").With("addr", srv.Addr).Wrapf(err, "http server stopped")
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SERVER_SHUTDOWN_FAILED").Wrapf(err, "graceful shutdown")
	}
	<-errCh
	return nil
}

func (a *App) GetTransport() login.Transport {
	return a.Transport
}

func (a *App) GetLoginConfig() login.Config {
	return a.Config.LoginSettings()
}

func (a *App) GetSecurityConfig() config.SecurityConfig {
	return a.Config.Server.Security
}

func (a *App) GetLogger() *slog.Logger {
	return a.Logger
}

func (a *App) GetMetricsRegistry() *prometheus.Registry {
	return a.Registry
}
