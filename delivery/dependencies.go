package delivery

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"waterwise-login/config"
	"waterwise-login/login"
)

// AppDependencies defines the contract that the delivery layer (HTTP handlers)
// expects from the core application layer.
type AppDependencies interface {
	// GetTransport provides the backend every login form submits to.
	GetTransport() login.Transport

	// GetLoginConfig provides the fixed destinations of the form.
	GetLoginConfig() login.Config

	GetSecurityConfig() config.SecurityConfig

	GetLogger() *slog.Logger

	// RequestLogMiddleware logs served requests and scopes a logger to each.
	RequestLogMiddleware(next http.Handler) http.Handler

	GetRequestLogger(ctx context.Context) *slog.Logger

	// GetMetricsRegistry is where submission metrics are registered and
	// gathered from for /metrics.
	GetMetricsRegistry() *prometheus.Registry
}
