package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// A private type for the context key to prevent collisions.
type contextKey string

// loggerContextKey is the key used to store the request-scoped logger.
const loggerContextKey contextKey = "logger"

// RequestLogMiddleware attaches a logger carrying the request id to the
// request context and logs one line per served request.
func (a *App) RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.Logger.With("request_id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.InfoContext(ctx, "request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// GetRequestLogger returns the logger stored by RequestLogMiddleware, or the
// application logger outside a request.
func (a *App) GetRequestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return a.Logger
}
