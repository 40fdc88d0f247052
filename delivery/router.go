package delivery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waterwise-login/config"
)

// NewRouter builds the HTTP surface of the login form.
func NewRouter(deps AppDependencies) http.Handler {
	ParseAllTemplates()

	r := chi.NewRouter()

	h := &HTTPEndpoint{
		app:     deps,
		metrics: NewMetrics(deps.GetMetricsRegistry()),
	}

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(deps.RequestLogMiddleware)
	r.Use(middleware.Recoverer)

	// --- Public Routes ---
	r.Get("/", h.homeHandler)
	r.Get("/error", h.errorHandler)
	r.Handle("/metrics", promhttp.HandlerFor(deps.GetMetricsRegistry(), promhttp.HandlerOpts{}))

	// --- Authentication Routes ---
	r.Group(func(r chi.Router) {
		if sec := deps.GetSecurityConfig(); sec.CSRFEnabled {
			r.Use(csrfProtection(sec))
		}
		r.Get("/login", h.loginHandler)
		r.Post("/login", h.loginSubmitHandler)
	})

	return r
}

// csrfProtection guards the login form with gorilla/csrf. Without secure
// cookies the site is served over plain HTTP and the origin checks must be
// told so.
func csrfProtection(sec config.SecurityConfig) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		[]byte(sec.CSRFSecret),
		csrf.Secure(sec.CookieSecure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailureHandler)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if sec.CookieSecure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
