package delivery

import (
	"net/http"
)

// HTTPEndpoint holds a reference to the core application and the
// submission metrics.
type HTTPEndpoint struct {
	app     AppDependencies
	metrics *Metrics
}

type errorPageData struct {
	Error struct {
		ID     string
		Reason string
	}
}

// homeHandler sends visitors to the login form.
func (h *HTTPEndpoint) homeHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *HTTPEndpoint) errorHandler(w http.ResponseWriter, r *http.Request) {
	data := errorPageData{}
	data.Error.ID = r.URL.Query().Get("id")
	data.Error.Reason = r.URL.Query().Get("reason")

	// If no specific reason is provided, use a generic one.
	if data.Error.Reason == "" {
		data.Error.Reason = "An unexpected error occurred."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)

	if err := errorTemplate.ExecuteTemplate(w, "error.html", data); err != nil {
		// The status is already written; all that is left is to record it.
		h.app.GetLogger().ErrorContext(r.Context(), "failed to execute error template", "error", err)
	}
}

// csrfFailureHandler answers a POST whose CSRF token is missing or stale.
func csrfFailureHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "CSRF token validation failed. Please refresh the page and try again.", http.StatusForbidden)
}
