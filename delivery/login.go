package delivery

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/csrf"

	"waterwise-login/delivery/model"
	"waterwise-login/logging"
	"waterwise-login/login"
)

// renderLoginForm is a helper to render the login UI.
func (h *HTTPEndpoint) renderLoginForm(w http.ResponseWriter, r *http.Request, status int, page model.LoginPage) {
	page.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := loginTemplate.ExecuteTemplate(&buf, "login.html", page); err != nil {
		h.app.GetLogger().ErrorContext(r.Context(), "failed to execute login template", "error", err)
		http.Error(w, "Failed to render the page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// loginHandler handles the GET request for the login page.
func (h *HTTPEndpoint) loginHandler(w http.ResponseWriter, r *http.Request) {
	cfg := h.app.GetLoginConfig()
	h.renderLoginForm(w, r, http.StatusOK, model.NewLoginPage(login.View{
		SignupLink:     cfg.SignupLink,
		RedirectTarget: cfg.RedirectTarget,
	}))
}

// loginSubmitHandler handles the POST request from the login form. Each
// request is one form instance: a controller is built from the posted
// fields, submitted, and closed when the request ends.
func (h *HTTPEndpoint) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	logger := h.app.GetRequestLogger(r.Context())
	nav := &redirectNavigator{}
	ctrl, err := login.NewController(h.app.GetLoginConfig(), h.app.GetTransport(), nav, login.WithLogger(logger))
	if err != nil {
		logging.LogError(logger, "failed to create login controller", err)
		http.Redirect(w, r, "/error?reason="+url.QueryEscape("The login form is unavailable."), http.StatusSeeOther)
		return
	}
	defer ctrl.Close()

	_ = ctrl.OnFieldChange(login.FieldEmail, r.PostForm.Get("email"))
	_ = ctrl.OnFieldChange(login.FieldPassword, r.PostForm.Get("password"))

	start := time.Now()
	outcome, err := ctrl.OnSubmit(r.Context())
	if err != nil {
		h.metrics.observe(outcomeInvalid, 0)
		page := model.NewLoginPage(ctrl.View())
		page.FieldErrors = login.FieldErrors(err)
		h.renderLoginForm(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	select {
	case state, ok := <-outcome:
		if !ok {
			h.metrics.observe(outcomeAbandoned, 0)
			return
		}
		if target, redirected := nav.Target(); state.Phase == login.Succeeded && redirected {
			h.metrics.observe(outcomeSucceeded, time.Since(start))
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		h.metrics.observe(outcomeFailed, time.Since(start))
		h.renderLoginForm(w, r, http.StatusOK, model.NewLoginPage(ctrl.View()))
	case <-r.Context().Done():
		h.metrics.observe(outcomeAbandoned, 0)
		logger.DebugContext(r.Context(), "client left before login settled", "form_id", ctrl.ID())
	}
}
