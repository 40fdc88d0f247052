// Package login holds the submission state machine behind the login form:
// it captures credentials, drives one authentication request at a time and
// decides between a redirect and an inline error.
package login

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"waterwise-login/logging"
)

// Response is what a Transport returns when the endpoint answered.
type Response struct {
	StatusCode int
}

// Transport performs the authentication request.
type Transport interface {
	Authenticate(ctx context.Context, creds Credentials) (Response, error)
}

// Navigator moves the user to a new page once login succeeded. Navigate is
// called with the controller locked and must not call back into it.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, target string) error

func (f NavigatorFunc) Navigate(ctx context.Context, target string) error { return f(ctx, target) }

// Config holds the fixed destinations of the form.
type Config struct {
	RedirectTarget string
	SignupLink     string
}

// DefaultConfig returns the destinations used when none are configured.
func DefaultConfig() Config {
	return Config{
		RedirectTarget: "/dashboard",
		SignupLink:     "/register",
	}
}

// View is the read-only projection the presentation layer renders.
type View struct {
	Email          string
	Password       string
	Pending        bool
	ErrorMessage   string
	SignupLink     string
	RedirectTarget string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for submission lifecycle records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the state owner of one login form instance. All methods are
// safe for concurrent use.
type Controller struct {
	id        string
	cfg       Config
	transport Transport
	navigator Navigator
	logger    *slog.Logger

	mu     sync.Mutex
	creds  Credentials
	state  State
	closed bool
	cancel context.CancelFunc
}

// NewController creates an Idle controller.
func NewController(cfg Config, transport Transport, navigator Navigator, opts ...Option) (*Controller, error) {
	if transport == nil {
		return nil, errors.New("login transport is required")
	}
	if navigator == nil {
		return nil, errors.New("login navigator is required")
	}
	if cfg.RedirectTarget == "" {
		return nil, errors.New("login redirect target is required")
	}

	c := &Controller{
		id:        uuid.NewString(),
		cfg:       cfg,
		transport: transport,
		navigator: navigator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("form_id", c.id)
	return c, nil
}

// ID identifies this form instance in logs.
func (c *Controller) ID() string { return c.id }

// OnFieldChange stores the latest value of a form field.
func (c *Controller) OnFieldChange(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldEmail:
		c.creds.Email = value
	case FieldPassword:
		c.creds.Password = value
	default:
		return ErrUnknownField
	}
	return nil
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the current projection for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Email:          c.creds.Email,
		Password:       c.creds.Password,
		Pending:        c.state.Pending(),
		ErrorMessage:   c.state.Message,
		SignupLink:     c.cfg.SignupLink,
		RedirectTarget: c.cfg.RedirectTarget,
	}
}

// OnSubmit starts a submission of the current credentials and returns at
// once. The returned channel yields the settled state and is then closed;
// it is closed without a value if the controller is closed first.
//
// Invalid credentials return a validation error and leave the state as it
// was. A second call while Pending returns ErrSubmissionPending and issues
// no request.
func (c *Controller) OnSubmit(ctx context.Context) (<-chan State, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.state.Pending() {
		c.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	creds := c.creds
	if err := creds.Validate(); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.state = Reduce(c.state, Submitted{})
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "login submission started")

	done := make(chan State, 1)
	go c.run(runCtx, cancel, creds, done)
	return done, nil
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, creds Credentials, done chan<- State) {
	defer close(done)
	defer cancel()

	resp, err := c.transport.Authenticate(ctx, creds)

	var ev Event = Resolved{StatusCode: resp.StatusCode}
	if err != nil {
		ev = Rejected{Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.DebugContext(ctx, "discarding login outcome for closed form")
		return
	}

	next := Reduce(c.state, ev)
	c.state = next
	c.cancel = nil

	switch next.Phase {
	case Succeeded:
		c.logger.InfoContext(ctx, "login succeeded", "status", resp.StatusCode, "redirect", c.cfg.RedirectTarget)
		// The lock is held so Close cannot race a redirect.
		if navErr := c.navigator.Navigate(ctx, c.cfg.RedirectTarget); navErr != nil {
			logging.LogError(c.logger, "login redirect failed", navErr, "redirect", c.cfg.RedirectTarget)
		}
	case Failed:
		if err != nil {
			c.logger.InfoContext(ctx, "login rejected", "error", err)
		} else {
			c.logger.InfoContext(ctx, "login failed", "status", resp.StatusCode)
		}
	}

	done <- next
}

// Close abandons the form. An outstanding request is cancelled and its
// outcome, if it still arrives, is ignored. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
