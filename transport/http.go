// Package transport implements login.Transport against real authentication
// backends.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/samber/oops"

	"waterwise-login/login"
)

// HTTPTransport posts credentials as JSON to a login endpoint. Any 2xx
// answer resolves; other statuses and connection failures reject with a
// *login.Rejection.
type HTTPTransport struct {
	endpoint string
	client   *retryablehttp.Client
	logger   *slog.Logger
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithRetryMax sets how often a request that never reached the endpoint is
// retried. HTTP statuses are never retried.
func WithRetryMax(n int) HTTPOption {
	return func(t *HTTPTransport) {
		if n >= 0 {
			t.client.RetryMax = n
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.client.HTTPClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if c != nil {
			t.client.HTTPClient = c
		}
	}
}

// WithTransportLogger sets the logger for request and retry records.
func WithTransportLogger(logger *slog.Logger) HTTPOption {
	return func(t *HTTPTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewHTTP returns a transport posting to endpoint, which must be an absolute
// http(s) URL.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTPTransport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("endpoint", endpoint).Wrap(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, oops.Code("CONFIG_INVALID").With("endpoint", endpoint).Errorf("login endpoint must be an absolute http(s) URL")
	}

	client := newRetryClient()
	t := &HTTPTransport{
		endpoint: endpoint,
		client:   client,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	client.Logger = t.logger
	return t, nil
}

// NewRetryingClient returns a plain *http.Client with the same retry policy
// as HTTPTransport, for SDKs that take their own client.
func NewRetryingClient(timeout time.Duration, retryMax int, logger *slog.Logger) *http.Client {
	client := newRetryClient()
	client.HTTPClient.Timeout = timeout
	if retryMax > 0 {
		client.RetryMax = retryMax
	}
	if logger != nil {
		client.Logger = logger
	}
	return client.StandardClient()
}

func newRetryClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.CheckRetry = retryConnectionErrors
	client.Logger = nil
	return client
}

// Authenticate posts creds and classifies the response.
func (t *HTTPTransport) Authenticate(ctx context.Context, creds login.Credentials) (login.Response, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return login.Response{}, &login.Rejection{Err: oops.Code("LOGIN_TRANSPORT_FAILED").Wrap(err)}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return login.Response{}, &login.Rejection{Err: oops.Code("LOGIN_TRANSPORT_FAILED").With("endpoint", t.endpoint).Wrap(err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return login.Response{}, &login.Rejection{
			Payload: login.ErrorPayload{Kind: login.PayloadAbsent},
			Err:     oops.Code("LOGIN_TRANSPORT_FAILED").With("endpoint", t.endpoint).Wrap(err),
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		t.logger.WarnContext(ctx, "reading login response body failed", "status", resp.StatusCode, "error", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return login.Response{StatusCode: resp.StatusCode}, nil
	}

	return login.Response{}, &login.Rejection{
		StatusCode: resp.StatusCode,
		Payload:    DecodeErrorPayload(data),
		Err: oops.Code("LOGIN_REJECTED").
			With("endpoint", t.endpoint).
			With("status", resp.StatusCode).
			Errorf("login endpoint answered %s", resp.Status),
	}
}

// retryConnectionErrors retries only when no response arrived. A status from
// the endpoint is its answer and must reach the form as is.
func retryConnectionErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
