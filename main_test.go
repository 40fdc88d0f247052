package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	configFile = ""
	t.Setenv("LOGIN_ENDPOINT", "")

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func loginBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		if strings.Contains(buf.String(), `"password":"secret1"`) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	out, _, err := runCLI(t, "", "--help")
	require.NoError(t, err)

	for _, sub := range []string{"serve", "submit"} {
		assert.Contains(t, out, sub, "Help missing %q command", sub)
	}
}

func TestSubmit_SuccessPrintsDestination(t *testing.T) {
	srv := loginBackend(t)

	out, _, err := runCLI(t, "",
		"submit", "--email", "user@example.com", "--password", "secret1",
		"--endpoint", srv.URL+"/api/login", "--base-url", "https://app.example.com/")
	require.NoError(t, err)
	assert.Contains(t, out, "https://app.example.com/dashboard")
}

func TestSubmit_PromptsForPassword(t *testing.T) {
	srv := loginBackend(t)

	out, errOut, err := runCLI(t, "secret1\n",
		"submit", "--email", "user@example.com", "--endpoint", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Password: ")
	assert.Contains(t, out, "http://127.0.0.1:8080/dashboard")
}

func TestSubmit_FailurePrintsMessage(t *testing.T) {
	srv := loginBackend(t)

	out, errOut, err := runCLI(t, "",
		"submit", "--email", "user@example.com", "--password", "wrong-pass", "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Bad credentials")

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "LOGIN_FAILED", oopsErr.Code())
}

func TestSubmit_InvalidCredentialsNeverReachBackend(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	_, errOut, err := runCLI(t, "",
		"submit", "--email", "not-an-email", "--password", "123", "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Contains(t, errOut, "email: ")
	assert.Contains(t, errOut, "password: ")
	assert.Zero(t, hits)
}

func TestSubmit_RejectsBadEndpoint(t *testing.T) {
	_, _, err := runCLI(t, "",
		"submit", "--email", "user@example.com", "--password", "secret1", "--endpoint", "/relative")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport.endpoint must be an absolute http(s) URL")
}
