package login_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"waterwise-login/login"
)

func TestMessageFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "payload message",
			err:  &login.Rejection{StatusCode: http.StatusUnauthorized, Payload: login.MessagePayload("Bad credentials")},
			want: "Bad credentials",
		},
		{
			name: "wrapped rejection",
			err:  fmt.Errorf("submit: %w", &login.Rejection{Payload: login.MessagePayload("Account locked")}),
			want: "Account locked",
		},
		{
			name: "rejection inside oops error",
			err:  oops.Code("LOGIN_REJECTED").Wrap(&login.Rejection{Payload: login.MessagePayload("Too many attempts")}),
			want: "Too many attempts",
		},
		{
			name: "absent payload",
			err:  &login.Rejection{Err: errors.New("connection reset")},
			want: login.FallbackErrorMessage,
		},
		{
			name: "message kind with empty text",
			err:  &login.Rejection{Payload: login.ErrorPayload{Kind: login.PayloadMessage}},
			want: login.FallbackErrorMessage,
		},
		{
			name: "not a rejection",
			err:  errors.New("boom"),
			want: login.FallbackErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, login.MessageFor(tt.err))
		})
	}
}

func TestMessagePayload(t *testing.T) {
	assert.Equal(t, login.ErrorPayload{Kind: login.PayloadMessage, Message: "Account locked"}, login.MessagePayload("  Account locked "))
	assert.Equal(t, login.ErrorPayload{Kind: login.PayloadUnrecognized}, login.MessagePayload("   "))
}

func TestRejection_Error(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	assert.Equal(t, "login rejected (status 401): nope", (&login.Rejection{StatusCode: 401, Err: errors.New("nope")}).Error())
	assert.Equal(t, "login rejected: dial tcp: refused", (&login.Rejection{Err: cause}).Error())
	assert.Equal(t, "login rejected (status 500)", (&login.Rejection{StatusCode: 500}).Error())
	assert.Equal(t, "login rejected", (&login.Rejection{}).Error())
	assert.ErrorIs(t, &login.Rejection{Err: cause}, cause)
}
