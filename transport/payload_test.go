package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waterwise-login/login"
	"waterwise-login/transport"
)

func TestDecodeErrorPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want login.ErrorPayload
	}{
		{
			name: "flat message",
			body: `{"message":"Account locked"}`,
			want: login.ErrorPayload{Kind: login.PayloadMessage, Message: "Account locked"},
		},
		{
			name: "nested error message",
			body: `{"error":{"code":"UNAUTHORIZED","message":"Session Expired","type":"AUTH_ERROR"}}`,
			want: login.ErrorPayload{Kind: login.PayloadMessage, Message: "Session Expired"},
		},
		{
			name: "flat message wins over nested",
			body: `{"message":"Bad credentials","error":{"message":"ignored"}}`,
			want: login.ErrorPayload{Kind: login.PayloadMessage, Message: "Bad credentials"},
		},
		{
			name: "error code string with message",
			body: `{"error":"login_failed","message":"Invalid credentials or expired flow."}`,
			want: login.ErrorPayload{Kind: login.PayloadMessage, Message: "Invalid credentials or expired flow."},
		},
		{
			name: "error code string only",
			body: `{"error":"invalid request body"}`,
			want: login.ErrorPayload{Kind: login.PayloadUnrecognized},
		},
		{
			name: "blank message",
			body: `{"message":"   "}`,
			want: login.ErrorPayload{Kind: login.PayloadUnrecognized},
		},
		{
			name: "html body",
			body: `<html>502 Bad Gateway</html>`,
			want: login.ErrorPayload{Kind: login.PayloadUnrecognized},
		},
		{
			name: "empty body",
			body: "  \n",
			want: login.ErrorPayload{Kind: login.PayloadAbsent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transport.DecodeErrorPayload([]byte(tt.body)))
		})
	}
}
