package transport

import (
	"bytes"
	"encoding/json"

	"waterwise-login/login"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// errorBody covers the failure shapes seen from login endpoints: a flat
// {"message": "..."} and the nested {"error": {"message": "..."}}. A string
// "error" is a machine code and never displayed.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
}

// DecodeErrorPayload extracts the displayable message from a failure body.
// A top-level message wins over a nested error.message. Empty bodies give
// PayloadAbsent and bodies without a message give PayloadUnrecognized.
func DecodeErrorPayload(body []byte) login.ErrorPayload {
	if len(bytes.TrimSpace(body)) == 0 {
		return login.ErrorPayload{Kind: login.PayloadAbsent}
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return login.ErrorPayload{Kind: login.PayloadUnrecognized}
	}

	if p := login.MessagePayload(eb.Message); p.Kind == login.PayloadMessage {
		return p
	}
	var detail errorDetail
	if len(eb.Error) > 0 && json.Unmarshal(eb.Error, &detail) == nil {
		return login.MessagePayload(detail.Message)
	}
	return login.ErrorPayload{Kind: login.PayloadUnrecognized}
}
