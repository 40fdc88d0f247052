package login

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionPending is returned by OnSubmit while a request is in flight.
	ErrSubmissionPending = errors.New("login submission already pending")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("login controller closed")
	// ErrUnknownField is returned by OnFieldChange for fields the form lacks.
	ErrUnknownField = errors.New("unknown login field")
)

// PayloadKind tells how much of a failure body could be understood.
type PayloadKind int

const (
	// PayloadAbsent means there was no response body, e.g. a network failure.
	PayloadAbsent PayloadKind = iota
	// PayloadMessage means the body carried a human-readable message.
	PayloadMessage
	// PayloadUnrecognized means a body arrived but held no usable message.
	PayloadUnrecognized
)

// ErrorPayload is the structured part of a failed authentication response.
type ErrorPayload struct {
	Kind    PayloadKind
	Message string
}

// MessagePayload returns a PayloadMessage for msg, or PayloadUnrecognized
// when msg is blank.
func MessagePayload(msg string) ErrorPayload {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ErrorPayload{Kind: PayloadUnrecognized}
	}
	return ErrorPayload{Kind: PayloadMessage, Message: msg}
}

// Rejection is the error a Transport returns when authentication did not
// succeed. StatusCode is zero when no response was received.
type Rejection struct {
	StatusCode int
	Payload    ErrorPayload
	Err        error
}

func (r *Rejection) Error() string {
	switch {
	case r.Err != nil && r.StatusCode != 0:
		return fmt.Sprintf("login rejected (status %d): %v", r.StatusCode, r.Err)
	case r.Err != nil:
		return fmt.Sprintf("login rejected: %v", r.Err)
	case r.StatusCode != 0:
		return fmt.Sprintf("login rejected (status %d)", r.StatusCode)
	default:
		return "login rejected"
	}
}

func (r *Rejection) Unwrap() error { return r.Err }

// MessageFor picks the text to display for a failed submission. A message
// carried by a Rejection payload wins; anything else falls back to
// FallbackErrorMessage.
func MessageFor(err error) string {
	var rej *Rejection
	if errors.As(err, &rej) && rej.Payload.Kind == PayloadMessage && rej.Payload.Message != "" {
		return rej.Payload.Message
	}
	return FallbackErrorMessage
}
