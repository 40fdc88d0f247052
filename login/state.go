package login

import "net/http"

const (
	// GenericFailureMessage is shown when the endpoint answers with a
	// non-200 status instead of rejecting the request.
	GenericFailureMessage = "Login failed. Please try again."

	// FallbackErrorMessage is shown when a rejection carries no readable
	// message of its own.
	FallbackErrorMessage = "Invalid email or password"
)

// Phase is the stage of a login submission.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the submission state of one login form. Message is only set
// in the Failed phase.
type State struct {
	Phase   Phase
	Message string
}

// Pending reports whether a submission is outstanding.
func (s State) Pending() bool { return s.Phase == Pending }

// Event drives a State transition through Reduce.
type Event interface {
	event()
}

// Submitted starts a new submission attempt.
type Submitted struct{}

// Resolved reports that the transport answered with a status code.
type Resolved struct {
	StatusCode int
}

// Rejected reports that the transport failed or the endpoint refused the
// credentials.
type Rejected struct {
	Err error
}

func (Submitted) event() {}
func (Resolved) event()  {}
func (Rejected) event()  {}

// Reduce returns the state that follows s after e. It has no side effects.
// Outcome events are only accepted while Pending, and a new submission is
// ignored while one is already Pending.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case Submitted:
		if s.Phase == Pending {
			return s
		}
		return State{Phase: Pending}
	case Resolved:
		if s.Phase != Pending {
			return s
		}
		if ev.StatusCode == http.StatusOK {
			return State{Phase: Succeeded}
		}
		return State{Phase: Failed, Message: GenericFailureMessage}
	case Rejected:
		if s.Phase != Pending {
			return s
		}
		return State{Phase: Failed, Message: MessageFor(ev.Err)}
	}
	return s
}
