package controller

import (
	"html/template"
	"time"

	"github.com/dumblesdoor/socialkit/internal/events"
)

// State is the request state of a Controller.
type State int

// Request states.
const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return events.StateIdle
	case StateLoading:
		return events.StateLoading
	case StateSuccess:
		return events.StateSuccess
	case StateError:
		return events.StateError
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrorKind classifies a failure shown to the user.
type ErrorKind string

// Error kinds. RenderError has no kind: rendering failures degrade silently.
const (
	ErrorKindNone          ErrorKind = ""
	ErrorKindValidation    ErrorKind = events.KindValidation
	ErrorKindConfiguration ErrorKind = events.KindConfiguration
	ErrorKindService       ErrorKind = events.KindService
)

// User-facing messages.
const (
	MessageValidation = "Please enter a business description."
	MessageService    = "Failed to generate social media plan. This could be due to network issues or a problem with the service. Please try again."
	MessageLoading    = "Generating your custom plan..."

	messageConfigurationPrefix = "Configuration needed: "
	defaultConfigHint          = "Please provide an API key for the text-generation provider."
)

// Snapshot is an immutable copy of the Controller state.
type Snapshot struct {
	State       State
	Description string

	// Markdown and HTML are set only in StateSuccess.
	Markdown string
	HTML     template.HTML

	// ErrorKind and Message are set in StateError, and in StateIdle after a
	// blank submission.
	ErrorKind ErrorKind
	Message   string

	RequestID string
	StartedAt time.Time
	SettledAt time.Time
}

// Loading reports whether a request is in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// Elapsed returns the duration of the settled request, or zero.
func (s Snapshot) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.SettledAt.IsZero() {
		return 0
	}
	return s.SettledAt.Sub(s.StartedAt)
}
