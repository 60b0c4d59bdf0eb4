package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// State names carried by StateChangeEvent.From and To. The controller's State
// values stringify to these.
const (
	StateIdle    = "idle"
	StateLoading = "loading"
	StateSuccess = "success"
	StateError   = "error"
)

// Error kinds carried by StateChangeEvent.ErrorKind.
const (
	KindValidation    = "validation"
	KindConfiguration = "configuration"
	KindService       = "service"
)

// StateChangeEvent describes one transition of the request state machine.
// States are carried as their string names so this package does not depend
// on the controller.
type StateChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// RequestID identifies the generation request the transition belongs to.
	// It is empty for transitions that never started a request.
	RequestID string `json:"request_id,omitempty"`

	From string `json:"from"`
	To   string `json:"to"`

	// ErrorKind is set when the transition reports a failure: KindValidation,
	// KindConfiguration or KindService.
	ErrorKind string `json:"error_kind,omitempty"`

	// Elapsed is the duration of the settled request; zero when entering Loading.
	Elapsed time.Duration `json:"elapsed"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewStateChangeEvent creates a StateChangeEvent for a transition.
func NewStateChangeEvent(requestID, from, to string) *StateChangeEvent {
	return &StateChangeEvent{
		ID:        uuid.New(),
		RequestID: requestID,
		From:      from,
		To:        to,
		CreatedAt: time.Now(),
	}
}

// Settled reports whether the event ends a request.
func (e *StateChangeEvent) Settled() bool {
	return e.From == StateLoading && e.To != StateLoading
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *StateChangeEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *StateChangeEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *StateChangeEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the controller to publish transitions without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *StateChangeEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *StateChangeEvent) error { return nil }
