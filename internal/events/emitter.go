package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously, in registration order,
// to handlers held in memory.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With("component", "state_events"),
	}
}

// RegisterHandler appends handler. Events already being dispatched are not
// delivered to it.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Copy on write so EmitEvent can iterate without holding the lock.
	next := make([]EventHandler, len(e.handlers), len(e.handlers)+1)
	copy(next, e.handlers)
	e.handlers = append(next, handler)
}

// HandlerCount returns the number of registered handlers.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// EmitEvent delivers event to every handler, even after one fails or panics,
// and returns the first failure.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *StateChangeEvent) error {
	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()

	e.logger.DebugContext(ctx, "state change",
		"event_id", event.ID,
		"request_id", event.RequestID,
		"from", event.From,
		"to", event.To,
		"error_kind", event.ErrorKind)

	var firstErr error
	for i, h := range handlers {
		if err := deliver(ctx, h, event); err != nil {
			e.logger.ErrorContext(ctx, "state change handler failed",
				"error", err,
				"handler_index", i,
				"request_id", event.RequestID,
				"to", event.To)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func deliver(ctx context.Context, h EventHandler, event *StateChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.HandleEvent(ctx, event)
}
