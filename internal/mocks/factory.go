package mocks

import (
	"context"
	"sync"

	"github.com/dumblesdoor/socialkit/internal/generation"
)

// MockFactory builds a generation.Factory with scripted failures.
type MockFactory struct {
	mu sync.Mutex

	// Generator is returned once Errs is exhausted.
	Generator generation.Generator

	// Errs are returned, in order, by the first len(Errs) calls.
	Errs []error

	// Calls counts factory invocations.
	Calls int
}

// Factory returns the generation.Factory backed by m.
func (m *MockFactory) Factory() generation.Factory {
	return func(context.Context) (generation.Generator, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.Calls++
		if len(m.Errs) > 0 {
			err := m.Errs[0]
			m.Errs = m.Errs[1:]
			return nil, err
		}
		return m.Generator, nil
	}
}

// CallCount returns the number of factory invocations.
func (m *MockFactory) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
