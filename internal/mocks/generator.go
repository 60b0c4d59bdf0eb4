package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dumblesdoor/socialkit/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Text string
	Err  error

	// Gate, when non-nil, holds every call until a value is received or the
	// channel is closed. Cancellation of the call's context releases it early
	// with the context error.
	Gate chan struct{}

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Prompts contains all prompts passed to Generate calls
		Prompts []string

		// InFlight is the number of calls currently running
		InFlight int

		// MaxInFlight is the highest InFlight value observed
		MaxInFlight int
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Prompts = append(m.GenerateCalls.Prompts, prompt)
	m.GenerateCalls.InFlight++
	if m.GenerateCalls.InFlight > m.GenerateCalls.MaxInFlight {
		m.GenerateCalls.MaxInFlight = m.GenerateCalls.InFlight
	}
	m.GenerateCalls.mu.Unlock()

	defer func() {
		m.GenerateCalls.mu.Lock()
		m.GenerateCalls.InFlight--
		m.GenerateCalls.mu.Unlock()
	}()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	// Use custom function if provided
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}

	// Return default values
	return m.Text, m.Err
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// MaxInFlight returns the highest number of concurrent Generate calls observed.
func (m *MockGenerator) MaxInFlight() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.MaxInFlight
}

// LastPrompt returns the prompt of the most recent call, or "".
func (m *MockGenerator) LastPrompt() string {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	if len(m.GenerateCalls.Prompts) == 0 {
		return ""
	}
	return m.GenerateCalls.Prompts[len(m.GenerateCalls.Prompts)-1]
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.Prompts = nil
	m.GenerateCalls.InFlight = 0
	m.GenerateCalls.MaxInFlight = 0
}

// NewMockGeneratorWithText creates a MockGenerator that returns text
func NewMockGeneratorWithText(text string) *MockGenerator {
	return &MockGenerator{Text: text}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewBlockingMockGenerator creates a MockGenerator that returns text once its
// Gate is released.
func NewBlockingMockGenerator(text string) *MockGenerator {
	return &MockGenerator{Text: text, Gate: make(chan struct{})}
}

// MockGeneratorThatFails creates a MockGenerator that simulates a generation failure
func MockGeneratorThatFails() *MockGenerator {
	return &MockGenerator{Err: generation.ErrGenerationFailed}
}

// MockGeneratorWithContentBlocked creates a MockGenerator that simulates content being blocked
func MockGeneratorWithContentBlocked() *MockGenerator {
	return &MockGenerator{Err: generation.ErrContentBlocked}
}

// SamplePlan returns a plan in the shape the prompt asks for, with days
// headed by level-3 headings.
func SamplePlan(days int) string {
	var sb strings.Builder
	for d := 1; d <= days; d++ {
		fmt.Fprintf(&sb, "### Day %d: Theme %d\n\n", d, d)
		sb.WriteString("* **Platform:** Instagram\n")
		sb.WriteString("* **Post Type:** Video Reel\n")
		fmt.Fprintf(&sb, "* **Content Idea:** Behind the counter, day %d.\n", d)
		sb.WriteString("* **Caption:** Come say hi! Visit us today.\n")
		sb.WriteString("* **Hashtags:** #coffee #kolkata #smallbusiness #cafe #localeats\n\n")
	}
	return sb.String()
}
