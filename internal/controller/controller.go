package controller

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dumblesdoor/socialkit/internal/events"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/prompt"
	"github.com/dumblesdoor/socialkit/internal/redact"
	"github.com/dumblesdoor/socialkit/internal/render"
	"github.com/google/uuid"
)

var (
	// ErrBusy is returned by Submit while a request is in flight.
	ErrBusy = errors.New("a plan is already being generated")

	// ErrValidation is returned by Submit for a blank description.
	ErrValidation = errors.New("business description is required")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("controller is closed")
)

// PromptBuilder assembles the prompt for a business description.
type PromptBuilder interface {
	Build(description string) (string, error)
}

// Renderer converts generated Markdown into displayable HTML.
type Renderer interface {
	Render(ctx context.Context, markdown string) template.HTML
}

// Options configures a Controller. Only Factory is required.
type Options struct {
	// Factory builds the generator on first use. A failure is reported as a
	// configuration error and retried on the next submission.
	Factory generation.Factory

	Prompt   PromptBuilder
	Renderer Renderer
	Emitter  events.EventEmitter
	Logger   *slog.Logger

	// Timeout bounds one generation call. Zero waits indefinitely.
	Timeout time.Duration

	// ConfigHint is appended to the configuration error message and should
	// name the setting the user has to provide.
	ConfigHint string

	// BaseContext is the parent of every request context. Requests outlive
	// the caller of Submit; they end when BaseContext is done or on Close.
	BaseContext context.Context
}

// Controller sequences validation, generator initialization, prompt
// assembly, generation and rendering for one interactive session.
type Controller struct {
	factory  generation.Factory
	prompt   PromptBuilder
	renderer Renderer
	emitter  events.EventEmitter
	logger   *slog.Logger
	timeout  time.Duration
	hint     string

	baseCtx    context.Context
	cancelBase context.CancelFunc
	wg         sync.WaitGroup

	mu        sync.Mutex
	snap      Snapshot
	generator generation.Generator
	done      chan struct{}
	closed    bool
}

// New creates a Controller in StateIdle.
func New(opts Options) (*Controller, error) {
	if opts.Factory == nil {
		return nil, errors.New("generator factory cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "controller")

	c := &Controller{
		factory:  opts.Factory,
		prompt:   opts.Prompt,
		renderer: opts.Renderer,
		emitter:  opts.Emitter,
		logger:   logger,
		timeout:  opts.Timeout,
		hint:     opts.ConfigHint,
	}

	if c.prompt == nil {
		c.prompt = prompt.Default()
	}
	if c.renderer == nil {
		c.renderer = render.NewDefault(logger)
	}
	if c.emitter == nil {
		c.emitter = events.NopEmitter{}
	}
	if c.hint == "" {
		c.hint = defaultConfigHint
	}

	base := opts.BaseContext
	if base == nil {
		base = context.Background()
	}
	c.baseCtx, c.cancelBase = context.WithCancel(base)

	return c, nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Submit starts generating a plan for description and returns immediately.
//
// A blank description moves the Controller to StateIdle with a validation
// message and returns ErrValidation. While a request is in flight Submit does
// nothing and returns ErrBusy.
func (c *Controller) Submit(description string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.snap.State == StateLoading {
		c.mu.Unlock()
		return ErrBusy
	}

	from := c.snap.State

	if strings.TrimSpace(description) == "" {
		c.snap = Snapshot{
			State:       StateIdle,
			Description: description,
			ErrorKind:   ErrorKindValidation,
			Message:     MessageValidation,
		}
		c.mu.Unlock()

		c.logger.Debug("rejected blank description")
		event := events.NewStateChangeEvent("", from.String(), StateIdle.String())
		event.ErrorKind = string(ErrorKindValidation)
		c.emit(event)
		return ErrValidation
	}

	requestID := uuid.NewString()
	started := time.Now()
	done := make(chan struct{})

	c.snap = Snapshot{
		State:       StateLoading,
		Description: description,
		RequestID:   requestID,
		StartedAt:   started,
	}
	c.done = done
	c.wg.Add(1)

	ctx, cancel := c.requestContext()
	c.mu.Unlock()

	c.logger.Info("plan generation started",
		"request_id", requestID,
		"description_length", len(description))
	c.emit(events.NewStateChangeEvent(requestID, from.String(), StateLoading.String()))

	go c.run(ctx, cancel, requestID, description, started, done)

	return nil
}

// Wait blocks until no request is in flight or ctx is done, and returns the
// state at that point.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	done := c.done
	snap := c.snap
	c.mu.Unlock()

	if done == nil {
		return snap, nil
	}

	select {
	case <-done:
		return c.Snapshot(), nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Close cancels the in-flight request, waits for it to settle and rejects
// further submissions. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancelBase()
	c.wg.Wait()
}

func (c *Controller) requestContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(c.baseCtx, c.timeout)
	}
	return context.WithCancel(c.baseCtx)
}

func (c *Controller) run(
	ctx context.Context,
	cancel context.CancelFunc,
	requestID, description string,
	started time.Time,
	done chan struct{},
) {
	defer c.wg.Done()
	defer cancel()

	log := c.logger.With("request_id", requestID)

	markdown, err := c.generate(ctx, description)

	var html template.HTML
	if err == nil {
		html = c.renderer.Render(ctx, markdown)
	}

	settled := time.Now()
	next := Snapshot{
		Description: description,
		RequestID:   requestID,
		StartedAt:   started,
		SettledAt:   settled,
	}

	if err != nil {
		next.State = StateError
		next.ErrorKind, next.Message = c.classify(err)
		log.Error("plan generation failed",
			"error", redact.Error(err),
			"error_kind", next.ErrorKind,
			"duration_ms", settled.Sub(started).Milliseconds())
	} else {
		next.State = StateSuccess
		next.Markdown = markdown
		next.HTML = html
		log.Info("plan generation succeeded",
			"markdown_length", len(markdown),
			"duration_ms", settled.Sub(started).Milliseconds())
	}

	// Handlers see the settle event before the new state is published, so
	// events for consecutive requests never interleave.
	event := events.NewStateChangeEvent(requestID, StateLoading.String(), next.State.String())
	event.ErrorKind = string(next.ErrorKind)
	event.Elapsed = settled.Sub(started)
	c.emit(event)

	c.mu.Lock()
	c.snap = next
	c.done = nil
	close(done)
	c.mu.Unlock()
}

// generate performs the fallible steps of one request.
func (c *Controller) generate(ctx context.Context, description string) (string, error) {
	gen, err := c.generatorFor(ctx)
	if err != nil {
		return "", err
	}

	p, err := c.prompt.Build(description)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrInvalidConfig, err)
	}

	text, err := gen.Generate(ctx, p)
	if err != nil {
		if generation.IsConfigError(err) {
			// A rejected credential means the client was built from bad
			// configuration. Drop it so the next submission rebuilds.
			c.mu.Lock()
			if c.generator == gen {
				c.generator = nil
			}
			c.mu.Unlock()
		}
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty plan", generation.ErrInvalidResponse)
	}

	return text, nil
}

// generatorFor returns the cached generator, building it on first success.
func (c *Controller) generatorFor(ctx context.Context) (generation.Generator, error) {
	c.mu.Lock()
	gen := c.generator
	c.mu.Unlock()
	if gen != nil {
		return gen, nil
	}

	gen, err := c.factory(ctx)
	if err != nil {
		if !generation.IsConfigError(err) {
			err = fmt.Errorf("%w: %w", generation.ErrInvalidConfig, err)
		}
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("%w: factory returned no generator", generation.ErrInvalidConfig)
	}

	c.mu.Lock()
	c.generator = gen
	c.mu.Unlock()

	return gen, nil
}

func (c *Controller) classify(err error) (ErrorKind, string) {
	if generation.IsConfigError(err) {
		return ErrorKindConfiguration, messageConfigurationPrefix + c.hint
	}
	return ErrorKindService, MessageService
}

func (c *Controller) emit(event *events.StateChangeEvent) {
	if err := c.emitter.EmitEvent(context.Background(), event); err != nil {
		c.logger.Warn("state change handler failed",
			"error", err,
			"from", event.From,
			"to", event.To)
	}
}
