package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dumblesdoor/socialkit/internal/api"
	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/controller"
	"github.com/dumblesdoor/socialkit/internal/events"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/metrics"
	"github.com/dumblesdoor/socialkit/internal/platform/llm"
	"github.com/dumblesdoor/socialkit/internal/prompt"
	"github.com/dumblesdoor/socialkit/internal/render"
)

// waitGrace is added to the generation timeout to bound long-polling reads.
const waitGrace = 30 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	eventEmitter *events.InMemoryEventEmitter
	controller   *controller.Controller
	planHandler  *api.PlanHandler
}

// newApplication creates a new application instance with all dependencies initialized.
// The generator itself is built lazily by factory on the first submission.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	factory generation.Factory,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	tmpl, err := prompt.Load(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}
	if cfg.LLM.PromptTemplatePath != "" {
		logger.Info("Custom prompt template loaded", "path", cfg.LLM.PromptTemplatePath)
	}

	metrics.Register()

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(metrics.Recorder{})
	app.eventEmitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, e *events.StateChangeEvent) error {
		logger.DebugContext(ctx, "state changed",
			"request_id", e.RequestID,
			"from", e.From,
			"to", e.To,
			"error_kind", e.ErrorKind,
			"elapsed_ms", e.Elapsed.Milliseconds())
		return nil
	}))

	app.controller, err = controller.New(controller.Options{
		Factory:     factory,
		Prompt:      tmpl,
		Renderer:    render.NewDefault(logger.With("component", "render")),
		Emitter:     app.eventEmitter,
		Logger:      logger,
		Timeout:     cfg.LLM.RequestTimeout(),
		ConfigHint:  llm.ConfigHint(cfg.LLM.Provider),
		BaseContext: context.WithoutCancel(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize controller: %w", err)
	}
	logger.Info("Controller initialized",
		"provider", llm.ProviderName(cfg.LLM.Provider),
		"request_timeout", cfg.LLM.RequestTimeout())

	app.planHandler = api.NewPlanHandler(app.controller, logger)
	if timeout := cfg.LLM.RequestTimeout(); timeout > 0 {
		app.planHandler.WithWaitTimeout(timeout + waitGrace)
	}

	return app, nil
}

// cleanup cancels any in-flight generation and waits for it to settle.
func (app *application) cleanup() {
	if app.controller != nil {
		app.controller.Close()
	}
}
