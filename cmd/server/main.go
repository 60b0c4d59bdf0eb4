// Package main implements the entry point for the social media kit server,
// which serves the one-page plan generator and its JSON API.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/platform/llm"
)

// main is the entry point for the socialkit server.
// It loads configuration, sets up logging, wires the controller and starts the
// HTTP server.
func main() {
	fmt.Println("Social Media Kit Server Starting...")

	if err := run(context.Background()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run performs the core initialization and blocks until the server stops.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	factory := llm.NewFactory(logger.With("component", "llm"), reloadLLMConfig)

	app, err := newApplication(ctx, cfg, logger, factory)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

// reloadLLMConfig reads the LLM settings afresh so that a credential added to
// the environment or .env file after startup is used by the next submission.
func reloadLLMConfig() (config.LLMConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.LLMConfig{}, err
	}
	return cfg.LLM, nil
}

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"provider", llm.ProviderName(cfg.LLM.Provider))

	return cfg, nil
}
