// Package llm selects and builds the text-generation provider configured for
// the application.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/platform/gemini"
	"github.com/dumblesdoor/socialkit/internal/platform/openai"
)

// Supported providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderName maps a configured provider, including its aliases, to one of
// the supported providers. It returns "" for unknown names.
func ProviderName(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini", "google":
		return ProviderGemini
	case "openai", "gpt":
		return ProviderOpenAI
	default:
		return ""
	}
}

// NewGenerator builds the Generator for cfg.Provider. Credentials are checked
// before any client is created.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (generation.Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	switch ProviderName(cfg.Provider) {
	case ProviderGemini:
		g, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderOpenAI:
		g, err := openai.NewOpenAIGenerator(logger, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// NewFactory returns a generation.Factory that loads the LLM configuration on
// every attempt, so a credential added after startup is picked up by the next
// request.
func NewFactory(logger *slog.Logger, load func() (config.LLMConfig, error)) generation.Factory {
	return func(ctx context.Context) (generation.Generator, error) {
		cfg, err := load()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
		}

		g, err := NewGenerator(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}

		logger.InfoContext(ctx, "Generator initialized", "provider", ProviderName(cfg.Provider))
		return g, nil
	}
}

// StaticFactory returns a Factory for a fixed configuration.
func StaticFactory(logger *slog.Logger, cfg config.LLMConfig) generation.Factory {
	return NewFactory(logger, func() (config.LLMConfig, error) { return cfg, nil })
}

// ConfigHint names the setting a user has to provide for provider's credential.
func ConfigHint(provider string) string {
	switch ProviderName(provider) {
	case ProviderOpenAI:
		return "Please set OPENAI_API_KEY (or SOCIALKIT_LLM_OPENAI_API_KEY) in your environment or .env file."
	default:
		return "Please set GEMINI_API_KEY (or SOCIALKIT_LLM_GEMINI_API_KEY) in your environment or .env file."
	}
}
