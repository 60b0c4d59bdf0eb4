package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/redact"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// OpenAIGenerator implements generation.Generator with a single-message chat
// completion.
type OpenAIGenerator struct {
	logger      *slog.Logger
	client      chatCompleter
	model       string
	temperature float32
}

var _ generation.Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates an OpenAIGenerator from the LLM configuration.
func NewOpenAIGenerator(logger *slog.Logger, cfg config.LLMConfig) (*OpenAIGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai", generation.ErrMissingCredential)
	}

	clientConfig := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIGenerator{
		logger:      logger.With("provider", "openai", "model", model),
		client:      goopenai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the model identifier requests are sent to.
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Generate sends prompt as one user message and returns the content of the
// first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "OpenAI API call failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		return "", mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: completion stopped by content filter", generation.ErrContentBlocked)
	}

	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: response contains no text", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "OpenAI API call successful",
		"response_length", len(choice.Message.Content),
		"duration_ms", time.Since(start).Milliseconds())

	return choice.Message.Content, nil
}

func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: openai rejected the API key (HTTP %d): %w",
				generation.ErrInvalidConfig, apiErr.HTTPStatusCode, err)
		}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: openai rejected the API key (HTTP %d): %w",
				generation.ErrInvalidConfig, reqErr.HTTPStatusCode, err)
		}
	}

	return fmt.Errorf("%w: openai: %w", generation.ErrGenerationFailed, err)
}
