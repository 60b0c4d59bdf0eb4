package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/platform/logger"
	"github.com/dumblesdoor/socialkit/internal/platform/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, seen *[]chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && seen != nil {
			*seen = append(*seen, req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func completion(content, finish string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
	})
	return string(b)
}

func newGenerator(t *testing.T, url string) *openai.OpenAIGenerator {
	t.Helper()

	g, err := openai.NewOpenAIGenerator(logger.Discard(), config.LLMConfig{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: url + "/v1/",
	})
	require.NoError(t, err)
	return g
}

func TestNewOpenAIGenerator(t *testing.T) {
	t.Parallel()

	_, err := openai.NewOpenAIGenerator(nil, config.LLMConfig{OpenAIAPIKey: "k"})
	require.Error(t, err)

	_, err = openai.NewOpenAIGenerator(logger.Discard(), config.LLMConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrMissingCredential)

	g, err := openai.NewOpenAIGenerator(logger.Discard(), config.LLMConfig{OpenAIAPIKey: "k", ModelName: "gpt-4.1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", g.Model())
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	var seen []chatRequest
	srv := newServer(t, http.StatusOK, completion("**Day 1: Hello**", "stop"), &seen)
	g := newGenerator(t, srv.URL)

	text, err := g.Generate(context.Background(), "plan for a bakery")
	require.NoError(t, err)
	assert.Equal(t, "**Day 1: Hello**", text)

	require.Len(t, seen, 1, "exactly one outbound call")
	assert.Equal(t, openai.DefaultModel, seen[0].Model)
	require.Len(t, seen[0].Messages, 1)
	assert.Equal(t, "user", seen[0].Messages[0].Role)
	assert.Equal(t, "plan for a bakery", seen[0].Messages[0].Content)
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "invalid_key",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantErr: generation.ErrInvalidConfig,
		},
		{
			name:    "server_error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"message":"The server had an error","type":"server_error"}}`,
			wantErr: generation.ErrGenerationFailed,
		},
		{
			name:    "rate_limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"Rate limit reached","type":"requests"}}`,
			wantErr: generation.ErrGenerationFailed,
		},
		{
			name:    "no_choices",
			status:  http.StatusOK,
			body:    `{"id":"x","object":"chat.completion","choices":[]}`,
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "empty_content",
			status:  http.StatusOK,
			body:    completion("   ", "stop"),
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "content_filter",
			status:  http.StatusOK,
			body:    completion("", "content_filter"),
			wantErr: generation.ErrContentBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []chatRequest
			srv := newServer(t, tt.status, tt.body, &seen)
			g := newGenerator(t, srv.URL)

			text, err := g.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, text)
			assert.Len(t, seen, 1)
		})
	}
}

func TestGenerateUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := newGenerator(t, url)
	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	assert.False(t, generation.IsConfigError(err))
}
