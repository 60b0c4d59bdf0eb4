package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
	Render RenderConfig `mapstructure:"render" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// LLMConfig contains all LLM integration related settings.
//
// API keys are deliberately optional here: a missing key is reported by the
// generator factory at first use as a configuration error.
type LLMConfig struct {
	Provider              string  `mapstructure:"provider"                validate:"required,oneof=gemini google openai gpt"`
	ModelName             string  `mapstructure:"model_name"`
	GeminiAPIKey          string  `mapstructure:"gemini_api_key"`
	OpenAIAPIKey          string  `mapstructure:"openai_api_key"`
	OpenAIBaseURL         string  `mapstructure:"openai_base_url"         validate:"omitempty,url"`
	Temperature           float32 `mapstructure:"temperature"             validate:"gte=0,lte=2"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"gte=0"`
	PromptTemplatePath    string  `mapstructure:"prompt_template_path"`
}

// RequestTimeout returns the per-request timeout. Zero means no timeout.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RenderConfig contains settings for terminal rendering in the CLI.
type RenderConfig struct {
	TerminalStyle string `mapstructure:"terminal_style" validate:"required"`
	WordWrap      int    `mapstructure:"word_wrap"      validate:"gte=0"`
}
