package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables read by Load.
const EnvPrefix = "SOCIALKIT"

// Option describes a configuration key, its default value and meaning.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns the configuration keys understood by Load with their defaults.
func Options() []Option {
	return []Option{
		{Key: "server.port", Default: 8080, Comment: "HTTP listen port"},
		{Key: "server.log_level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "server.shutdown_timeout_seconds", Default: 10, Comment: "Grace period for in-flight HTTP requests on shutdown"},
		{Key: "llm.provider", Default: "gemini", Comment: "Text-generation provider: gemini or openai"},
		{Key: "llm.model_name", Default: "", Comment: "Model identifier; empty selects the provider default"},
		{Key: "llm.gemini_api_key", Default: "", Comment: "Gemini API key (also GEMINI_API_KEY or API_KEY)"},
		{Key: "llm.openai_api_key", Default: "", Comment: "OpenAI API key (also OPENAI_API_KEY)"},
		{Key: "llm.openai_base_url", Default: "", Comment: "Override for OpenAI-compatible endpoints"},
		{Key: "llm.temperature", Default: 0.9, Comment: "Sampling temperature"},
		{Key: "llm.request_timeout_seconds", Default: 60, Comment: "Upper bound for one generation call; 0 waits indefinitely"},
		{Key: "llm.prompt_template_path", Default: "", Comment: "Custom prompt template file; empty uses the built-in template"},
		{Key: "render.terminal_style", Default: "dracula", Comment: "glamour style used by the CLI"},
		{Key: "render.word_wrap", Default: 80, Comment: "CLI word wrap column"},
	}
}

// envAliases lists conventional variable names accepted next to the prefixed ones.
var envAliases = map[string][]string{
	"llm.gemini_api_key": {"GEMINI_API_KEY", "API_KEY"},
	"llm.openai_api_key": {"OPENAI_API_KEY"},
}

var validate = validator.New()

// Load reads configuration with precedence
// defaults < config file < .env file < environment.
// The .env file in the working directory is re-read on every call and never
// copied into the process environment, so edits to it take effect on the
// next Load.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith behaves like Load but uses the supplied viper instance, which lets
// callers point it at an explicit file with SetConfigFile.
func LoadWith(v *viper.Viper) (*Config, error) {
	dotenv, err := readDotEnv()
	if err != nil {
		return nil, err
	}

	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "socialkit"))
		} else if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "socialkit"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, val := range dotenv {
		v.Set(key, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key := range envAliases {
		if err := v.BindEnv(append([]string{key}, envVarsFor(key)...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envVarsFor returns the environment variable names for key in lookup order.
func envVarsFor(key string) []string {
	names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	return append(names, envAliases[key]...)
}

// readDotEnv maps .env entries onto configuration keys. Keys that already
// have a non-empty environment variable are skipped so the real environment
// keeps the last word.
func readDotEnv() (map[string]string, error) {
	vals, err := godotenv.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	out := make(map[string]string)
	for _, o := range Options() {
		names := envVarsFor(o.Key)
		if anyEnvSet(names) {
			continue
		}
		for _, name := range names {
			if val := vals[name]; val != "" {
				out[o.Key] = val
				break
			}
		}
	}
	return out, nil
}

func anyEnvSet(names []string) bool {
	for _, name := range names {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
