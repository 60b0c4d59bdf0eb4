package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/redact"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Show every configuration key with its effective value. API keys are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			values := effectiveValues(a.cfg)
			out := cmd.OutOrStdout()
			for _, o := range config.Options() {
				_, _ = keyColor.Fprint(out, o.Key)
				fmt.Fprintf(out, " = %v", values[o.Key])
				_, _ = faintColor.Fprintf(out, "  # %s (env %s_%s)\n",
					o.Comment, config.EnvPrefix, strings.ToUpper(strings.ReplaceAll(o.Key, ".", "_")))
			}
			return nil
		},
	}
}

func effectiveValues(cfg *config.Config) map[string]any {
	return map[string]any{
		"server.port":                     cfg.Server.Port,
		"server.log_level":                cfg.Server.LogLevel,
		"server.shutdown_timeout_seconds": cfg.Server.ShutdownTimeoutSeconds,
		"llm.provider":                    cfg.LLM.Provider,
		"llm.model_name":                  cfg.LLM.ModelName,
		"llm.gemini_api_key":              redact.Secret(cfg.LLM.GeminiAPIKey),
		"llm.openai_api_key":              redact.Secret(cfg.LLM.OpenAIAPIKey),
		"llm.openai_base_url":             cfg.LLM.OpenAIBaseURL,
		"llm.temperature":                 cfg.LLM.Temperature,
		"llm.request_timeout_seconds":     cfg.LLM.RequestTimeoutSeconds,
		"llm.prompt_template_path":        cfg.LLM.PromptTemplatePath,
		"render.terminal_style":           cfg.Render.TerminalStyle,
		"render.word_wrap":                cfg.Render.WordWrap,
	}
}
