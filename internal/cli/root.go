package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dumblesdoor/socialkit/internal/config"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/platform/llm"
	"github.com/dumblesdoor/socialkit/internal/platform/logger"
	"github.com/dumblesdoor/socialkit/internal/prompt"
)

type ctxKey string

const appKey ctxKey = "app"

// app holds what every subcommand needs after configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	prompt  *prompt.Template
	factory generation.Factory
}

// factoryFunc builds the generator factory for a loaded configuration.
type factoryFunc func(cfg *config.Config, logger *slog.Logger) generation.Factory

// askFunc reads a business description interactively.
type askFunc func(in io.Reader, out io.Writer) (string, error)

type deps struct {
	factory factoryFunc
	ask     askFunc
}

func defaultDeps() deps {
	return deps{
		factory: func(cfg *config.Config, logger *slog.Logger) generation.Factory {
			return llm.StaticFactory(logger.With("component", "llm"), cfg.LLM)
		},
		ask: askDescription,
	}
}

// Execute builds the root command and runs it with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	var (
		cfgPath string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "socialkit",
		Short:         "The One-Click Social Media Kit: a 7-day social media plan for your business",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			cfg, err := config.LoadWith(v)
			if err != nil {
				return err
			}

			// Logs go to stderr so command output stays pipeable.
			logCfg := cfg.Server
			if verbose {
				logCfg.LogLevel = "debug"
			} else {
				logCfg.LogLevel = "error"
			}
			l, err := logger.SetupWithWriter(logCfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			tmpl, err := prompt.Load(cfg.LLM.PromptTemplatePath)
			if err != nil {
				return fmt.Errorf("failed to load prompt template: %w", err)
			}

			a := &app{
				cfg:     cfg,
				logger:  l,
				prompt:  tmpl,
				factory: d.factory(cfg, l),
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(newGenerateCmd(d.ask))
	cmd.AddCommand(newPromptCmd(d.ask))
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey).(*app)
	if !ok || a == nil {
		return nil, fmt.Errorf("internal error: app not initialized")
	}
	return a, nil
}
