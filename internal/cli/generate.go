package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dumblesdoor/socialkit/internal/controller"
	"github.com/dumblesdoor/socialkit/internal/events"
	"github.com/dumblesdoor/socialkit/internal/platform/llm"
	"github.com/dumblesdoor/socialkit/internal/render"
)

// Output formats for generate.
const (
	FormatTerminal = "terminal"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

func newGenerateCmd(ask askFunc) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Generate a 7-day social media plan for a business",
		Long: `Generate a 7-day social media plan for a business.
- Pass the description as arguments, e.g. socialkit generate "A specialty coffee shop in Kolkata".
- Call without arguments to be prompted for it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case FormatTerminal, FormatMarkdown, FormatHTML:
			default:
				return fmt.Errorf("invalid --format %q: use %s, %s or %s", format, FormatTerminal, FormatMarkdown, FormatHTML)
			}

			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			desc, err := descriptionFrom(args, ask, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			snap, err := generate(cmd, a, desc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case FormatMarkdown:
				fmt.Fprintln(out, strings.TrimRight(snap.Markdown, "\n"))
			case FormatHTML:
				fmt.Fprintln(out, string(snap.HTML))
			default:
				term := render.NewTerminal(a.cfg.Render.TerminalStyle, a.cfg.Render.WordWrap, a.logger)
				fmt.Fprint(out, term.Render(snap.Markdown))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTerminal, "output format: terminal, markdown or html")

	return cmd
}

// generate runs one submission through a controller and waits for it to
// settle. Progress goes to stderr.
func generate(cmd *cobra.Command, a *app, description string) (controller.Snapshot, error) {
	status := cmd.ErrOrStderr()

	emitter := events.NewInMemoryEventEmitter(a.logger)
	emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.StateChangeEvent) error {
		if e.To == controller.StateLoading.String() {
			printInfo(status, controller.MessageLoading)
		}
		return nil
	}))

	ctrl, err := controller.New(controller.Options{
		Factory:     a.factory,
		Prompt:      a.prompt,
		Renderer:    render.NewDefault(a.logger.With("component", "render")),
		Emitter:     emitter,
		Logger:      a.logger,
		Timeout:     a.cfg.LLM.RequestTimeout(),
		ConfigHint:  llm.ConfigHint(a.cfg.LLM.Provider),
		BaseContext: cmd.Context(),
	})
	if err != nil {
		return controller.Snapshot{}, err
	}
	defer ctrl.Close()

	if err := ctrl.Submit(description); err != nil {
		if errors.Is(err, controller.ErrValidation) {
			return controller.Snapshot{}, errors.New(controller.MessageValidation)
		}
		return controller.Snapshot{}, err
	}

	snap, err := ctrl.Wait(cmd.Context())
	if err != nil {
		return controller.Snapshot{}, errCancelled
	}

	if snap.State != controller.StateSuccess {
		return snap, errors.New(snap.Message)
	}

	printSuccess(status, "✔ Plan ready in %s", snap.Elapsed().Round(100*time.Millisecond))
	return snap, nil
}
