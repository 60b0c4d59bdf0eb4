package render

import (
	"log/slog"

	"github.com/charmbracelet/glamour"
)

// Terminal renders Markdown for display in a terminal.
type Terminal struct {
	style    string
	wordWrap int
	logger   *slog.Logger
}

// NewTerminal creates a Terminal using a glamour standard style such as
// "dracula", "dark", "light" or "notty".
func NewTerminal(style string, wordWrap int, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{style: style, wordWrap: wordWrap, logger: logger}
}

// Render returns the styled output, or markdown unchanged when glamour
// cannot render it.
func (t *Terminal) Render(markdown string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(t.style),
		glamour.WithWordWrap(t.wordWrap),
	)
	if err != nil {
		t.logger.Warn("failed to create terminal renderer", "style", t.style, "error", err)
		return markdown
	}

	out, err := r.Render(markdown)
	if err != nil {
		t.logger.Warn("failed to render markdown", "error", err)
		return markdown
	}

	return out
}
