package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/dumblesdoor/socialkit/internal/generation"
)

//go:embed prompt.tmpl
var defaultTemplateSource string

const templateName = "social-media-plan"

// slotProbe is substituted into a candidate template to verify it carries
// exactly one description slot.
const slotProbe = "\x00business-description\x00"

// Data holds the variables available in the prompt template.
type Data struct {
	BusinessDescription string
}

// Template is a parsed prompt template with a single description slot.
// It is safe for concurrent use.
type Template struct {
	tmpl *template.Template
}

var defaultTemplate = mustParse(defaultTemplateSource)

func mustParse(src string) *Template {
	t, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the embedded social media plan template.
func Default() *Template {
	return defaultTemplate
}

// Parse builds a Template from src. The template must render its
// BusinessDescription exactly once.
func Parse(src string) (*Template, error) {
	tmpl, err := template.New(templateName).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", generation.ErrInvalidConfig, err)
	}

	t := &Template{tmpl: tmpl}
	probe, err := t.execute(slotProbe)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute prompt template: %v", generation.ErrInvalidConfig, err)
	}
	if n := strings.Count(probe, slotProbe); n != 1 {
		return nil, fmt.Errorf("%w: prompt template must contain exactly one {{.BusinessDescription}} slot, found %d",
			generation.ErrInvalidConfig, n)
	}

	return t, nil
}

// Load returns the embedded template when path is empty, otherwise the
// template read from path.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			generation.ErrInvalidConfig, path, err)
	}

	return Parse(string(content))
}

// Build substitutes description into the template. The description is
// inserted verbatim; template syntax inside it is not evaluated.
func (t *Template) Build(description string) (string, error) {
	out, err := t.execute(description)
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return out, nil
}

func (t *Template) execute(description string) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, Data{BusinessDescription: description}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Build renders the embedded template for description.
func Build(description string) (string, error) {
	return defaultTemplate.Build(description)
}
