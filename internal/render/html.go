package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Converter converts Markdown source to HTML. goldmark.Markdown satisfies it.
type Converter interface {
	Convert(source []byte, w io.Writer, opts ...parser.ParseOption) error
}

// Renderer converts Markdown into sanitized HTML.
type Renderer struct {
	converter Converter
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

// New creates a Renderer. A nil converter selects the plain-text fallback for
// every call; a nil policy selects DefaultPolicy.
func New(converter Converter, policy *bluemonday.Policy, logger *slog.Logger) *Renderer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{
		converter: converter,
		policy:    policy,
		logger:    logger,
	}
}

// NewDefault creates a Renderer backed by goldmark and DefaultPolicy.
func NewDefault(logger *slog.Logger) *Renderer {
	return New(NewConverter(), DefaultPolicy(), logger)
}

// NewConverter returns a goldmark instance with GitHub Flavored Markdown and
// emoji shortcodes enabled. Raw HTML in the source is omitted.
func NewConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, emoji.Emoji),
	)
}

// DefaultPolicy is the bluemonday UGC policy with rel="nofollow" on links.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	return p
}

// Render converts markdown to HTML. It never fails: conversion errors fall
// back to Fallback, and the result is always sanitized.
func (r *Renderer) Render(ctx context.Context, markdown string) template.HTML {
	out, err := r.convert(markdown)
	if err != nil {
		r.logger.WarnContext(ctx, "Markdown conversion failed, using plain text fallback",
			"error", err,
			"markdown_length", len(markdown))
		out = Fallback(markdown)
	}

	// #nosec G203 -- sanitized by the bluemonday policy
	return template.HTML(r.policy.Sanitize(out))
}

func (r *Renderer) convert(markdown string) (out string, err error) {
	if r.converter == nil {
		return "", fmt.Errorf("markdown converter unavailable")
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("markdown converter panicked: %v", p)
		}
	}()

	var buf bytes.Buffer
	if err := r.converter.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fallback renders text as a single escaped paragraph with line breaks.
func Fallback(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	escaped := html.EscapeString(text)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}
