// Package render turns generated Markdown into displayable output.
//
// Renderer produces sanitized HTML for the web page. Model output is treated as
// untrusted: whatever the converter emits passes through a bluemonday policy,
// and a converter failure degrades to escaped text with line breaks instead of
// an error. Terminal produces styled ANSI output for the CLI.
package render
