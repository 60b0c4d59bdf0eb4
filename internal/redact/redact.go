// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Provider SDK errors can echo request URLs, headers and
// keys; this package keeps credentials out of the structured logs while leaving the
// rest of the diagnostic detail intact.
package redact

import (
	"regexp"
	"sync"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled regex patterns, applied in order
var (
	// Google API keys (Gemini, AI Studio)
	googleKeyRegex = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`)

	// OpenAI style secret keys, including project keys (sk-proj-...)
	openAIKeyRegex = regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`)

	// Authorization header values
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`)

	// Keys passed as query parameters; the parameter name is kept
	urlKeyParamRegex = regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|access_token)=)[^&\s"']+`)

	// Generic key/secret assignments
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|access[_-]?key|authorization)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// JWT token pattern - matches the standard three-part base64url-encoded JWT token format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	patterns = []*regexp.Regexp{
		googleKeyRegex, openAIKeyRegex, bearerRegex, urlKeyParamRegex,
		apiKeyRegex, jwtTokenRegex, emailRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		googleKeyRegex:   RedactedKeyPlaceholder,
		openAIKeyRegex:   RedactedKeyPlaceholder,
		bearerRegex:      RedactedCredentialPlaceholder,
		urlKeyParamRegex: "${1}" + RedactedKeyPlaceholder,
		apiKeyRegex:      RedactedKeyPlaceholder,
		jwtTokenRegex:    "[REDACTED_JWT]",
		emailRegex:       RedactedEmailPlaceholder,
	}

	mu sync.RWMutex
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	mu.RLock()
	defer mu.RUnlock()

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Secret reports a configured credential without revealing it: empty input
// yields "", anything else the fixed placeholder.
func Secret(value string) string {
	if value == "" {
		return ""
	}
	return RedactedCredentialPlaceholder
}
