package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by generators and generator factories
var (
	// ErrInvalidConfig is returned when the generator configuration is invalid,
	// including a credential the provider refuses to accept.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrMissingCredential is returned when no API key is configured for the selected provider.
	ErrMissingCredential = fmt.Errorf("%w: API key not configured", ErrInvalidConfig)

	// ErrGenerationFailed is returned when the outbound call cannot complete
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the LLM response is malformed or carries no text
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)

// IsConfigError reports whether err belongs to the configuration category.
// Every other generator failure is a service failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
