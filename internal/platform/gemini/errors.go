package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dumblesdoor/socialkit/internal/generation"
	"google.golang.org/genai"
)

// mapError translates an error returned by the genai client into the
// generation error taxonomy. The original error stays in the chain.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && isCredentialRejection(apiErr) {
		return fmt.Errorf("%w: gemini rejected the API key (HTTP %d): %w",
			generation.ErrInvalidConfig, apiErr.Code, err)
	}

	return fmt.Errorf("%w: gemini: %w", generation.ErrGenerationFailed, err)
}

func isCredentialRejection(apiErr genai.APIError) bool {
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}

	status := strings.ToUpper(apiErr.Status)
	if strings.Contains(status, "PERMISSION_DENIED") || strings.Contains(status, "UNAUTHENTICATED") {
		return true
	}

	// An invalid key is reported as a 400 with a dedicated reason.
	return apiErr.Code == http.StatusBadRequest &&
		(strings.Contains(apiErr.Message, "API_KEY_INVALID") || strings.Contains(apiErr.Message, "API key not valid"))
}
