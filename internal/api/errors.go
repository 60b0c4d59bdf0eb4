package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dumblesdoor/socialkit/internal/controller"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps controller errors to HTTP status codes. Unknown
// errors map to 500 so internal error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, controller.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, controller.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, controller.ErrValidation):
		return controller.MessageValidation
	case errors.Is(err, controller.ErrBusy):
		return "A plan is already being generated. Please wait for it to finish."
	case errors.Is(err, controller.ErrClosed):
		return "The service is shutting down. Please try again shortly."
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message naming
// the first offending field, without exposing struct names.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Invalid %s: required field", fe.Field())
	case "max":
		return fmt.Sprintf("Invalid %s: too long", fe.Field())
	case "min":
		return fmt.Sprintf("Invalid %s: too short", fe.Field())
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}
