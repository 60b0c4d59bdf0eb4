// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API through the google.golang.org/genai client.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application core to Google's external Gemini service without
// exposing the details of that service to the rest of the application.
//
// Each Generate call issues exactly one GenerateContent request. The text of the
// first candidate is returned verbatim; thought parts are skipped. Provider
// failures are translated into the sentinels defined by the generation package:
//
//   - a missing or rejected API key becomes generation.ErrInvalidConfig
//   - safety blocks become generation.ErrContentBlocked
//   - responses without usable text become generation.ErrInvalidResponse
//   - everything else becomes generation.ErrGenerationFailed
package gemini
