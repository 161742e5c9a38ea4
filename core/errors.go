package core

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed request/tool parameters.
// It is user-caused and recoverable by re-issuing corrected input.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ProviderError reports a failed or unparseable response from an external data
// provider. It is surfaced to the caller and never retried.
type ProviderError struct {
	Provider   string `json:"provider"`
	StatusCode int    `json:"status_code,omitempty"` // 0 when the call never completed
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *ProviderError) Unwrap() error { return e.Err }

// GenerationError reports a failed model call or unusable model output.
type GenerationError struct {
	Agent   string `json:"agent"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface for GenerationError.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s: %s", e.Agent, e.Message)
}

// Unwrap exposes the underlying model error, if any.
func (e *GenerationError) Unwrap() error { return e.Err }

// AsValidationError reports whether err is (or wraps) a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsProviderError reports whether err is (or wraps) a ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	ok := errors.As(err, &pe)
	return pe, ok
}

// AsGenerationError reports whether err is (or wraps) a GenerationError.
func AsGenerationError(err error) (*GenerationError, bool) {
	var ge *GenerationError
	ok := errors.As(err, &ge)
	return ge, ok
}
