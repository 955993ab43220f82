package ai

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable covers transport failures, timeouts and provider outages.
var ErrModelUnavailable = errors.New("ai model unavailable")

// ErrModelOutputInvalid means the model answered but the payload did not match the expected schema.
var ErrModelOutputInvalid = errors.New("ai model output invalid")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
// It also matches ErrModelUnavailable.
var ErrQuotaExceeded = quotaError{}

type quotaError struct{}

func (quotaError) Error() string { return "ai quota exceeded" }

func (quotaError) Is(target error) bool { return target == ErrModelUnavailable }

// OutputError carries the raw model payload that failed validation.
type OutputError struct {
	Prompt string
	Raw    string
	Reason string
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrModelOutputInvalid, e.Prompt, e.Reason)
}

func (e *OutputError) Unwrap() error { return ErrModelOutputInvalid }

// InvalidOutput builds an OutputError for the named prompt.
func InvalidOutput(prompt, raw, format string, args ...any) error {
	return &OutputError{Prompt: prompt, Raw: raw, Reason: fmt.Sprintf(format, args...)}
}
