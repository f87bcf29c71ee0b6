package studio

import (
	"errors"
	"fmt"
)

// ErrGenerateDisabled is returned by Generate while a job is in flight.
var ErrGenerateDisabled = errors.New("studio: generate is disabled while a generation is running")

// ValidationError rejects a generate request before any job is created.
type ValidationError struct {
	Field      string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (did you mean %q?)", e.Message, e.Suggestion)
	}
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
