package schemamodel

import (
	"errors"
	"strings"
)

// ValidationError is the single error kind produced by the converter and the
// coercer. Details carries per-field messages when several problems were found
// in one call; Message summarises the failure.
type ValidationError struct {
	Message string
	Details []string
}

// NewValidationError builds a ValidationError, dropping blank detail messages.
func NewValidationError(message string, details ...string) *ValidationError {
	clean := make([]string, 0, len(details))
	for _, detail := range details {
		if trimmed := strings.TrimSpace(detail); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) == 0 {
		clean = nil
	}
	if strings.TrimSpace(message) == "" {
		message = "Unknown error"
	}
	return &ValidationError{Message: message, Details: clean}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Details) > 0 {
		return strings.Join(e.Details, ".\n")
	}
	return e.Message
}

// Messages returns the detail list, or the summary message when there are no
// details. Callers display these to the user verbatim.
func (e *ValidationError) Messages() []string {
	if e == nil {
		return nil
	}
	if len(e.Details) > 0 {
		return append([]string(nil), e.Details...)
	}
	return []string{e.Message}
}

// Unwrap exposes each detail as its own error.
func (e *ValidationError) Unwrap() []error {
	if e == nil || len(e.Details) == 0 {
		return nil
	}
	out := make([]error, 0, len(e.Details))
	for _, detail := range e.Details {
		out = append(out, errors.New(detail))
	}
	return out
}

// AsValidationError returns the ValidationError found in err's chain. Other
// errors are wrapped as unexpected failures so callers always get a
// displayable message list.
func AsValidationError(err error) *ValidationError {
	if err == nil {
		return NewValidationError("Unknown error")
	}
	var verr *ValidationError
	if errors.As(err, &verr) && verr != nil {
		return verr
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return NewValidationError("Unknown error")
	}
	return NewValidationError("Unexpected error: " + msg)
}
