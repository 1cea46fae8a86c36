package validator

import (
	"errors"
	"strings"
)

// ErrValidation is matched by errors.Is for any ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single failed rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is an ordered collection of failed rules.
type ValidationErrors []*ValidationError

// Error joins all messages.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is reports ErrValidation so callers can match without a type assertion.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// IsEmpty reports whether there are no errors.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// First returns the message of the first failure, or an empty string.
func (e ValidationErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Has reports whether the given field has at least one failure.
func (e ValidationErrors) Has(field string) bool {
	for _, v := range e {
		if v.Field == field {
			return true
		}
	}
	return false
}

// AsValidationErrors extracts ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
