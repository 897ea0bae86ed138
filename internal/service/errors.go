package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidCredentials is returned by Login for an unknown email and for a
// wrong password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports request input that failed validation. Errors maps
// the json field name to a description of the problem.
type ValidationError struct {
	Errors map[string]string
}

// Error lists the failing fields in name order, e.g.
// "rating: must be between 1 and 5; title: must be provided".
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Errors[k])
	}
	return strings.Join(parts, "; ")
}

func newValidationError(errs map[string]string) error {
	return &ValidationError{Errors: errs}
}
