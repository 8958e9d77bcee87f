package core

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload is matched by every MalformedPayloadError.
var ErrMalformedPayload = errors.New("malformed payload")

// MalformedPayloadError reports a required payload field that is missing or
// has the wrong shape.
type MalformedPayloadError struct {
	Field  string
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed payload: %s", e.Reason)
	}
	return fmt.Sprintf("malformed payload: %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedPayload) match any MalformedPayloadError.
func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

// Malformed builds a MalformedPayloadError for field.
func Malformed(field, format string, args ...any) error {
	return &MalformedPayloadError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
