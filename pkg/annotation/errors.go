package annotation

import (
	"errors"
	"fmt"
)

// ErrMalformed is the base error for metadata that cannot be decoded.
var ErrMalformed = errors.New("malformed metadata")

// DecodeError reports where in a metadata document decoding failed
type DecodeError struct {
	Field   string // Top-level document key, e.g. "pii_elements"
	Index   int    // Element index within Field, -1 when not applicable
	Message string // Human-readable reason
	Err     error  // Underlying error, if any
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode %s[%d]: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("decode %s: %s", e.Field, e.Message)
}

func (e *DecodeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformed
}
