package session

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNoSample indicates there is no sample at the requested position
	ErrNoSample = errors.New("no sample")
	// ErrSuperseded indicates a newer load started while this one was in flight
	ErrSuperseded = errors.New("superseded by a newer load")
	// ErrVariantUnavailable indicates the sample has no screenshot for the requested variant
	ErrVariantUnavailable = errors.New("variant unavailable")
)

// LoadError represents a failed metadata load for one sample
type LoadError struct {
	SampleID string // Sample whose metadata could not be loaded
	Err      error  // Underlying error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load sample %s: %v", e.SampleID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
