package annotation

import (
	"fmt"
	"strings"
)

// FillState is how much of a form the screenshot shows filled in.
type FillState string

const (
	FillFull    FillState = "full"
	FillPartial FillState = "partial"
	FillEmpty   FillState = "empty"
)

// FillStates lists the fill states in preference order.
var FillStates = []FillState{FillFull, FillPartial, FillEmpty}

// ParseFillState parses "full", "partial" or "empty".
func ParseFillState(s string) (FillState, error) {
	f := FillState(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FillFull, FillPartial, FillEmpty:
		return f, nil
	}
	return "", fmt.Errorf("unknown fill state %q", s)
}

// Has reports whether the sample has a screenshot for fill, either with
// annotations drawn in (annotated) or clean.
func (s Sample) Has(fill FillState, annotated bool) bool {
	switch fill {
	case FillFull:
		if annotated {
			return s.HasFull
		}
		return s.HasFullClean
	case FillPartial:
		if annotated {
			return s.HasPartial
		}
		return s.HasPartialClean
	case FillEmpty:
		if annotated {
			return s.HasEmpty
		}
		return s.HasEmptyClean
	}
	return false
}
