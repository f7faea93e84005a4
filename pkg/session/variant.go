package session

import (
	"fmt"

	"github.com/gardar/annotview/pkg/annotation"
)

// Variant is the screenshot to display for a sample.
type Variant struct {
	Fill      annotation.FillState `json:"fill"`
	Annotated bool                 `json:"annotated"`
	Fallback  bool                 `json:"fallback"` // The requested variant is missing and this one stands in
}

func (v Variant) String() string {
	mode := "clean"
	if v.Annotated {
		mode = "annotated"
	}
	return fmt.Sprintf("%s/%s", v.Fill, mode)
}

// Available returns the fill states the sample has screenshots for, in
// preference order.
func Available(s annotation.Sample, annotated bool) []annotation.FillState {
	var out []annotation.FillState
	for _, f := range annotation.FillStates {
		if s.Has(f, annotated) {
			out = append(out, f)
		}
	}
	return out
}

// ChooseFill keeps current when the sample has it and otherwise switches to
// the first available fill state. With nothing available current is kept.
func ChooseFill(s annotation.Sample, current annotation.FillState, annotated bool) annotation.FillState {
	if s.Has(current, annotated) {
		return current
	}
	if avail := Available(s, annotated); len(avail) > 0 {
		return avail[0]
	}
	return current
}

// SelectVariant picks the screenshot to show for fill and annotated. When
// that variant is missing the clean full screenshot stands in, then the
// clean empty one, and the result is flagged as a fallback. It reports
// false when the sample has none of these.
func SelectVariant(s annotation.Sample, fill annotation.FillState, annotated bool) (Variant, bool) {
	if s.Has(fill, annotated) {
		return Variant{Fill: fill, Annotated: annotated}, true
	}
	for _, f := range []annotation.FillState{annotation.FillFull, annotation.FillEmpty} {
		if s.Has(f, false) {
			return Variant{Fill: f, Annotated: false, Fallback: true}, true
		}
	}
	return Variant{}, false
}
