// Package layout filters displayable units and orders them in reading order.
package layout

import (
	"math"
	"sort"

	"github.com/gardar/annotview/pkg/annotation"
)

// DefaultRowTolerance is the vertical distance, in pixels, within which two
// boxes are treated as being on the same row.
const DefaultRowTolerance = 10.0

// Before reports whether box a comes before box b in reading order:
// top to bottom, then left to right for boxes on the same row.
func Before(a, b annotation.BoundingBox, tolerance float64) bool {
	if math.Abs(a.Y-b.Y) > tolerance {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// SortVisible drops the units that have no visible element and sorts the
// rest by the box of their first element. The sort is stable, so units that
// compare equal keep their input order. A negative tolerance falls back to
// DefaultRowTolerance. The input slice is not modified.
func SortVisible[T any](units []T, elements func(T) []annotation.Element, tolerance float64) []T {
	if tolerance < 0 {
		tolerance = DefaultRowTolerance
	}

	kept := make([]T, 0, len(units))
	anchors := make([]annotation.BoundingBox, 0, len(units))
	for _, u := range units {
		els := elements(u)
		if len(els) == 0 {
			continue
		}
		kept = append(kept, u)
		anchors = append(anchors, els[0].BBox)
	}

	idx := make([]int, len(kept))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return Before(anchors[idx[i]], anchors[idx[j]], tolerance)
	})

	out := make([]T, len(kept))
	for i, k := range idx {
		out[i] = kept[k]
	}
	return out
}
