package reconcile

import (
	"strings"

	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
)

// MatchMode selects how a flat order, cart or search field is associated
// with element keys.
type MatchMode int

const (
	// MatchExact associates a field only with elements of the same key
	// (or one of its configured aliases).
	MatchExact MatchMode = iota
	// MatchLegacyPrefix additionally accepts elements whose key starts with
	// the field key stripped of underscores (ORDER_ID matches ORDERID...).
	// It can both over- and under-match and is kept for compatibility only.
	MatchLegacyPrefix
)

func (m MatchMode) String() string {
	if m == MatchLegacyPrefix {
		return "legacy-prefix"
	}
	return "exact"
}

// ParseMatchMode parses "exact" or "legacy-prefix".
func ParseMatchMode(s string) (MatchMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return MatchExact, true
	case "legacy-prefix", "legacy":
		return MatchLegacyPrefix, true
	}
	return MatchExact, false
}

// Matcher decides which element keys belong to a field key.
type Matcher struct {
	Mode    MatchMode
	Aliases map[string][]string // field key -> extra element keys
}

// Exact reports whether elementKey is fieldKey or one of its aliases.
func (m Matcher) Exact(fieldKey, elementKey string) bool {
	if fieldKey == elementKey {
		return true
	}
	for _, alias := range m.Aliases[fieldKey] {
		if alias == elementKey {
			return true
		}
	}
	return false
}

// Match applies the configured mode on top of Exact.
func (m Matcher) Match(fieldKey, elementKey string) bool {
	if m.Exact(fieldKey, elementKey) {
		return true
	}
	if m.Mode == MatchLegacyPrefix {
		return strings.HasPrefix(elementKey, strings.ReplaceAll(fieldKey, "_", ""))
	}
	return false
}

// searchPool is search_elements followed by the search-tagged entries of
// product_elements.
func searchPool(rec *annotation.Record) []annotation.Element {
	out := make([]annotation.Element, 0, len(rec.SearchElements))
	out = append(out, rec.SearchElements...)
	for _, el := range rec.ProductElements {
		if classify.Route(el.Key) == classify.KindSearch {
			out = append(out, el)
		}
	}
	return out
}

// Pool returns the elements that may back a field of kind, in encounter order.
func Pool(rec *annotation.Record, kind classify.Kind) []annotation.Element {
	switch kind {
	case classify.KindPII:
		return rec.PIIElements
	case classify.KindSearch:
		return searchPool(rec)
	case classify.KindOrder, classify.KindCart:
		var out []annotation.Element
		for _, el := range rec.ProductElements {
			if k := classify.Route(el.Key); k == classify.KindOrder || k == classify.KindCart {
				out = append(out, el)
			}
		}
		return out
	case classify.KindProduct:
		var out []annotation.Element
		for _, el := range rec.ProductElements {
			if classify.Route(el.Key) == classify.KindProduct {
				out = append(out, el)
			}
		}
		return out
	default:
		return rec.ProductElements
	}
}

// Sources returns the currently visible elements backing f, in encounter
// order. An empty result means f is not displayable right now.
func Sources(rec *annotation.Record, f Field, m Matcher, visible annotation.VisibleFunc) []annotation.Element {
	if visible == nil {
		visible = annotation.FlagVisible
	}
	match := m.Exact
	switch f.Kind {
	case classify.KindOrder, classify.KindCart, classify.KindSearch:
		match = m.Match
	}

	var out []annotation.Element
	for _, el := range Pool(rec, f.Kind) {
		if visible(el) && match(f.Key, el.Key) {
			out = append(out, el)
		}
	}
	return out
}
