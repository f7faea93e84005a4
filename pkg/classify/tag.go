// Package classify assigns meaning to annotation keys.
//
// Keys are tagged once, up front, into a small variant (Tag) so that the
// reconciliation, grouping and highlight code switch over the tag instead of
// repeating prefix checks. PII keys are further classified into display
// categories by keyword rules (Classifier).
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Key prefixes recognized by TagOf.
const (
	PrefixPII       = "PII_"
	PrefixOrder     = "ORDER"
	PrefixCart      = "CART"
	PrefixProduct   = "PRODUCT"
	PrefixSearch    = "SEARCH"
	HeaderSearchKey = "HEADER_SEARCH"
)

// Kind is the coarse routing class of a key.
type Kind int

const (
	KindMisc Kind = iota
	KindPII
	KindOrder
	KindCart
	KindProduct
	KindSearch
)

func (k Kind) String() string {
	switch k {
	case KindPII:
		return "pii"
	case KindOrder:
		return "order"
	case KindCart:
		return "cart"
	case KindProduct:
		return "product"
	case KindSearch:
		return "search"
	default:
		return "misc"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Tag is the parsed shape of a key.
//
//	PII_EMAIL      -> {Kind: KindPII, Flat: true, Attr: "EMAIL"}
//	ORDER_TOTAL    -> {Kind: KindOrder, Flat: true, Attr: "TOTAL"}
//	ORDER2_ID      -> {Kind: KindOrder, Numbered: true, Ordinal: 2, Attr: "ID"}
//	HEADER_SEARCH  -> {Kind: KindSearch, Flat: true, Attr: "HEADER_SEARCH"}
//	ORDERS_PANEL   -> {Kind: KindOrder} (neither flat nor numbered)
//	COUPON_CODE    -> {Kind: KindMisc}
type Tag struct {
	Kind     Kind
	Flat     bool   // PREFIX_ATTR form
	Numbered bool   // PREFIX<N>_ATTR form
	Ordinal  int    // N, when Numbered
	Attr     string // attribute name after the prefix
}

var numberedRe = regexp.MustCompile(`^(\d+)_(.+)$`)

var entityPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{PrefixOrder, KindOrder},
	{PrefixCart, KindCart},
	{PrefixProduct, KindProduct},
	{PrefixSearch, KindSearch},
}

// TagOf classifies a key. It is total: unknown keys are KindMisc.
func TagOf(key string) Tag {
	if strings.HasPrefix(key, PrefixPII) {
		return Tag{Kind: KindPII, Flat: true, Attr: key[len(PrefixPII):]}
	}
	if key == HeaderSearchKey {
		return Tag{Kind: KindSearch, Flat: true, Attr: key}
	}
	for _, p := range entityPrefixes {
		if !strings.HasPrefix(key, p.prefix) {
			continue
		}
		rest := key[len(p.prefix):]
		if strings.HasPrefix(rest, "_") {
			return Tag{Kind: p.kind, Flat: true, Attr: rest[1:]}
		}
		if m := numberedRe.FindStringSubmatch(rest); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return Tag{Kind: p.kind, Numbered: true, Ordinal: n, Attr: m[2]}
			}
		}
		return Tag{Kind: p.kind}
	}
	return Tag{Kind: KindMisc}
}

// Route returns the coarse kind of a key.
func Route(key string) Kind { return TagOf(key).Kind }

// EntityPrefix returns the key prefix of numbered entities of kind k.
func EntityPrefix(k Kind) string {
	for _, p := range entityPrefixes {
		if p.kind == k {
			return p.prefix
		}
	}
	return ""
}
