// Package highlight assigns display identifiers to rendered units and
// resolves an identifier back to the elements it stands for.
//
// Identifier forms:
//
//	pii-<key>       a PII field
//	field-<key>     a flat order, cart, product, search or misc field
//	order-<n>       the numbered order n
//	product-<n>     the numbered product n
//
// Resolution never consults a cached view. Every call reruns the matching
// rules against the record with the current visibility, so an identifier
// whose elements are no longer visible resolves to nothing.
package highlight

import (
	"strconv"
	"strings"
)

// UnitKind is the kind of unit an identifier refers to.
type UnitKind string

const (
	UnitPII     UnitKind = "pii"
	UnitField   UnitKind = "field"
	UnitOrder   UnitKind = "order"
	UnitProduct UnitKind = "product"
)

const sep = "-"

// PII returns the identifier of the PII field key.
func PII(key string) string { return string(UnitPII) + sep + key }

// Field returns the identifier of the flat field key.
func Field(key string) string { return string(UnitField) + sep + key }

// Order returns the identifier of the numbered order ordinal.
func Order(ordinal int) string { return string(UnitOrder) + sep + strconv.Itoa(ordinal) }

// Product returns the identifier of the numbered product ordinal.
func Product(ordinal int) string { return string(UnitProduct) + sep + strconv.Itoa(ordinal) }

// Ref is a parsed identifier.
type Ref struct {
	Kind    UnitKind
	Key     string // for UnitPII and UnitField
	Ordinal int    // for UnitOrder and UnitProduct
}

// Parse splits an identifier. It reports false for anything that is not one
// of the four forms, including empty keys and negative or zero-padded ordinals.
func Parse(id string) (Ref, bool) {
	kind, rest, ok := strings.Cut(id, sep)
	if !ok || rest == "" {
		return Ref{}, false
	}
	switch UnitKind(kind) {
	case UnitPII, UnitField:
		return Ref{Kind: UnitKind(kind), Key: rest}, true
	case UnitOrder, UnitProduct:
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || strconv.Itoa(n) != rest {
			return Ref{}, false
		}
		return Ref{Kind: UnitKind(kind), Ordinal: n}, true
	}
	return Ref{}, false
}

// String rebuilds the identifier.
func (r Ref) String() string {
	switch r.Kind {
	case UnitPII:
		return PII(r.Key)
	case UnitField:
		return Field(r.Key)
	case UnitOrder:
		return Order(r.Ordinal)
	case UnitProduct:
		return Product(r.Ordinal)
	}
	return ""
}
