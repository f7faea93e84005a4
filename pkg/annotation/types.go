package annotation

import (
	"encoding/json"
	"math"
)

// EmptySentinel is what an absent value renders as.
const EmptySentinel = "(empty)"

// SeedKey is a reserved entry of required_fields that never names a real field.
const SeedKey = "SEED"

// BoundingBox is a rectangle in image pixel coordinates
type BoundingBox struct {
	X      float64 `json:"x"`      // Left coordinate
	Y      float64 `json:"y"`      // Top coordinate
	Width  float64 `json:"width"`  // Horizontal extent
	Height float64 `json:"height"` // Vertical extent
}

// NewBoundingBox creates a bounding box from its top-left corner and size.
func NewBoundingBox(x, y, width, height float64) BoundingBox {
	return BoundingBox{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x coordinate of the right edge.
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	x := math.Min(b.X, other.X)
	y := math.Min(b.Y, other.Y)
	x2 := math.Max(b.Right(), other.Right())
	y2 := math.Max(b.Bottom(), other.Bottom())
	return BoundingBox{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Value is a scalar field value. The zero Value is the empty sentinel.
type Value struct {
	text    string
	present bool
}

// Empty is the sentinel for a field that has no real value.
var Empty = Value{}

// NewValue wraps s. An empty string yields the empty sentinel.
func NewValue(s string) Value {
	if s == "" {
		return Empty
	}
	return Value{text: s, present: true}
}

// ValueOf converts a nullable string.
func ValueOf(s *string) Value {
	if s == nil {
		return Empty
	}
	return NewValue(*s)
}

// IsEmpty reports whether v is the empty sentinel.
func (v Value) IsEmpty() bool { return !v.present }

// Text returns the real value and whether there is one.
func (v Value) Text() (string, bool) { return v.text, v.present }

// String returns the value, or EmptySentinel.
func (v Value) String() string {
	if !v.present {
		return EmptySentinel
	}
	return v.text
}

// MarshalJSON encodes the empty sentinel as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

// Element is one detected annotation instance tied to a screen region.
// Elements are immutable once decoded.
type Element struct {
	Key     string      `json:"key"`     // Field key, e.g. PII_EMAIL or ORDER1_ID
	Value   *string     `json:"value"`   // Detected value, nil when none
	Visible bool        `json:"visible"` // Whether the box is currently displayable
	BBox    BoundingBox `json:"bbox"`    // Screen region
}

// Val returns the element value, normalized to the empty sentinel when absent.
func (e Element) Val() Value { return ValueOf(e.Value) }

// HasValue reports whether the element carries a non-empty value.
func (e Element) HasValue() bool { return e.Value != nil && *e.Value != "" }

// FieldMap is a string-keyed map of values that remembers insertion order.
// Overwriting a key keeps its original position.
type FieldMap struct {
	keys   []string
	values map[string]Value
}

// NewFieldMap builds a map from alternating key, value pairs.
// An empty value string is stored as the empty sentinel.
func NewFieldMap(pairs ...string) *FieldMap {
	m := &FieldMap{values: make(map[string]Value, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], NewValue(pairs[i+1]))
	}
	return m
}

// Set stores v under key.
func (m *FieldMap) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key.
func (m *FieldMap) Get(key string) (Value, bool) {
	if m == nil {
		return Empty, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *FieldMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Record is the decoded metadata of one sample. A Record is replaced
// wholesale when another sample is selected and is never mutated in place.
type Record struct {
	DeclaredFields  []string  // required_fields, in document order
	RawValues       *FieldMap // data_json, in document order
	PIIElements     []Element // pii_elements
	ProductElements []Element // product_elements (also carries order, cart and search keys)
	SearchElements  []Element // search_elements
}

// Raw returns the raw value for key, or the empty sentinel.
func (r *Record) Raw(key string) Value {
	v, _ := r.RawValues.Get(key)
	return v
}

// Sample is one entry of the sample index. The has* flags tell which
// screenshot variants exist for the sample.
type Sample struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	HasFull         bool   `json:"hasFull"`
	HasFullClean    bool   `json:"hasFullClean"`
	HasPartial      bool   `json:"hasPartial"`
	HasPartialClean bool   `json:"hasPartialClean"`
	HasEmpty        bool   `json:"hasEmpty"`
	HasEmptyClean   bool   `json:"hasEmptyClean"`
	Company         string `json:"company"`
	PageType        string `json:"pageType"`
}

// VisibleFunc decides whether an element currently counts as visible.
type VisibleFunc func(Element) bool

// FlagVisible is the default VisibleFunc: it trusts the element's own flag.
func FlagVisible(e Element) bool { return e.Visible }
