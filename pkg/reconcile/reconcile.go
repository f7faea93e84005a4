// Package reconcile merges the overlapping sources of a Record into one
// canonical, classified value per logical field.
//
// Sources are applied in a fixed order and later sources overwrite earlier
// ones only where noted:
//
//  1. required_fields seed every declared key (PII keys only when they have a value)
//  2. data_json adds undeclared flat order/cart/search keys
//  3. flat order/cart elements with a value overwrite
//  4. flat search elements add missing keys, empty sentinel allowed
//  5. unprefixed product-list elements with a value add misc keys
//  6. visible PII elements add PII keys only present as annotations
//
// Which elements back a canonical field is not stored here; Sources computes
// it on demand so that it always reflects the current visibility.
package reconcile

import (
	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
)

// Field is one canonical, classified field.
type Field struct {
	Key      string
	Value    annotation.Value
	Kind     classify.Kind     // Destination section
	Category classify.Category // PII display category, empty for other kinds
}

// Options control reconciliation.
type Options struct {
	Classifier *classify.Classifier   // nil means classify.Default
	Visible    annotation.VisibleFunc // nil means annotation.FlagVisible
}

func (o Options) classifier() *classify.Classifier {
	if o.Classifier == nil {
		return classify.Default
	}
	return o.Classifier
}

func (o Options) visible() annotation.VisibleFunc {
	if o.Visible == nil {
		return annotation.FlagVisible
	}
	return o.Visible
}

// sectionOrder is the order in which Fields.All lists sections.
var sectionOrder = []classify.Kind{
	classify.KindPII,
	classify.KindOrder,
	classify.KindCart,
	classify.KindProduct,
	classify.KindSearch,
	classify.KindMisc,
}

// Fields holds the canonical fields of a record, one ordered map per kind.
// Keys are unique within a kind.
type Fields struct {
	sections   map[classify.Kind]*annotation.FieldMap
	classifier *classify.Classifier
}

func newFields(c *classify.Classifier) *Fields {
	f := &Fields{sections: make(map[classify.Kind]*annotation.FieldMap, len(sectionOrder)), classifier: c}
	for _, k := range sectionOrder {
		f.sections[k] = annotation.NewFieldMap()
	}
	return f
}

func (f *Fields) set(kind classify.Kind, key string, v annotation.Value) {
	f.sections[kind].Set(key, v)
}

func (f *Fields) has(kind classify.Kind, key string) bool {
	return f.sections[kind].Has(key)
}

// Get returns the canonical field for key in kind.
func (f *Fields) Get(kind classify.Kind, key string) (Field, bool) {
	m, ok := f.sections[kind]
	if !ok {
		return Field{}, false
	}
	v, ok := m.Get(key)
	if !ok {
		return Field{}, false
	}
	return f.field(kind, key, v), true
}

// List returns the fields of kind in insertion order.
func (f *Fields) List(kind classify.Kind) []Field {
	m, ok := f.sections[kind]
	if !ok {
		return nil
	}
	keys := m.Keys()
	out := make([]Field, 0, len(keys))
	for _, key := range keys {
		v, _ := m.Get(key)
		out = append(out, f.field(kind, key, v))
	}
	return out
}

// All returns every field, section by section.
func (f *Fields) All() []Field {
	var out []Field
	for _, k := range sectionOrder {
		out = append(out, f.List(k)...)
	}
	return out
}

// Len returns the number of fields in kind.
func (f *Fields) Len(kind classify.Kind) int {
	return f.sections[kind].Len()
}

func (f *Fields) field(kind classify.Kind, key string, v annotation.Value) Field {
	fd := Field{Key: key, Value: v, Kind: kind}
	if kind == classify.KindPII {
		fd.Category = f.classifier.Classify(key)
	}
	return fd
}

// groupedKind reports whether numbered keys of kind are represented by
// grouped entities rather than flat fields.
func groupedKind(k classify.Kind) bool {
	return k == classify.KindOrder || k == classify.KindProduct
}

// Reconcile builds the canonical fields of rec. It is pure and total.
func Reconcile(rec *annotation.Record, opts Options) *Fields {
	fields := newFields(opts.classifier())
	visible := opts.visible()

	declared := make(map[string]bool, len(rec.DeclaredFields))
	for _, key := range rec.DeclaredFields {
		declared[key] = true
		if key == "" || key == annotation.SeedKey {
			continue
		}
		tag := classify.TagOf(key)
		v := rec.Raw(key)
		switch {
		case tag.Kind == classify.KindPII:
			// PII is never shown as empty.
			if v.IsEmpty() {
				continue
			}
		case tag.Numbered && groupedKind(tag.Kind):
			continue
		}
		fields.set(tag.Kind, key, v)
	}

	for _, key := range rec.RawValues.Keys() {
		if declared[key] {
			continue
		}
		v := rec.Raw(key)
		if v.IsEmpty() {
			continue
		}
		tag := classify.TagOf(key)
		if !tag.Flat || key == classify.HeaderSearchKey {
			continue
		}
		switch tag.Kind {
		case classify.KindOrder, classify.KindCart, classify.KindSearch:
			fields.set(tag.Kind, key, v)
		}
	}

	// Elements carry a live box, so their values win.
	for _, el := range rec.ProductElements {
		if !el.HasValue() {
			continue
		}
		tag := classify.TagOf(el.Key)
		if tag.Flat && (tag.Kind == classify.KindOrder || tag.Kind == classify.KindCart) {
			fields.set(tag.Kind, el.Key, el.Val())
		}
	}

	for _, el := range searchPool(rec) {
		tag := classify.TagOf(el.Key)
		if tag.Kind != classify.KindSearch || !tag.Flat || fields.has(classify.KindSearch, el.Key) {
			continue
		}
		fields.set(classify.KindSearch, el.Key, el.Val())
	}

	for _, el := range rec.ProductElements {
		if !el.HasValue() || fields.has(classify.KindMisc, el.Key) {
			continue
		}
		switch classify.Route(el.Key) {
		case classify.KindOrder, classify.KindCart, classify.KindProduct, classify.KindSearch:
			continue
		}
		// Anything else, PII_ keys included, is misc on this list.
		fields.set(classify.KindMisc, el.Key, el.Val())
	}

	for _, el := range rec.PIIElements {
		if el.Key == "" || !visible(el) || fields.has(classify.KindPII, el.Key) {
			continue
		}
		fields.set(classify.KindPII, el.Key, el.Val())
	}

	return fields
}
