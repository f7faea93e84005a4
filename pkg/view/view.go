// Package view runs the full metadata pipeline for one sample and produces
// the ordered, displayable sections a viewer shows next to the screenshot.
//
// Render reconciles the flat fields, groups numbered orders and products,
// drops everything without a visible box, sorts each section in reading
// order and assigns every unit its display identifier. It holds no state:
// the record and Options are the only inputs, so rendering twice with the
// same inputs yields identical views.
//
// Key Types:
//
// - View: the rendered sections of one sample
// - Unit: one displayed field or grouped entity with its identifier and elements
// - Config: user-tunable settings (row tolerance, key matching, PII rules)
// - Options: the explicit inputs of one render
//
// Main Functions:
//
// - Render: runs the pipeline
// - Overlay: converts a view into an hOCR overlay document
// - ToJSON: renders a view as indented JSON
package view

import (
	"fmt"

	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
	"github.com/gardar/annotview/pkg/group"
	"github.com/gardar/annotview/pkg/highlight"
	"github.com/gardar/annotview/pkg/layout"
	"github.com/gardar/annotview/pkg/reconcile"
)

// Section names one list of the view.
type Section string

const (
	SectionPII           Section = "pii"
	SectionOrderCart     Section = "order_cart"
	SectionOrders        Section = "orders"
	SectionSearch        Section = "search"
	SectionProducts      Section = "products"
	SectionProductFields Section = "product_fields"
	SectionMisc          Section = "misc"
)

// Sections lists the sections in display order.
var Sections = []Section{
	SectionPII,
	SectionOrderCart,
	SectionOrders,
	SectionSearch,
	SectionProducts,
	SectionProductFields,
	SectionMisc,
}

// Attr is one attribute of a grouped entity.
type Attr struct {
	Name  string           `json:"name"`
	Value annotation.Value `json:"value"`
}

// Unit is one displayed field or grouped entity.
type Unit struct {
	ID       string               `json:"id"`                 // Display identifier
	Kind     classify.Kind        `json:"kind"`               // Routing kind of the key
	Key      string               `json:"key,omitempty"`      // Field key, empty for entities
	Ordinal  int                  `json:"ordinal,omitempty"`  // Entity ordinal
	Category classify.Category    `json:"category,omitempty"` // PII category
	Value    annotation.Value     `json:"value"`              // Field value, empty for entities
	Attrs    []Attr               `json:"attrs,omitempty"`    // Entity attributes, encounter order
	Elements []annotation.Element `json:"elements"`           // Visible elements backing the unit
}

// IsEntity reports whether u is a grouped order or product.
func (u Unit) IsEntity() bool { return u.Key == "" }

// Label is the plain caption of the unit: the key for fields and
// "Order 2" style captions for entities.
func (u Unit) Label() string {
	if !u.IsEntity() {
		return u.Key
	}
	switch u.Kind {
	case classify.KindOrder:
		return fmt.Sprintf("Order %d", u.Ordinal)
	case classify.KindProduct:
		return fmt.Sprintf("Product %d", u.Ordinal)
	}
	return u.ID
}

// PIIGroup is the visible PII fields of one category.
type PIIGroup struct {
	Category classify.Category `json:"category"`
	Fields   []Unit            `json:"fields"`
}

// View is the rendered metadata of one sample.
type View struct {
	Fill            annotation.FillState `json:"fill,omitempty"`
	ShowAnnotations bool                 `json:"showAnnotations"`
	PII             []PIIGroup           `json:"pii"`           // Non-empty categories in classifier order
	OrderCart       []Unit               `json:"orderCart"`     // Flat order and cart fields
	Orders          []Unit               `json:"orders"`        // Numbered orders
	Search          []Unit               `json:"search"`        // Flat search fields
	Products        []Unit               `json:"products"`      // Numbered products
	ProductFields   []Unit               `json:"productFields"` // Flat product fields
	Misc            []Unit               `json:"misc"`          // Everything else
	NoData          bool                 `json:"noData"`        // Nothing was reconciled and there are no product elements
}

// Empty reports whether the sample carries no data at all. A view can be
// non-empty and still show nothing when no element is visible.
func (v *View) Empty() bool { return v.NoData }

// Units returns the units of section s in display order.
func (v *View) Units(s Section) []Unit {
	switch s {
	case SectionPII:
		var out []Unit
		for _, g := range v.PII {
			out = append(out, g.Fields...)
		}
		return out
	case SectionOrderCart:
		return v.OrderCart
	case SectionOrders:
		return v.Orders
	case SectionSearch:
		return v.Search
	case SectionProducts:
		return v.Products
	case SectionProductFields:
		return v.ProductFields
	case SectionMisc:
		return v.Misc
	}
	return nil
}

// Count returns the number of units shown in section s.
func (v *View) Count(s Section) int { return len(v.Units(s)) }

// All returns every unit in display order.
func (v *View) All() []Unit {
	var out []Unit
	for _, s := range Sections {
		out = append(out, v.Units(s)...)
	}
	return out
}

// IDs returns the display identifiers in display order.
func (v *View) IDs() []string {
	units := v.All()
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids
}

// Find returns the unit with display identifier id.
func (v *View) Find(id string) (Unit, bool) {
	for _, u := range v.All() {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

func unitElements(u Unit) []annotation.Element { return u.Elements }

// Render runs the pipeline over rec. A nil record renders as an empty view.
func Render(rec *annotation.Record, opts Options) *View {
	if rec == nil {
		rec = &annotation.Record{}
	}
	visible := opts.visible()
	tol := opts.rowTolerance()
	fields := reconcile.Reconcile(rec, opts.reconcileOptions())

	fieldUnits := func(kinds ...classify.Kind) []Unit {
		var units []Unit
		for _, k := range kinds {
			for _, f := range fields.List(k) {
				units = append(units, fieldUnit(rec, f, opts.Matcher, visible))
			}
		}
		return layout.SortVisible(units, unitElements, tol)
	}

	v := &View{Fill: opts.Fill, ShowAnnotations: opts.ShowAnnotations}

	byCategory := make(map[classify.Category][]Unit)
	for _, f := range fields.List(classify.KindPII) {
		byCategory[f.Category] = append(byCategory[f.Category], fieldUnit(rec, f, opts.Matcher, visible))
	}
	for _, c := range opts.classifier().Categories() {
		if units := layout.SortVisible(byCategory[c], unitElements, tol); len(units) > 0 {
			v.PII = append(v.PII, PIIGroup{Category: c, Fields: units})
		}
	}

	v.OrderCart = fieldUnits(classify.KindOrder, classify.KindCart)
	v.Orders = entityUnits(group.Group(rec.ProductElements, classify.KindOrder, visible), tol)
	v.Search = fieldUnits(classify.KindSearch)
	v.Products = entityUnits(group.Group(rec.ProductElements, classify.KindProduct, visible), tol)
	v.ProductFields = fieldUnits(classify.KindProduct)
	v.Misc = fieldUnits(classify.KindMisc)
	v.NoData = len(fields.All()) == 0 && len(reconcile.Pool(rec, classify.KindProduct)) == 0

	if opts.Logger != nil {
		opts.Logger.Debug("rendered view",
			"fill", string(opts.Fill),
			"annotations", opts.ShowAnnotations,
			"pii", v.Count(SectionPII),
			"order_cart", len(v.OrderCart),
			"orders", len(v.Orders),
			"search", len(v.Search),
			"products", len(v.Products),
			"product_fields", len(v.ProductFields),
			"misc", len(v.Misc),
			"no_data", v.NoData,
		)
	}
	return v
}

func fieldUnit(rec *annotation.Record, f reconcile.Field, m reconcile.Matcher, visible annotation.VisibleFunc) Unit {
	id := highlight.Field(f.Key)
	if f.Kind == classify.KindPII {
		id = highlight.PII(f.Key)
	}
	return Unit{
		ID:       id,
		Kind:     f.Kind,
		Key:      f.Key,
		Category: f.Category,
		Value:    f.Value,
		Elements: reconcile.Sources(rec, f, m, visible),
	}
}

func entityUnits(entities []group.Entity, tol float64) []Unit {
	units := make([]Unit, 0, len(entities))
	for _, e := range entities {
		id := highlight.Order(e.Ordinal)
		if e.Kind == classify.KindProduct {
			id = highlight.Product(e.Ordinal)
		}
		u := Unit{ID: id, Kind: e.Kind, Ordinal: e.Ordinal, Elements: e.Elements}
		for _, name := range e.Fields.Keys() {
			val, _ := e.Get(name)
			u.Attrs = append(u.Attrs, Attr{Name: name, Value: val})
		}
		units = append(units, u)
	}
	return layout.SortVisible(units, unitElements, tol)
}
