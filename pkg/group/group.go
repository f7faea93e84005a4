// Package group folds numbered element keys (ORDER1_ID, ORDER1_TOTAL,
// ORDER2_ID, ...) into one entity per ordinal.
package group

import (
	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
)

// Entity is one numbered, multi-attribute record such as an order.
type Entity struct {
	Kind     classify.Kind
	Ordinal  int                  // Numeric suffix of the keys, e.g. 2 for ORDER2_ID
	Fields   *annotation.FieldMap // Attribute name -> value, first-seen order
	Elements []annotation.Element // Visible contributing elements, encounter order
}

// Get returns the value of attribute name.
func (e Entity) Get(name string) (annotation.Value, bool) {
	return e.Fields.Get(name)
}

// Group partitions the visible elements of kind by ordinal. Elements whose
// key is not a numbered key of kind, and hidden elements, are skipped; an
// ordinal with no visible element produces no entity. Within an entity a
// repeated attribute takes the last value seen. Entities are returned in the
// order their ordinal was first seen.
func Group(elements []annotation.Element, kind classify.Kind, visible annotation.VisibleFunc) []Entity {
	if visible == nil {
		visible = annotation.FlagVisible
	}

	var entities []Entity
	index := make(map[int]int)
	for _, el := range elements {
		if !visible(el) {
			continue
		}
		tag := classify.TagOf(el.Key)
		if tag.Kind != kind || !tag.Numbered {
			continue
		}
		i, ok := index[tag.Ordinal]
		if !ok {
			i = len(entities)
			index[tag.Ordinal] = i
			entities = append(entities, Entity{Kind: kind, Ordinal: tag.Ordinal, Fields: annotation.NewFieldMap()})
		}
		entities[i].Elements = append(entities[i].Elements, el)
		entities[i].Fields.Set(tag.Attr, el.Val())
	}
	return entities
}

// Members returns the visible elements of the entity kind/ordinal, computed
// from scratch with the same rules as Group.
func Members(elements []annotation.Element, kind classify.Kind, ordinal int, visible annotation.VisibleFunc) []annotation.Element {
	if visible == nil {
		visible = annotation.FlagVisible
	}
	var out []annotation.Element
	for _, el := range elements {
		if !visible(el) {
			continue
		}
		tag := classify.TagOf(el.Key)
		if tag.Kind == kind && tag.Numbered && tag.Ordinal == ordinal {
			out = append(out, el)
		}
	}
	return out
}
