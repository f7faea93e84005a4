package group

import (
	"reflect"
	"testing"

	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
)

func el(key, value string, visible bool) annotation.Element {
	e := annotation.Element{Key: key, Visible: visible, BBox: annotation.NewBoundingBox(0, 0, 1, 1)}
	if value != "" {
		e.Value = &value
	}
	return e
}

func fields(e Entity) map[string]string {
	out := map[string]string{}
	for _, k := range e.Fields.Keys() {
		v, _ := e.Get(k)
		out[k] = v.String()
	}
	return out
}

func TestGroupOrders(t *testing.T) {
	elements := []annotation.Element{
		el("ORDER1_ID", "A100", true),
		el("ORDER_TOTAL", "$90", true),
		el("ORDER1_TOTAL", "$50", true),
		el("PRODUCT1_NAME", "Boots", true),
		el("ORDER2_ID", "A200", true),
		el("ORDERS_HEADER", "Orders", true),
	}

	got := Group(elements, classify.KindOrder, nil)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	tests := []struct {
		ordinal  int
		fields   map[string]string
		elements int
	}{
		{1, map[string]string{"ID": "A100", "TOTAL": "$50"}, 2},
		{2, map[string]string{"ID": "A200"}, 1},
	}
	for i, tt := range tests {
		e := got[i]
		if e.Ordinal != tt.ordinal || e.Kind != classify.KindOrder {
			t.Errorf("entity %d: ordinal %d kind %v, want %d order", i, e.Ordinal, e.Kind, tt.ordinal)
		}
		if f := fields(e); !reflect.DeepEqual(f, tt.fields) {
			t.Errorf("entity %d fields = %v, want %v", i, f, tt.fields)
		}
		if len(e.Elements) != tt.elements {
			t.Errorf("entity %d has %d elements, want %d", i, len(e.Elements), tt.elements)
		}
	}
}

func TestGroupVisibility(t *testing.T) {
	tests := []struct {
		name     string
		elements []annotation.Element
		want     map[int][]string
	}{
		{
			name: "hidden element excluded from bucket",
			elements: []annotation.Element{
				el("ORDER1_ID", "A100", false),
				el("ORDER1_TOTAL", "$50", true),
			},
			want: map[int][]string{1: {"ORDER1_TOTAL"}},
		},
		{
			name: "bucket with no visible element dropped",
			elements: []annotation.Element{
				el("ORDER1_ID", "A100", false),
				el("ORDER2_ID", "A200", true),
			},
			want: map[int][]string{2: {"ORDER2_ID"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[int][]string{}
			for _, e := range Group(tt.elements, classify.KindOrder, nil) {
				for _, m := range e.Elements {
					got[e.Ordinal] = append(got[e.Ordinal], m.Key)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("groups = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupDuplicateAttributeLastWins(t *testing.T) {
	got := Group([]annotation.Element{
		el("PRODUCT3_PRICE", "10", true),
		el("PRODUCT3_NAME", "Lamp", true),
		el("PRODUCT3_PRICE", "12", true),
		el("PRODUCT3_QUANTITY", "", true),
	}, classify.KindProduct, nil)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if v, _ := got[0].Get("PRICE"); v.String() != "12" {
		t.Errorf("PRICE = %q, want 12", v)
	}
	if keys := got[0].Fields.Keys(); !reflect.DeepEqual(keys, []string{"PRICE", "NAME", "QUANTITY"}) {
		t.Errorf("attribute order = %v", keys)
	}
	if v, _ := got[0].Get("QUANTITY"); !v.IsEmpty() {
		t.Errorf("QUANTITY = %q, want empty sentinel", v)
	}
	if len(got[0].Elements) != 4 {
		t.Errorf("elements = %d, want 4", len(got[0].Elements))
	}
}

func TestMembers(t *testing.T) {
	elements := []annotation.Element{
		el("PRODUCT1_NAME", "A", true),
		el("PRODUCT12_NAME", "B", true),
		el("PRODUCT1_PRICE", "1", false),
	}
	got := Members(elements, classify.KindProduct, 1, nil)
	if len(got) != 1 || got[0].Key != "PRODUCT1_NAME" {
		t.Errorf("Members() = %+v, want only PRODUCT1_NAME", got)
	}
}
