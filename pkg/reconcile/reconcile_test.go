package reconcile

import (
	"reflect"
	"testing"

	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
)

func el(key, value string, visible bool, x, y float64) annotation.Element {
	e := annotation.Element{Key: key, Visible: visible, BBox: annotation.NewBoundingBox(x, y, 10, 10)}
	if value != "" {
		e.Value = &value
	}
	return e
}

func keys(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func TestReconcileOverwritePrecedence(t *testing.T) {
	rec := &annotation.Record{
		DeclaredFields:  []string{"ORDER_TOTAL"},
		RawValues:       annotation.NewFieldMap("ORDER_TOTAL", "X"),
		ProductElements: []annotation.Element{el("ORDER_TOTAL", "Y", true, 0, 0)},
	}
	f, ok := Reconcile(rec, Options{}).Get(classify.KindOrder, "ORDER_TOTAL")
	if !ok {
		t.Fatal("ORDER_TOTAL missing")
	}
	if got := f.Value.String(); got != "Y" {
		t.Errorf("value = %q, want element value Y", got)
	}
}

func TestReconcilePIIEmptySuppression(t *testing.T) {
	tests := []struct {
		name      string
		elements  []annotation.Element
		wantValue string
		wantFound bool
	}{
		{
			name:      "no value and no element",
			wantFound: false,
		},
		{
			name:      "hidden element",
			elements:  []annotation.Element{el("PII_EMAIL", "z@z.z", false, 0, 0)},
			wantFound: false,
		},
		{
			name:      "visible element recovers value",
			elements:  []annotation.Element{el("PII_EMAIL", "Z", true, 0, 0)},
			wantValue: "Z",
			wantFound: true,
		},
		{
			name:      "visible element without value",
			elements:  []annotation.Element{el("PII_EMAIL", "", true, 0, 0)},
			wantValue: annotation.EmptySentinel,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &annotation.Record{
				DeclaredFields: []string{"PII_EMAIL"},
				RawValues:      annotation.NewFieldMap(),
				PIIElements:    tt.elements,
			}
			f, found := Reconcile(rec, Options{}).Get(classify.KindPII, "PII_EMAIL")
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && f.Value.String() != tt.wantValue {
				t.Errorf("value = %q, want %q", f.Value, tt.wantValue)
			}
			if found && f.Category != classify.CategoryContact {
				t.Errorf("category = %q, want Contact", f.Category)
			}
		})
	}
}

func TestReconcileSources(t *testing.T) {
	rec := &annotation.Record{
		DeclaredFields: []string{"SEED", "PII_FIRST_NAME", "ORDER_DATE", "CART_COUNT", "COUPON", "ORDER1_ID", "CART1_ITEM"},
		RawValues: annotation.NewFieldMap(
			"SEED", "42",
			"PII_FIRST_NAME", "Ada",
			"ORDER_DATE", "",
			"ORDER_STATUS", "shipped",
			"SEARCH_QUERY", "boots",
			"MISC_RAW", "ignored",
		),
		ProductElements: []annotation.Element{
			el("CART_COUNT", "3", true, 0, 0),
			el("ORDER1_ID", "A100", true, 0, 0),
			el("ORDER_STATUS", "", true, 0, 0),
			el("HEADER_SEARCH", "", true, 0, 0),
			el("SEARCH1_QUERY", "numbered", true, 0, 0),
			el("BANNER", "Sale", false, 0, 0),
			el("COUPON", "SAVE10", true, 0, 0),
		},
		SearchElements: []annotation.Element{
			el("SEARCH_QUERY", "shoes", true, 0, 0),
			el("SEARCH_FILTER", "", true, 0, 0),
		},
		PIIElements: []annotation.Element{
			el("PII_PHONE", "555", true, 0, 0),
			el("PII_FIRST_NAME", "Other", true, 0, 0),
			el("PII_ZIP", "123", false, 0, 0),
		},
	}

	fields := Reconcile(rec, Options{})

	tests := []struct {
		kind classify.Kind
		want []string
	}{
		{classify.KindPII, []string{"PII_FIRST_NAME", "PII_PHONE"}},
		{classify.KindOrder, []string{"ORDER_DATE", "ORDER_STATUS"}},
		{classify.KindCart, []string{"CART_COUNT", "CART1_ITEM"}},
		{classify.KindSearch, []string{"SEARCH_QUERY", "SEARCH_FILTER", "HEADER_SEARCH"}},
		{classify.KindMisc, []string{"COUPON", "BANNER"}},
		{classify.KindProduct, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := keys(fields.List(tt.kind)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("keys = %v, want %v", got, tt.want)
			}
		})
	}

	values := map[string]string{
		"PII_FIRST_NAME": "Ada",
		"PII_PHONE":      "555",
		"ORDER_DATE":     annotation.EmptySentinel,
		"ORDER_STATUS":   "shipped",
		"CART_COUNT":     "3",
		"SEARCH_QUERY":   "boots",
		"SEARCH_FILTER":  annotation.EmptySentinel,
		"HEADER_SEARCH":  annotation.EmptySentinel,
		"COUPON":         annotation.EmptySentinel,
		"BANNER":         "Sale",
	}
	for _, f := range fields.All() {
		if want, ok := values[f.Key]; ok && f.Value.String() != want {
			t.Errorf("%s = %q, want %q", f.Key, f.Value, want)
		}
	}
}

func TestReconcileProductListMisc(t *testing.T) {
	rec := &annotation.Record{
		ProductElements: []annotation.Element{
			el("PII_EMAIL", "a@b.c", true, 0, 0),
			el("ORDERX", "1", true, 0, 0),
			el("SEARCH1_Q", "q", true, 0, 0),
			el("PRODUCTS_TITLE", "All", true, 0, 0),
			el("FOOTER", "(c)", true, 0, 0),
		},
	}
	fields := Reconcile(rec, Options{})
	if got, want := keys(fields.List(classify.KindMisc)), []string{"PII_EMAIL", "FOOTER"}; !reflect.DeepEqual(got, want) {
		t.Errorf("misc keys = %v, want %v", got, want)
	}
	if n := fields.Len(classify.KindPII); n != 0 {
		t.Errorf("PII fields = %d, want 0", n)
	}
	f, ok := fields.Get(classify.KindMisc, "PII_EMAIL")
	if !ok {
		t.Fatal("PII_EMAIL missing from misc")
	}
	if got := Sources(rec, f, Matcher{}, nil); len(got) != 1 || got[0].Key != "PII_EMAIL" {
		t.Errorf("Sources(PII_EMAIL) = %+v, want the product element", got)
	}
}

func TestReconcileRawHeaderSearchIgnored(t *testing.T) {
	rec := &annotation.Record{
		RawValues: annotation.NewFieldMap("HEADER_SEARCH", "shoes", "SEARCH_TERM", "boots"),
	}
	if got, want := keys(Reconcile(rec, Options{}).List(classify.KindSearch)), []string{"SEARCH_TERM"}; !reflect.DeepEqual(got, want) {
		t.Errorf("search keys = %v, want %v", got, want)
	}
}

func TestReconcileNoDuplicateKeys(t *testing.T) {
	rec := &annotation.Record{
		DeclaredFields: []string{"ORDER_ID", "ORDER_ID", "SEARCH_QUERY"},
		RawValues:      annotation.NewFieldMap("ORDER_ID", "1"),
		ProductElements: []annotation.Element{
			el("ORDER_ID", "2", true, 0, 0),
			el("ORDER_ID", "3", true, 0, 0),
			el("SEARCH_QUERY", "x", true, 0, 0),
		},
		SearchElements: []annotation.Element{el("SEARCH_QUERY", "y", true, 0, 0)},
		PIIElements:    []annotation.Element{el("PII_NAME", "a", true, 0, 0), el("PII_NAME", "b", true, 0, 0)},
	}
	fields := Reconcile(rec, Options{})
	for _, kind := range sectionOrder {
		seen := map[string]bool{}
		for _, f := range fields.List(kind) {
			if seen[f.Key] {
				t.Errorf("duplicate key %s in %s", f.Key, kind)
			}
			seen[f.Key] = true
		}
	}
	// Last element wins among equal flat keys.
	if f, _ := fields.Get(classify.KindOrder, "ORDER_ID"); f.Value.String() != "3" {
		t.Errorf("ORDER_ID = %q, want 3", f.Value)
	}
	if f, _ := fields.Get(classify.KindPII, "PII_NAME"); f.Value.String() != "a" {
		t.Errorf("PII_NAME = %q, want first visible element value a", f.Value)
	}
}

func TestReconcileVisibleOption(t *testing.T) {
	rec := &annotation.Record{
		RawValues:   annotation.NewFieldMap(),
		PIIElements: []annotation.Element{el("PII_EMAIL", "a", false, 0, 0)},
	}
	all := func(annotation.Element) bool { return true }
	if Reconcile(rec, Options{Visible: all}).Len(classify.KindPII) != 1 {
		t.Error("custom visibility predicate not applied")
	}
}

func TestSources(t *testing.T) {
	rec := &annotation.Record{
		ProductElements: []annotation.Element{
			el("ORDER_TOTAL", "1", true, 0, 0),
			el("ORDERTOTAL_LABEL", "", true, 5, 5),
			el("ORDER_TOTAL", "1", false, 9, 9),
			el("ORDER_SUM", "", true, 7, 7),
			el("SEARCH_QUERY", "", true, 3, 3),
		},
		SearchElements: []annotation.Element{el("SEARCH_QUERY", "", true, 1, 1)},
	}
	field := Field{Key: "ORDER_TOTAL", Kind: classify.KindOrder}

	tests := []struct {
		name    string
		matcher Matcher
		want    []string
	}{
		{"exact", Matcher{}, []string{"ORDER_TOTAL"}},
		{"legacy prefix", Matcher{Mode: MatchLegacyPrefix}, []string{"ORDER_TOTAL", "ORDERTOTAL_LABEL"}},
		{"alias", Matcher{Aliases: map[string][]string{"ORDER_TOTAL": {"ORDER_SUM"}}}, []string{"ORDER_TOTAL", "ORDER_SUM"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sources(rec, field, tt.matcher, nil)
			var gotKeys []string
			for _, e := range got {
				gotKeys = append(gotKeys, e.Key)
			}
			if !reflect.DeepEqual(gotKeys, tt.want) {
				t.Errorf("Sources() keys = %v, want %v", gotKeys, tt.want)
			}
		})
	}

	search := Sources(rec, Field{Key: "SEARCH_QUERY", Kind: classify.KindSearch}, Matcher{}, nil)
	if len(search) != 2 || search[0].BBox.X != 1 || search[1].BBox.X != 3 {
		t.Errorf("search sources = %+v, want search list first then product list", search)
	}
}

func TestParseMatchMode(t *testing.T) {
	if m, ok := ParseMatchMode("Legacy-Prefix"); !ok || m != MatchLegacyPrefix {
		t.Errorf("ParseMatchMode(legacy-prefix) = %v, %v", m, ok)
	}
	if _, ok := ParseMatchMode("fuzzy"); ok {
		t.Error("ParseMatchMode(fuzzy) should fail")
	}
}
