package annotation

import (
	"errors"
	"reflect"
	"testing"
)

const sampleDoc = `{
  "data_json": {"PII_EMAIL": "a@b.com", "ORDER_TOTAL": 42.5, "CART_COUNT": null, "NOTE": "", "GIFT": true},
  "required_fields": ["SEED", "PII_EMAIL", "ORDER_TOTAL"],
  "pii_elements": [
    {"key": "PII_EMAIL", "value": "a@b.com", "visible": true, "bbox": {"x": 1, "y": 2, "width": 3, "height": 4}}
  ],
  "product_elements": [
    {"key": "PRODUCT1_PRICE", "value": 19.99, "visible": true, "bbox": {"x": 0, "y": 0, "width": 1, "height": 1}},
    {"key": "ORDER1_ID", "value": null, "visible": false, "bbox": {"x": 0, "y": 0, "width": 1, "height": 1}}
  ]
}`

func TestDecodeDocument(t *testing.T) {
	rec, err := DecodeDocument([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}

	wantKeys := []string{"PII_EMAIL", "ORDER_TOTAL", "CART_COUNT", "NOTE", "GIFT"}
	if got := rec.RawValues.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("raw keys = %v, want %v", got, wantKeys)
	}

	tests := []struct {
		key       string
		want      string
		wantEmpty bool
	}{
		{key: "PII_EMAIL", want: "a@b.com"},
		{key: "ORDER_TOTAL", want: "42.5"},
		{key: "GIFT", want: "true"},
		{key: "CART_COUNT", want: EmptySentinel, wantEmpty: true},
		{key: "NOTE", want: EmptySentinel, wantEmpty: true},
		{key: "MISSING", want: EmptySentinel, wantEmpty: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := rec.Raw(tt.key)
			if v.String() != tt.want || v.IsEmpty() != tt.wantEmpty {
				t.Errorf("Raw(%q) = %q (empty=%v), want %q (empty=%v)", tt.key, v, v.IsEmpty(), tt.want, tt.wantEmpty)
			}
		})
	}

	if len(rec.PIIElements) != 1 || !rec.PIIElements[0].Visible || rec.PIIElements[0].BBox.Height != 4 {
		t.Errorf("unexpected pii elements: %+v", rec.PIIElements)
	}
	if got := rec.ProductElements[0].Val().String(); got != "19.99" {
		t.Errorf("numeric element value = %q, want 19.99", got)
	}
	if rec.ProductElements[1].Value != nil || rec.ProductElements[1].HasValue() {
		t.Errorf("null element value decoded as %v", rec.ProductElements[1].Value)
	}
	if rec.SearchElements != nil {
		t.Errorf("missing search_elements decoded as %v", rec.SearchElements)
	}
	if !reflect.DeepEqual(rec.DeclaredFields, []string{"SEED", "PII_EMAIL", "ORDER_TOTAL"}) {
		t.Errorf("declared fields = %v", rec.DeclaredFields)
	}
}

func TestDecodeDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "not json",
			doc:     `{`,
			wantMsg: "decode document",
		},
		{
			name:    "missing key",
			doc:     `{"pii_elements": [{"visible": true, "bbox": {"x":0,"y":0,"width":1,"height":1}}]}`,
			wantMsg: "decode pii_elements[0]: missing key",
		},
		{
			name:    "missing bbox",
			doc:     `{"search_elements": [{"key": "SEARCH_QUERY", "visible": true}]}`,
			wantMsg: "decode search_elements[0]: missing bbox",
		},
		{
			name:    "data_json not object",
			doc:     `{"data_json": [1, 2]}`,
			wantMsg: "decode data_json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DecodeError", err)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
			if got := err.Error(); len(got) < len(tt.wantMsg) || got[:len(tt.wantMsg)] != tt.wantMsg {
				t.Errorf("Error() = %q, want prefix %q", got, tt.wantMsg)
			}
		})
	}
}

func TestDecodeSampleIndex(t *testing.T) {
	samples, err := DecodeSampleIndex([]byte(`{"samples": [{"id": "s1", "displayName": "One", "hasFull": true, "hasEmptyClean": true, "company": "acme", "pageType": "checkout"}]}`))
	if err != nil {
		t.Fatalf("DecodeSampleIndex() error = %v", err)
	}
	want := Sample{ID: "s1", DisplayName: "One", HasFull: true, HasEmptyClean: true, Company: "acme", PageType: "checkout"}
	if len(samples) != 1 || samples[0] != want {
		t.Errorf("samples = %+v, want [%+v]", samples, want)
	}

	if _, err := DecodeSampleIndex([]byte(`{"samples": [{"displayName": "x"}]}`)); !errors.Is(err, ErrMalformed) {
		t.Errorf("missing id error = %v, want ErrMalformed", err)
	}
}

func TestFieldMapOverwriteKeepsPosition(t *testing.T) {
	m := NewFieldMap("A", "1", "B", "2")
	m.Set("A", NewValue("3"))
	m.Set("C", Empty)
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Keys() = %v", got)
	}
	if v, _ := m.Get("A"); v.String() != "3" {
		t.Errorf("Get(A) = %v, want 3", v)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	got := NewBoundingBox(10, 10, 5, 5).Union(NewBoundingBox(0, 12, 4, 10))
	want := BoundingBox{X: 0, Y: 10, Width: 15, Height: 12}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}
