package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type document struct {
	DataJSON        json.RawMessage   `json:"data_json"`
	RequiredFields  []string          `json:"required_fields"`
	PIIElements     []json.RawMessage `json:"pii_elements"`
	ProductElements []json.RawMessage `json:"product_elements"`
	SearchElements  []json.RawMessage `json:"search_elements"`
}

type rawElement struct {
	Key     *string         `json:"key"`
	Value   json.RawMessage `json:"value"`
	Visible bool            `json:"visible"`
	BBox    *BoundingBox    `json:"bbox"`
}

// DecodeDocument parses a per-sample metadata document.
// Keys of data_json keep their document order. Every element must have a
// string key and a bbox; nothing else is validated.
func DecodeDocument(data []byte) (*Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Field: "document", Index: -1, Message: err.Error(), Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	raw, err := decodeOrderedObject(doc.DataJSON)
	if err != nil {
		return nil, &DecodeError{Field: "data_json", Index: -1, Message: err.Error()}
	}

	rec := &Record{
		DeclaredFields: doc.RequiredFields,
		RawValues:      raw,
	}
	if rec.PIIElements, err = decodeElements("pii_elements", doc.PIIElements); err != nil {
		return nil, err
	}
	if rec.ProductElements, err = decodeElements("product_elements", doc.ProductElements); err != nil {
		return nil, err
	}
	if rec.SearchElements, err = decodeElements("search_elements", doc.SearchElements); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeSampleIndex parses the sample index document ({"samples": [...]}).
func DecodeSampleIndex(data []byte) ([]Sample, error) {
	var idx struct {
		Samples []Sample `json:"samples"`
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &DecodeError{Field: "samples", Index: -1, Message: err.Error(), Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	for i, s := range idx.Samples {
		if s.ID == "" {
			return nil, &DecodeError{Field: "samples", Index: i, Message: "missing id"}
		}
	}
	return idx.Samples, nil
}

func decodeElements(field string, raws []json.RawMessage) ([]Element, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Element, 0, len(raws))
	for i, raw := range raws {
		var re rawElement
		if err := json.Unmarshal(raw, &re); err != nil {
			return nil, &DecodeError{Field: field, Index: i, Message: err.Error()}
		}
		if re.Key == nil {
			return nil, &DecodeError{Field: field, Index: i, Message: "missing key"}
		}
		if re.BBox == nil {
			return nil, &DecodeError{Field: field, Index: i, Message: "missing bbox"}
		}
		el := Element{Key: *re.Key, Visible: re.Visible, BBox: *re.BBox}
		if text, ok := scalarText(re.Value); ok {
			el.Value = &text
		}
		out = append(out, el)
	}
	return out, nil
}

// decodeOrderedObject reads a JSON object into a FieldMap, preserving key order.
// A missing or null object decodes to an empty map.
func decodeOrderedObject(data json.RawMessage) (*FieldMap, error) {
	m := NewFieldMap()
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return m, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		text, _ := scalarText(raw)
		m.Set(key, NewValue(text))
	}
	return m, nil
}

// scalarText renders a JSON value as display text. Strings are unquoted,
// numbers and booleans keep their literal form, objects and arrays are
// compacted. Null and missing values report false.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	if raw[0] == '{' || raw[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", false
		}
		return buf.String(), true
	}
	return string(raw), true
}
