// Package annotation holds the data model of one annotated e-commerce UI sample.
//
// A sample is a screenshot plus a metadata document describing what was detected
// on it. The metadata mixes several loosely-structured sources:
//
// - data_json: a flat key/value map of the values that were filled into the page
// - required_fields: the ordered list of keys the page is expected to show
// - pii_elements, product_elements, search_elements: detected element lists,
// each element carrying a key, an optional value, a visibility flag and a box
//
// This package only decodes and models that data. It performs no classification
// or reconciliation; see the classify, reconcile and group packages for that.
//
// Key Types:
//
// - Element: one detected annotation instance tied to a screen region
// - BoundingBox: x/y/width/height rectangle in image pixels
// - Value: a scalar value or the empty sentinel
// - FieldMap: string-keyed map that keeps insertion order
// - Record: the decoded metadata of one sample
// - Sample: one entry of the sample index
// - FillState: full, partial or empty screenshot variant
//
// Main Functions:
//
// - DecodeDocument: parses a per-sample metadata document into a Record
// - DecodeSampleIndex: parses the sample index
package annotation
