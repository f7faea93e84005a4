// Package hocr implements generation and parsing of hOCR overlays, the
// HTML-based format used by OCR tools to attach bounding boxes to text.
//
// An overlay describes one screenshot as a single page. Every displayable
// unit of a rendered view becomes a content area whose id is the unit's
// display identifier, and every element backing the unit becomes a word
// carrying the element key, value and box. Any hOCR-aware viewer can draw
// the boxes; Parse reads an exported overlay back.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Area: Represents a content area with class 'ocr_carea'
// - Word: Represents a single word with class 'ocrx_word'
// - BoundingBox: Corner coordinates as used by the hOCR 'bbox' property
//
// Main Functions:
//
// - Generate: Renders the object model to hOCR HTML using an embedded template
// - Parse: Parses hOCR HTML into the object model
// - ParseTitle: Splits an hOCR title attribute into its properties
package hocr
