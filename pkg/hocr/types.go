package hocr

import "github.com/gardar/annotview/pkg/annotation"

// Title properties written by Generate and recognized by Parse.
const (
	PropBBox  = "bbox"
	PropImage = "image"
	PropKind  = "x_kind" // Unit kind of an area
	PropKey   = "x_key"  // Element key of a word
)

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // Additional <meta> entries
	Pages       []Page            // Pages in the document
}

// Page is one screenshot
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID        string            // Unique identifier
	ImageName string            // Source image filename
	BBox      BoundingBox       // Page coordinates
	Areas     []Area            // One area per displayed unit
	Metadata  map[string]string // Other page properties
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Area is one displayed unit
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID       string            // Display identifier of the unit
	BBox     BoundingBox       // Union of the word boxes
	Words    []Word            // Elements backing the unit
	Metadata map[string]string // Other area properties
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Word is one annotation element
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID       string            // Unique identifier
	Text     string            // Element value
	BBox     BoundingBox       // Element coordinates
	Metadata map[string]string // Other word properties, including the element key
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// Key returns the element key stored on the word.
func (w Word) Key() string { return w.Metadata[PropKey] }

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from the x1, y1, x2, y2 corner
// coordinates found in hOCR 'bbox' properties.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// FromBox converts an annotation box (origin and size) to corner form.
func FromBox(b annotation.BoundingBox) BoundingBox {
	return NewBoundingBox(b.X, b.Y, b.Right(), b.Bottom())
}

// Box converts back to origin and size.
func (b BoundingBox) Box() annotation.BoundingBox {
	return annotation.NewBoundingBox(b.X1, b.Y1, b.X2-b.X1, b.Y2-b.Y1)
}
