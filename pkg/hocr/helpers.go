package hocr

import (
	"strings"
)

// Text extracts all text from an hOCR document
// Each area becomes one line with its words separated by spaces,
// and pages are separated by a blank line
func Text(doc *HOCR) string {
	var builder strings.Builder

	for i, page := range doc.Pages {
		if i > 0 {
			builder.WriteString("\n")
		}
		for _, area := range page.Areas {
			extractAreaText(&builder, area)
		}
	}

	return builder.String()
}

// extractAreaText writes the words of an area as one line
func extractAreaText(builder *strings.Builder, area Area) {
	if len(area.Words) == 0 {
		return
	}
	for i, word := range area.Words {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(word.Text)
	}
	builder.WriteString("\n")
}

// FindArea returns the first area with the given id on any page.
func (doc *HOCR) FindArea(id string) (Area, bool) {
	for _, page := range doc.Pages {
		for _, area := range page.Areas {
			if area.ID == id {
				return area, true
			}
		}
	}
	return Area{}, false
}

// AreaIDs lists the area ids in document order.
func (doc *HOCR) AreaIDs() []string {
	var ids []string
	for _, page := range doc.Pages {
		for _, area := range page.Areas {
			ids = append(ids, area.ID)
		}
	}
	return ids
}
