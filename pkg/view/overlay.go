package view

import (
	"fmt"
	"strconv"

	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/hocr"
)

// Overlay metadata names written on the document head.
const (
	MetaFill        = "annotview-fill"
	MetaAnnotations = "annotview-annotations"
)

// Overlay converts the displayable units of v into a single-page hOCR
// document of the given image size. Each unit becomes an area whose id is
// its display identifier and whose box is the union of its element boxes;
// each element becomes a word.
func Overlay(v *View, width, height float64) *hocr.HOCR {
	doc := &hocr.HOCR{
		Title:    "annotation overlay",
		Language: "en",
		Metadata: map[string]string{
			MetaAnnotations: strconv.FormatBool(v.ShowAnnotations),
		},
	}
	if v.Fill != "" {
		doc.Metadata[MetaFill] = string(v.Fill)
	}

	page := hocr.Page{
		ID:       "page_1",
		BBox:     hocr.NewBoundingBox(0, 0, width, height),
		Metadata: make(map[string]string),
	}
	for ai, u := range v.All() {
		page.Areas = append(page.Areas, overlayArea(u, ai+1))
	}
	doc.Pages = []hocr.Page{page}
	return doc
}

func overlayArea(u Unit, n int) hocr.Area {
	area := hocr.Area{
		ID:       u.ID,
		Metadata: map[string]string{hocr.PropKind: u.Kind.String()},
	}
	var box annotation.BoundingBox
	for wi, el := range u.Elements {
		if wi == 0 {
			box = el.BBox
		} else {
			box = box.Union(el.BBox)
		}
		area.Words = append(area.Words, hocr.Word{
			ID:       fmt.Sprintf("word_%d_%d", n, wi+1),
			Text:     el.Val().String(),
			BBox:     hocr.FromBox(el.BBox),
			Metadata: map[string]string{hocr.PropKey: el.Key},
		})
	}
	area.BBox = hocr.FromBox(box)
	return area
}
