package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

// Generate creates an hOCR HTML document from the HOCR struct
// Uses the embedded template to generate a complete HTML document
func Generate(doc *HOCR) (string, error) {
	tmpl, err := template.New("hocr.tmpl").Funcs(template.FuncMap{
		"esc": html.EscapeString,
		"pageTitle": func(p Page) string {
			props := copyProps(p.Metadata)
			if p.ImageName != "" {
				props[PropImage] = strconv.Quote(p.ImageName)
			}
			return FormatTitle(p.BBox, props)
		},
		"areaTitle": func(a Area) string { return FormatTitle(a.BBox, a.Metadata) },
		"wordTitle": func(w Word) string { return FormatTitle(w.BBox, w.Metadata) },
	}).ParseFS(templateFS, "templates/hocr.tmpl")
	if err != nil {
		return "", fmt.Errorf("error parsing hOCR template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}

	return buf.String(), nil
}

// FormatTitle builds an hOCR title attribute: the bbox first, then the
// remaining properties sorted by name.
// Example output: "bbox 100 200 300 400; x_key ORDER1_ID"
func FormatTitle(b BoundingBox, props map[string]string) string {
	parts := []string{strings.Join([]string{
		PropBBox, formatCoord(b.X1), formatCoord(b.Y1), formatCoord(b.X2), formatCoord(b.Y2),
	}, " ")}

	names := make([]string, 0, len(props))
	for name := range props {
		if name != PropBBox {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+" "+props[name])
	}
	return strings.Join(parts, "; ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func copyProps(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
