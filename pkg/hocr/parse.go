package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Parse converts raw hOCR data into a structured HOCR object.
func Parse(data []byte) (HOCR, error) {
	var result HOCR
	result.Metadata = make(map[string]string)

	// Overlays are written as UTF-8; anything declaring another charset is
	// treated as ISO-8859-1, the common legacy hOCR encoding.
	decoded := data
	if enc := declaredCharset(data); enc != "" && enc != "utf-8" && enc != "utf8" {
		var err error
		decoded, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	extractDocumentMeta(&result, doc)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, Page{}.Class()) {
			result.Pages = append(result.Pages, processPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// declaredCharset returns the lower-cased charset named in the document
// head, or "" when there is none.
func declaredCharset(data []byte) string {
	const marker = "charset="
	content := string(data)
	start := strings.Index(content, marker)
	if start < 0 {
		return ""
	}
	rest := content[start+len(marker):]
	if len(rest) > 20 {
		rest = rest[:20]
	}
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == '/' || r == ' '
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_key ORDER1_ID"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)[PropBBox]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var c [4]float64
	for i := range c {
		v, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		c[i] = v
	}
	result := NewBoundingBox(c[0], c[1], c[2], c[3])
	return &result
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				result.Title = extractTextContent(n)
			case "meta":
				name := getAttrVal(n, "name")
				content := getAttrVal(n, "content")
				switch {
				case name == "" || content == "":
				case name == "description":
					result.Description = content
				case name == "dc.language":
					result.Language = content
				case name == "ocr-system" || name == "ocr-capabilities":
				default:
					result.Metadata[name] = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// processPage extracts page information and its areas
func processPage(n *html.Node) Page {
	page := Page{
		ID:       getAttrVal(n, "id"),
		Metadata: make(map[string]string),
	}

	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		page.BBox = *bbox
	}
	for k, v := range ParseTitle(title) {
		switch k {
		case PropBBox:
		case PropImage:
			page.ImageName = unquote(strings.Join(v, " "))
		default:
			page.Metadata[k] = strings.Join(v, " ")
		}
	}

	for _, areaNode := range collectByClass(n, Area{}.Class()) {
		page.Areas = append(page.Areas, processArea(areaNode))
	}
	return page
}

// processArea extracts area information and its words
func processArea(n *html.Node) Area {
	area := Area{
		ID:       getAttrVal(n, "id"),
		Metadata: make(map[string]string),
	}

	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		area.BBox = *bbox
	}
	for k, v := range ParseTitle(title) {
		if k != PropBBox {
			area.Metadata[k] = strings.Join(v, " ")
		}
	}

	for _, wordNode := range collectByClass(n, Word{}.Class()) {
		area.Words = append(area.Words, processWord(wordNode))
	}
	return area
}

// processWord extracts a word element's text and properties
func processWord(n *html.Node) Word {
	word := Word{
		ID:       getAttrVal(n, "id"),
		Text:     extractTextContent(n),
		Metadata: make(map[string]string),
	}

	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		word.BBox = *bbox
	}
	for k, v := range ParseTitle(title) {
		if k != PropBBox {
			word.Metadata[k] = strings.Join(v, " ")
		}
	}
	return word
}

// collectByClass returns the outermost descendants of n carrying class.
func collectByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, class) {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(b.String())
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}
