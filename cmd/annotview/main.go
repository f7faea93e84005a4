// annotview is a command-line tool for inspecting annotated e-commerce UI samples.
//
// It reads per-sample metadata documents (detected PII, order, cart, product and
// search elements with their bounding boxes), reconciles and groups them, and
// prints the resulting view in reading order together with the display identifier
// of every unit. Identifiers can be resolved back to their elements, and the view
// can be exported as an hOCR overlay or as JSON.
//
// Configuration:
//
// An optional YAML configuration file tunes the pipeline:
//
//	row_tolerance: 10
//	match_mode: exact          # or legacy-prefix
//	aliases:
//	  CART_COUNT: [CART_BADGE]
//	pii_categories:
//	  - category: Personal Info
//	    keywords: [name, dob]
//	log_level: info
//	log_format: text
//
// Usage:
//
//	annotview -metadata sample/metadata.json [options]
//	annotview -read-hocr overlay.hocr [-highlight id]
//
// Required flags:
//
//	-metadata string   Path to a metadata document (required if -metadatas is not defined)
//	-metadatas string  Comma separated list of metadata documents (required if -metadata is not defined)
//
// Options:
//
//	-config string       Path to the YAML configuration file
//	-index string        Path to the sample index JSON ({"samples": [...]})
//	-sample string       ID of the sample to render (default: the first)
//	-fill string         Fill state: full, partial or empty (default "full")
//	-annotations         Show annotated screenshots
//	-highlight string    Display identifier to resolve, or "all"
//
// Output options:
//
//	-hocr string        Path to save the hOCR overlay
//	-width float        Overlay page width (default: extent of the elements)
//	-height float       Overlay page height (default: extent of the elements)
//	-debug-view string  Path to save the rendered view as JSON
//
// Overlay inspection:
//
//	-read-hocr string   Path to an hOCR overlay to read back instead of rendering.
//	                    Lists its areas, or only the area named by -highlight.
//
// A sample's ID is the name of the directory holding its metadata.json, or the
// file name without extension for other names.
//
// Example:
//
//	annotview -metadata samples/amazon-checkout/metadata.json -highlight order-1
//	annotview -config annotview.yml -index samples/index.json -metadatas a/metadata.json,b/metadata.json -sample b -hocr b.hocr
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gardar/annotview/internal/logging"
	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
	"github.com/gardar/annotview/pkg/hocr"
	"github.com/gardar/annotview/pkg/reconcile"
	"github.com/gardar/annotview/pkg/session"
	"github.com/gardar/annotview/pkg/view"
)

type yamlRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type yamlConfig struct {
	RowTolerance  *float64            `yaml:"row_tolerance"`
	MatchMode     string              `yaml:"match_mode"`
	Aliases       map[string][]string `yaml:"aliases"`
	PIICategories []yamlRule          `yaml:"pii_categories"`
	LogLevel      string              `yaml:"log_level"`
	LogFormat     string              `yaml:"log_format"`
}

type logConfig struct {
	Level  logging.Level
	Format logging.Format
}

// loadConfig reads a YAML file and converts it to the view config. An empty
// path yields the defaults.
func loadConfig(path string) (view.Config, logConfig, error) {
	cfg := view.DefaultConfig()
	lc := logConfig{Level: logging.LevelInfo, Format: logging.FormatText}
	if path == "" {
		return cfg, lc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, lc, err
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return cfg, lc, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if yc.RowTolerance != nil {
		if *yc.RowTolerance <= 0 {
			return cfg, lc, fmt.Errorf("row_tolerance must be positive, got %v", *yc.RowTolerance)
		}
		cfg.RowTolerance = *yc.RowTolerance
	}
	mode, ok := reconcile.ParseMatchMode(yc.MatchMode)
	if !ok {
		return cfg, lc, fmt.Errorf("unknown match_mode %q", yc.MatchMode)
	}
	cfg.MatchMode = mode
	cfg.Aliases = yc.Aliases
	if len(yc.PIICategories) > 0 {
		cfg.PIIRules = nil
		for _, r := range yc.PIICategories {
			if r.Category == "" {
				return cfg, lc, fmt.Errorf("pii_categories entry without category")
			}
			cfg.PIIRules = append(cfg.PIIRules, classify.Rule{Category: classify.Category(r.Category), Keywords: r.Keywords})
		}
	}

	if lc.Level, err = logging.ParseLevel(yc.LogLevel); err != nil {
		return cfg, lc, err
	}
	if lc.Format, err = logging.ParseFormat(yc.LogFormat); err != nil {
		return cfg, lc, err
	}
	return cfg, lc, nil
}

// sampleIDFromPath derives a sample ID from a metadata document path
func sampleIDFromPath(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(base, "metadata.json") {
		if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
			return dir
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// buildSamples pairs metadata files with index entries. Without an index
// every file becomes a sample with all screenshot variants present.
func buildSamples(files session.Files, order []string, indexPath string) ([]annotation.Sample, error) {
	if indexPath == "" {
		samples := make([]annotation.Sample, 0, len(order))
		for _, id := range order {
			samples = append(samples, annotation.Sample{
				ID: id, DisplayName: id,
				HasFull: true, HasFullClean: true,
				HasPartial: true, HasPartialClean: true,
				HasEmpty: true, HasEmptyClean: true,
			})
		}
		return samples, nil
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, err
	}
	index, err := annotation.DecodeSampleIndex(data)
	if err != nil {
		return nil, err
	}
	var samples []annotation.Sample
	for _, s := range index {
		if _, ok := files[s.ID]; ok {
			samples = append(samples, s)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("none of the metadata files is listed in %s", indexPath)
	}
	return samples, nil
}

// extent returns the bottom-right corner of all elements in the view
func extent(v *view.View) (float64, float64) {
	var w, h float64
	for _, u := range v.All() {
		for _, el := range u.Elements {
			w = max(w, el.BBox.Right())
			h = max(h, el.BBox.Bottom())
		}
	}
	return w, h
}

func printView(s annotation.Sample, variant session.Variant, v *view.View) {
	name := s.DisplayName
	if name == "" {
		name = s.ID
	}
	fmt.Printf("Sample: %s\n", name)
	if s.Company != "" || s.PageType != "" {
		fmt.Printf("Company: %s  Page type: %s\n", s.Company, s.PageType)
	}
	if variant.Fallback {
		fmt.Printf("Variant: %s (requested variant unavailable)\n", variant)
	} else {
		fmt.Printf("Variant: %s\n", variant)
	}

	if v.Empty() {
		fmt.Println("No data in this sample")
		return
	}

	if n := v.Count(view.SectionPII); n > 0 {
		fmt.Printf("\n%d PII Fields\n", n)
		for _, g := range v.PII {
			fmt.Printf("  [%s]\n", g.Category)
			for _, u := range g.Fields {
				fmt.Printf("    %-32s %s: %s\n", u.ID, u.Key, u.Value)
			}
		}
	}

	sections := []struct {
		title   string
		section view.Section
	}{
		{"Order/Cart Fields", view.SectionOrderCart},
		{"Orders", view.SectionOrders},
		{"Search Fields", view.SectionSearch},
		{"Products", view.SectionProducts},
		{"Product Fields", view.SectionProductFields},
		{"Other Fields", view.SectionMisc},
	}
	for _, sec := range sections {
		units := v.Units(sec.section)
		if len(units) == 0 {
			continue
		}
		fmt.Printf("\n%d %s\n", len(units), sec.title)
		for _, u := range units {
			if u.IsEntity() {
				var attrs []string
				for _, a := range u.Attrs {
					attrs = append(attrs, fmt.Sprintf("%s=%s", a.Name, a.Value))
				}
				fmt.Printf("  %-32s %s: %s\n", u.ID, u.Label(), strings.Join(attrs, " "))
				continue
			}
			fmt.Printf("  %-32s %s: %s\n", u.ID, u.Key, u.Value)
		}
	}
}

func printHighlight(id string, els []annotation.Element) {
	if len(els) == 0 {
		fmt.Printf("%s: nothing to highlight\n", id)
		return
	}
	fmt.Printf("%s:\n", id)
	for _, el := range els {
		b := el.BBox
		fmt.Printf("  %-24s x=%g y=%g w=%g h=%g  %s\n", el.Key, b.X, b.Y, b.Width, b.Height, el.Val())
	}
}

// readOverlay loads an hOCR overlay such as the ones written with -hocr
func readOverlay(path string) (*hocr.HOCR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := hocr.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay %s: %w", path, err)
	}
	return &doc, nil
}

// printOverlay lists the areas of an overlay with their boxes and words.
// A non-empty id restricts the output to that area.
func printOverlay(w io.Writer, doc *hocr.HOCR, id string) {
	fmt.Fprintf(w, "Overlay: %s\n", doc.Title)
	if fill, ok := doc.Metadata[view.MetaFill]; ok {
		fmt.Fprintf(w, "Fill: %s, annotations: %s\n", fill, doc.Metadata[view.MetaAnnotations])
	}

	ids := doc.AreaIDs()
	if id != "" {
		if _, ok := doc.FindArea(id); !ok {
			fmt.Fprintf(w, "%s: nothing to highlight\n", id)
			return
		}
		ids = []string{id}
	}
	for _, aid := range ids {
		area, _ := doc.FindArea(aid)
		b := area.BBox
		fmt.Fprintf(w, "%-32s %-8s bbox %g %g %g %g\n", area.ID, area.Metadata[hocr.PropKind], b.X1, b.Y1, b.X2, b.Y2)
		for _, word := range area.Words {
			fmt.Fprintf(w, "  %-24s %s\n", word.Key(), word.Text)
		}
	}
	if id == "" {
		fmt.Fprintf(w, "\nText:\n%s", hocr.Text(doc))
	}
}

func main() {
	// Input flags
	metadataPath := flag.String("metadata", "", "Path to a metadata document (required if -metadatas not specified)")
	metadataPaths := flag.String("metadatas", "", "Comma-separated list of metadata documents (required if -metadata not specified)")
	configPath := flag.String("config", "", "Path to the config YAML file")
	indexPath := flag.String("index", "", "Path to the sample index JSON")
	sampleID := flag.String("sample", "", "ID of the sample to render (default: the first)")

	// Display state
	fillFlag := flag.String("fill", "full", "Fill state: full, partial or empty")
	annotations := flag.Bool("annotations", false, "Show annotated screenshots")
	highlightID := flag.String("highlight", "", "Display identifier to resolve, or \"all\"")

	// Output flags
	hocrPath := flag.String("hocr", "", "Path to save the hOCR overlay")
	width := flag.Float64("width", 0, "Overlay page width (default: extent of the elements)")
	height := flag.Float64("height", 0, "Overlay page height (default: extent of the elements)")
	debugViewPath := flag.String("debug-view", "", "Path to save the rendered view as JSON")
	readHOCRPath := flag.String("read-hocr", "", "Path to an hOCR overlay to read back instead of rendering")

	flag.Parse()

	if *readHOCRPath != "" {
		doc, err := readOverlay(*readHOCRPath)
		if err != nil {
			log.Fatalf("Failed to read hOCR overlay: %v", err)
		}
		printOverlay(os.Stdout, doc, *highlightID)
		return
	}

	if (*metadataPath == "" && *metadataPaths == "") || (*metadataPath != "" && *metadataPaths != "") {
		fmt.Fprintln(os.Stderr, "Error: Either -metadata or -metadatas flag must be provided (but not both)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fill, err := annotation.ParseFillState(*fillFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, lc, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(os.Stderr, lc.Level, lc.Format)

	// Register the metadata files by sample ID
	pathsList := []string{*metadataPath}
	if *metadataPaths != "" {
		pathsList = strings.Split(*metadataPaths, ",")
	}
	files := make(session.Files)
	var order []string
	for _, path := range pathsList {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		id := sampleIDFromPath(path)
		if _, dup := files[id]; dup {
			log.Fatalf("Two metadata files map to sample %q", id)
		}
		files[id] = path
		order = append(order, id)
	}
	if len(order) == 0 {
		log.Fatalf("No metadata files specified")
	}

	samples, err := buildSamples(files, order, *indexPath)
	if err != nil {
		log.Fatalf("Failed to build sample list: %v", err)
	}

	selected := 0
	if *sampleID != "" {
		selected = -1
		for i, s := range samples {
			if s.ID == *sampleID {
				selected = i
				break
			}
		}
		if selected < 0 {
			log.Fatalf("Sample %q not found", *sampleID)
		}
	}

	sess := session.New(samples, files, cfg.Options())
	ctx := context.Background()

	if *annotations {
		sess.ToggleAnnotations()
	}
	if _, err := sess.Select(ctx, selected); err != nil {
		log.Fatalf("Failed to load sample: %v", err)
	}
	if fill != sess.Fill() {
		if _, err := sess.SetFill(fill); err != nil {
			fmt.Printf("Warning: %v, showing %s instead\n", err, sess.Fill())
		}
	}

	sample, v, _ := sess.Current()
	variant, ok := sess.Variant()
	if !ok {
		fmt.Println("Warning: no screenshot variant available for this sample")
	}
	printView(sample, variant, v)

	// Resolve highlights if flag is provided.
	if *highlightID != "" {
		fmt.Println()
		if *highlightID == "all" {
			for range v.IDs() {
				id, els := sess.Step(1)
				printHighlight(id, els)
			}
		} else {
			printHighlight(*highlightID, sess.Highlight(*highlightID))
		}
	}

	// Write hOCR overlay if flag is provided.
	if *hocrPath != "" {
		w, h := *width, *height
		if w <= 0 || h <= 0 {
			ew, eh := extent(v)
			if w <= 0 {
				w = ew
			}
			if h <= 0 {
				h = eh
			}
		}
		doc := view.Overlay(v, w, h)
		doc.Pages[0].ImageName = sample.ID + ".png"
		doc.Title = fmt.Sprintf("%s (%s)", sample.ID, variant)
		html, err := hocr.Generate(doc)
		if err != nil {
			log.Fatalf("Failed to generate hOCR overlay: %v", err)
		}
		if err := os.WriteFile(*hocrPath, []byte(html), 0644); err != nil {
			log.Fatalf("Failed to write hOCR overlay: %v", err)
		}
		fmt.Println("hOCR overlay saved to:", *hocrPath)
	}

	// Write view JSON if flag is provided.
	if *debugViewPath != "" {
		viewJSON, err := view.ToJSON(v)
		if err != nil {
			log.Fatalf("Failed to convert view to JSON: %v", err)
		}
		if err := os.WriteFile(*debugViewPath, []byte(viewJSON), 0644); err != nil {
			log.Fatalf("Failed to write view JSON: %v", err)
		}
		fmt.Println("View JSON saved to:", *debugViewPath)
	}
}
