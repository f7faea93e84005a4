package view

import (
	"log/slog"

	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
	"github.com/gardar/annotview/pkg/highlight"
	"github.com/gardar/annotview/pkg/layout"
	"github.com/gardar/annotview/pkg/reconcile"
)

// Config holds the user-tunable rendering settings
type Config struct {
	RowTolerance float64             // Max vertical distance (px) of boxes on the same row
	MatchMode    reconcile.MatchMode // How flat order/cart/search keys match element keys
	Aliases      map[string][]string // Field key -> extra element keys
	PIIRules     []classify.Rule     // PII keyword rules in priority order
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		RowTolerance: layout.DefaultRowTolerance,
		MatchMode:    reconcile.MatchExact,
		Aliases:      nil,
		PIIRules:     classify.DefaultRules(),
	}
}

// Options builds render options from the config. The classifier is
// compiled here, so build Options once and reuse them across renders.
func (c Config) Options() Options {
	return Options{
		Matcher:      reconcile.Matcher{Mode: c.MatchMode, Aliases: c.Aliases},
		Classifier:   classify.NewClassifier(c.PIIRules),
		RowTolerance: c.RowTolerance,
	}
}

// Options are the explicit inputs of one render besides the record.
type Options struct {
	Fill            annotation.FillState   // Screenshot variant on display
	ShowAnnotations bool                   // Whether the annotated screenshot is shown
	Visible         annotation.VisibleFunc // nil means annotation.FlagVisible
	Matcher         reconcile.Matcher
	Classifier      *classify.Classifier // nil means classify.Default
	RowTolerance    float64              // <= 0 means layout.DefaultRowTolerance
	Logger          *slog.Logger         // Optional, receives one debug line per render
}

func (o Options) rowTolerance() float64 {
	if o.RowTolerance <= 0 {
		return layout.DefaultRowTolerance
	}
	return o.RowTolerance
}

func (o Options) classifier() *classify.Classifier {
	if o.Classifier == nil {
		return classify.Default
	}
	return o.Classifier
}

func (o Options) visible() annotation.VisibleFunc {
	if o.Visible == nil {
		return annotation.FlagVisible
	}
	return o.Visible
}

func (o Options) reconcileOptions() reconcile.Options {
	return reconcile.Options{Classifier: o.classifier(), Visible: o.visible()}
}

// HighlightOptions returns the options a highlight.Resolver needs to agree
// with views rendered from o.
func (o Options) HighlightOptions() highlight.Options {
	return highlight.Options{Reconcile: o.reconcileOptions(), Matcher: o.Matcher}
}
