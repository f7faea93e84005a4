// Package session drives a viewer over a sample index: which sample is
// selected, which screenshot variant is shown, the current view and the
// highlight cursor.
//
// Loading is the only blocking step and happens outside the session lock.
// Every load is numbered; when loads overlap only the most recently started
// one is applied and the others return ErrSuperseded.
//
// Key Types:
//
// - Session: the viewer state for one sample index
// - Loader: fetches the metadata document of a sample
// - Variant: the screenshot to display
//
// Main Functions:
//
// - New: creates a session
// - Select, Navigate: load a sample and render it
// - SetFill, ToggleAnnotations, SetVisibility: change the display state and re-render
// - Highlight, Step, ClearHighlight: resolve display identifiers to elements
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gardar/annotview/internal/logging"
	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/highlight"
	"github.com/gardar/annotview/pkg/view"
)

// Session holds the viewer state. It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	samples []annotation.Sample
	loader  Loader
	opts    view.Options // Base render options; Fill and ShowAnnotations are owned by the session

	index     int // Selected sample, -1 before the first load
	fill      annotation.FillState
	annotated bool
	record    *annotation.Record
	view      *view.View
	digest    string
	renderID  string
	cursor    int    // Position in view.IDs(), -1 when nothing is highlighted
	gen       uint64 // Number of loads started
}

// New creates a session over samples. Nothing is loaded until Select or
// Navigate is called.
func New(samples []annotation.Sample, loader Loader, opts view.Options) *Session {
	return &Session{
		samples: samples,
		loader:  loader,
		opts:    opts,
		index:   -1,
		fill:    annotation.FillFull,
		cursor:  -1,
	}
}

// Samples returns the sample index.
func (s *Session) Samples() []annotation.Sample {
	return s.samples
}

// Select loads and renders the sample at index.
func (s *Session) Select(ctx context.Context, index int) (*view.View, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.samples) {
		s.mu.Unlock()
		return nil, fmt.Errorf("select %d of %d: %w", index, len(s.samples), ErrNoSample)
	}
	s.gen++
	gen := s.gen
	sample := s.samples[index]
	s.mu.Unlock()

	renderID := uuid.New().String()
	ctx = logging.WithRenderID(logging.WithSampleID(ctx, sample.ID), renderID)

	start := time.Now()
	rec, err := s.loader.Load(ctx, sample.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		logging.LoggerFromContext(ctx).Debug("discarding superseded load")
		return nil, ErrSuperseded
	}
	if err != nil {
		logging.LoadError(ctx, err)
		return nil, &LoadError{SampleID: sample.ID, Err: err}
	}

	s.index = index
	s.record = rec
	s.renderID = renderID
	s.fill = ChooseFill(sample, s.fill, s.annotated)
	s.render(ctx)

	logging.SampleLoaded(ctx, elementCount(rec), time.Since(start))
	return s.view, nil
}

// Navigate selects the sample delta positions away from the current one.
func (s *Session) Navigate(ctx context.Context, delta int) (*view.View, error) {
	s.mu.Lock()
	index := s.index + delta
	s.mu.Unlock()
	return s.Select(ctx, index)
}

// Current returns the selected sample and its view.
func (s *Session) Current() (annotation.Sample, *view.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return annotation.Sample{}, nil, false
	}
	return s.samples[s.index], s.view, true
}

// Fill returns the current fill state.
func (s *Session) Fill() annotation.FillState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fill
}

// ShowAnnotations reports whether annotated screenshots are shown.
func (s *Session) ShowAnnotations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotated
}

// Available returns the fill states selectable for the current sample.
func (s *Session) Available() []annotation.FillState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return nil
	}
	return Available(s.samples[s.index], s.annotated)
}

// SetFill switches the fill state. The current sample must have a
// screenshot for it.
func (s *Session) SetFill(fill annotation.FillState) (*view.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return nil, ErrNoSample
	}
	sample := s.samples[s.index]
	if !sample.Has(fill, s.annotated) {
		return nil, fmt.Errorf("%s has no %s: %w", sample.ID, Variant{Fill: fill, Annotated: s.annotated}, ErrVariantUnavailable)
	}
	s.fill = fill
	s.render(s.context())
	return s.view, nil
}

// ToggleAnnotations flips between annotated and clean screenshots. When the
// current fill state has no screenshot in the new mode the first available
// one is chosen.
func (s *Session) ToggleAnnotations() *view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotated = !s.annotated
	if s.index < 0 {
		return nil
	}
	s.fill = ChooseFill(s.samples[s.index], s.fill, s.annotated)
	s.render(s.context())
	return s.view
}

// SetVisibility replaces the predicate deciding which elements count as
// visible and re-renders. nil restores the elements' own flags.
func (s *Session) SetVisibility(visible annotation.VisibleFunc) *view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Visible = visible
	if s.index < 0 {
		return nil
	}
	s.render(s.context())
	return s.view
}

// Variant returns the screenshot to show for the current sample and state.
func (s *Session) Variant() (Variant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return Variant{}, false
	}
	v, ok := SelectVariant(s.samples[s.index], s.fill, s.annotated)
	if ok && v.Fallback {
		wanted := Variant{Fill: s.fill, Annotated: s.annotated}
		logging.VariantFallback(s.context(), wanted.String(), v.String())
	}
	return v, ok
}

// Highlight resolves id against the current record and moves the cursor
// to it. Unknown and stale identifiers return nil.
func (s *Session) Highlight(id string) []annotation.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return nil
	}
	s.cursor = -1
	for i, vid := range s.view.IDs() {
		if vid == id {
			s.cursor = i
			break
		}
	}
	return s.resolve(id)
}

// Step moves the highlight cursor by delta through the current view's
// identifiers, wrapping around at either end, and resolves the identifier
// it lands on.
func (s *Session) Step(delta int) (string, []annotation.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return "", nil
	}
	ids := s.view.IDs()
	if len(ids) == 0 {
		return "", nil
	}
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = len(ids) - 1
	} else if s.cursor >= len(ids) {
		s.cursor = 0
	}
	id := ids[s.cursor]
	return id, s.resolve(id)
}

// ClearHighlight resets the highlight cursor.
func (s *Session) ClearHighlight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = -1
}

// Cursor returns the highlighted identifier, if any.
func (s *Session) Cursor() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil || s.cursor < 0 {
		return "", false
	}
	ids := s.view.IDs()
	if s.cursor >= len(ids) {
		return "", false
	}
	return ids[s.cursor], true
}

// render recomputes the view. The cursor survives only when the new view
// is identical to the previous one. Callers hold s.mu.
func (s *Session) render(ctx context.Context) {
	opts := s.opts
	opts.Fill = s.fill
	opts.ShowAnnotations = s.annotated
	if opts.Logger == nil {
		opts.Logger = logging.LoggerFromContext(ctx)
	}

	v := view.Render(s.record, opts)
	digest, err := v.Digest()
	if err != nil {
		logging.LoggerFromContext(ctx).Warn("failed to fingerprint view", "error", err)
	}
	if err != nil || digest != s.digest {
		s.cursor = -1
	}
	s.view = v
	s.digest = digest
}

func (s *Session) resolve(id string) []annotation.Element {
	return highlight.Resolve(s.record, id, s.opts.HighlightOptions())
}

// context rebuilds the logging context of the current render. Callers hold s.mu.
func (s *Session) context() context.Context {
	ctx := context.Background()
	if s.index >= 0 {
		ctx = logging.WithSampleID(ctx, s.samples[s.index].ID)
	}
	if s.renderID != "" {
		ctx = logging.WithRenderID(ctx, s.renderID)
	}
	return ctx
}

func elementCount(rec *annotation.Record) int {
	if rec == nil {
		return 0
	}
	return len(rec.PIIElements) + len(rec.ProductElements) + len(rec.SearchElements)
}
