package highlight

import (
	"github.com/gardar/annotview/pkg/annotation"
	"github.com/gardar/annotview/pkg/classify"
	"github.com/gardar/annotview/pkg/group"
	"github.com/gardar/annotview/pkg/reconcile"
)

// Options carry the rules used to resolve identifiers. They must match the
// options the view was rendered with.
type Options struct {
	Reconcile reconcile.Options
	Matcher   reconcile.Matcher
}

// Resolver resolves identifiers against one record.
type Resolver struct {
	rec  *annotation.Record
	opts Options
}

// NewResolver creates a resolver for rec.
func NewResolver(rec *annotation.Record, opts Options) *Resolver {
	return &Resolver{rec: rec, opts: opts}
}

// Resolve returns the currently visible elements behind id, in encounter
// order. Unknown, malformed and stale identifiers yield nil.
func (r *Resolver) Resolve(id string) []annotation.Element {
	if r == nil || r.rec == nil {
		return nil
	}
	ref, ok := Parse(id)
	if !ok {
		return nil
	}
	visible := r.opts.Reconcile.Visible

	switch ref.Kind {
	case UnitOrder:
		return group.Members(r.rec.ProductElements, classify.KindOrder, ref.Ordinal, visible)
	case UnitProduct:
		return group.Members(r.rec.ProductElements, classify.KindProduct, ref.Ordinal, visible)
	}

	// pii ids come from pii_elements whatever the key looks like. A PII_
	// key on a field id can only come from product_elements, which files
	// it under misc.
	kind := classify.KindPII
	if ref.Kind == UnitField {
		kind = classify.Route(ref.Key)
		if kind == classify.KindPII {
			kind = classify.KindMisc
		}
	}

	f, ok := reconcile.Reconcile(r.rec, r.opts.Reconcile).Get(kind, ref.Key)
	if !ok {
		return nil
	}
	return reconcile.Sources(r.rec, f, r.opts.Matcher, visible)
}

// Resolve is a shorthand for NewResolver(rec, opts).Resolve(id).
func Resolve(rec *annotation.Record, id string, opts Options) []annotation.Element {
	return NewResolver(rec, opts).Resolve(id)
}
