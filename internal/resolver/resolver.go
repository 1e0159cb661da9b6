// Package resolver maps host UI events to the configured candidate group of
// the field that received them.
package resolver

import (
	"github.com/mj1618/formfill/internal/model"
	"github.com/rs/zerolog"
)

// SystemUIPackage is the host shell package. Its events are never resolved.
const SystemUIPackage = "com.android.systemui"

// Index is the read side of the configuration store.
type Index interface {
	HasPackage(name string) bool
	FieldIDs() []string
	Group(fieldID string) []*model.Item
}

// Listener receives the outcome of a resolution.
type Listener interface {
	OnDataAvailable(node model.Node, kind Kind, items []*model.Item)
	OnDataNotAvailable(node model.Node)
}

// Result is the outcome of Resolve.
type Result int

const (
	// Ignored means no callback was made: the package is excluded or
	// undeclared, or the event has no source node.
	Ignored Result = iota
	Matched
	NotFound
)

func (r Result) String() string {
	switch r {
	case Matched:
		return "matched"
	case NotFound:
		return "not_found"
	default:
		return "ignored"
	}
}

// Options configure a Resolver.
type Options struct {
	// SelfPackage is the engine's own package name.
	SelfPackage string
	// SystemUIPackage overrides SystemUIPackage when set.
	SystemUIPackage string
}

// Resolver decides which field id group, if any, an event belongs to.
type Resolver struct {
	index    Index
	listener Listener
	opts     Options
	logger   zerolog.Logger
}

// New creates a Resolver reading from index.
func New(index Index, opts Options, logger zerolog.Logger) *Resolver {
	if opts.SystemUIPackage == "" {
		opts.SystemUIPackage = SystemUIPackage
	}
	return &Resolver{
		index:  index,
		opts:   opts,
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

// SetListener sets the listener notified about matches.
func (r *Resolver) SetListener(l Listener) {
	r.listener = l
}

// ViewID builds the fully qualified view id of a field in a package.
func ViewID(pkg, fieldID string) string {
	return pkg + ":id/" + fieldID
}

// Resolve looks up the candidate group for ev. Field ids are tried in
// declaration order; for each, the source node is tested first and then its
// descendants. The first hit wins.
func (r *Resolver) Resolve(ev Event) Result {
	if ev.PackageName == "" || ev.PackageName == r.opts.SelfPackage || ev.PackageName == r.opts.SystemUIPackage {
		return Ignored
	}
	if !r.index.HasPackage(ev.PackageName) {
		return Ignored
	}
	if ev.Source == nil {
		return Ignored
	}

	for _, fieldID := range r.index.FieldIDs() {
		target := ViewID(ev.PackageName, fieldID)
		if ev.Source.ViewID() == target {
			return r.matched(ev.Source, ev.Kind, fieldID)
		}
		if nodes := ev.Source.FindByViewID(target); len(nodes) > 0 {
			return r.matched(nodes[0], ev.Kind, fieldID)
		}
	}

	r.logger.Debug().
		Str("package", ev.PackageName).
		Str("view_id", ev.Source.ViewID()).
		Msg("No configuration for node")
	if r.listener != nil {
		r.listener.OnDataNotAvailable(ev.Source)
	}
	return NotFound
}

func (r *Resolver) matched(node model.Node, kind Kind, fieldID string) Result {
	items := r.index.Group(fieldID)
	r.logger.Debug().
		Str("field", fieldID).
		Stringer("kind", kind).
		Int("candidates", len(items)).
		Msg("Configuration found for node")
	if r.listener != nil {
		r.listener.OnDataAvailable(node, kind, items)
	}
	return Matched
}
