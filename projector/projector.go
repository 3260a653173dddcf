// Package projector maps committed source rows into document fields.
// One strategy is registered per entity type; the registry is the only
// dispatch point, so an unregistered type surfaces as a distinguishable
// error instead of silently falling through.
package projector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skillstack/searchsync/document"
	"github.com/skillstack/searchsync/source"
)

// Fields holds the projected document fields for one source entity.
// Optional fields are empty strings / nil maps when absent. Keywords
// holds the flattened tier D keyword bag; projectors must not weight
// text beyond choosing which field it lands in.
type Fields struct {
	Slug        string
	Title       string
	Subtitle    string
	Summary     string
	Description string
	Tags        []string
	Keywords    []string
	Filters     document.Attrs
	Metadata    document.Attrs
	Media       document.Attrs
}

// Projector should be implemented by entity-specific strategies that
// map source rows into document fields.
type Projector interface {
	// Type returns the entity type tag the projector handles.
	Type() document.EntityType

	// Project maps the source row with the given id into document
	// fields. A nil Fields result with a nil error signals that the
	// row no longer exists or is not eligible for indexing; that is
	// the normal "entity gone" signal, not a failure.
	Project(id int64) (*Fields, error)

	// IDs returns an iterator over the primary keys of all live rows
	// of the projector's entity type, for use by full resyncs.
	IDs() (source.IDIterator, error)
}

// Registry maps entity type tags to their projector strategies. All
// strategies are registered at startup; look-ups after that are
// read-only and safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	projectors map[document.EntityType]Projector
}

// NewRegistry returns an empty projector registry.
func NewRegistry() *Registry {
	return &Registry{
		projectors: make(map[document.EntityType]Projector),
	}
}

// Register adds a projector strategy for its entity type. Registering
// two strategies for the same type is a configuration error.
func (r *Registry) Register(p Projector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.projectors[p.Type()]; dup {
		return fmt.Errorf(
			"register projector: another strategy already handles entity type %q",
			p.Type(),
		)
	}

	r.projectors[p.Type()] = p

	return nil
}

// Get returns the projector registered for the entity type tag.
func (r *Registry) Get(entityType document.EntityType) (Projector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.projectors[entityType]

	return p, exists
}

// Types returns the registered entity types in sorted order.
func (r *Registry) Types() []document.EntityType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]document.EntityType, 0, len(r.projectors))
	for entityType := range r.projectors {
		list = append(list, entityType)
	}

	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

	return list
}

// deref returns the pointed-to string or "" for nil.
func deref(v *string) string {
	if v == nil {
		return ""
	}

	return *v
}
