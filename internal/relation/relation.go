// Package relation provides a lazy, ordered collection backed by a loader
// function. It stands in for the query-builder result sets data layers hand to
// resolvers: the loader runs at most once, on first materialization, and the
// collection supports order-preserving element mapping.
package relation

import (
	"context"
	"sync"
)

// Loader produces the relation's items. It is invoked at most once.
type Loader func(ctx context.Context) ([]any, error)

// Relation is a lazy ordered collection. The zero value is an empty
// materialized relation.
type Relation struct {
	load Loader

	mu     sync.Mutex
	loaded bool
	items  []any
	err    error
}

// New returns a Relation backed by the given loader.
func New(load Loader) *Relation {
	return &Relation{load: load}
}

// FromItems returns an already-materialized Relation.
func FromItems(items ...any) *Relation {
	return &Relation{loaded: true, items: items}
}

// All materializes and returns the relation's items in order. The loader runs
// once; subsequent calls return the memoized result. A load error is sticky.
func (r *Relation) All(ctx context.Context) ([]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		if r.load != nil {
			r.items, r.err = r.load(ctx)
		}
		r.loaded = true
	}
	return r.items, r.err
}

// MapElements applies fn to every item in order and returns a materialized
// Relation of the results, loading the receiver first if needed.
func (r *Relation) MapElements(ctx context.Context, fn func(any) (any, error)) (any, error) {
	items, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	mapped := make([]any, len(items))
	for i, item := range items {
		mapped[i], err = fn(item)
		if err != nil {
			return nil, err
		}
	}
	return FromItems(mapped...), nil
}
