package decor

// Metadata is the mapping handed to decorators and propagated down the
// resolution tree. Handlers must treat received maps as read-only.
type Metadata map[string]any

// Scope is the per-resolution-point snapshot of scoped metadata. Scopes are
// values: deriving a child scope never mutates the parent, so concurrent
// sibling resolutions branching from the same parent cannot observe each
// other's overrides.
type Scope struct {
	meta Metadata
}

// RootScope returns the scope for root fields: no inherited metadata.
func RootScope() Scope { return Scope{} }

// ScopedMetadata returns the metadata inherited from the nearest ancestor
// that declared a ScopedMetadata block. Empty when no ancestor did.
func (s Scope) ScopedMetadata() Metadata { return s.meta }

// with returns a scope carrying meta; the receiver is unchanged.
func (s Scope) with(meta Metadata) Scope { return Scope{meta: meta} }
