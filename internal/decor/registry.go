package decor

import "fmt"

// Registry maps GraphQL type names to their decoration specs. It is built
// once at schema definition time and frozen before execution begins; lookups
// on a frozen registry are safe for concurrent use.
type Registry struct {
	specs  map[string]*TypeSpec
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: map[string]*TypeSpec{}}
}

// Type returns the spec for the named type, creating it if needed. It panics
// when called on a frozen registry: decoration is declared at setup time
// only.
func (r *Registry) Type(name string) *TypeSpec {
	if r.frozen {
		panic(fmt.Sprintf("decor: registry is frozen; cannot declare decoration for %q", name))
	}
	spec, ok := r.specs[name]
	if !ok {
		spec = &TypeSpec{typeName: name}
		r.specs[name] = spec
	}
	return spec
}

// Freeze marks the registry read-only and returns it.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Spec returns the spec registered for the named type, or nil.
func (r *Registry) Spec(name string) *TypeSpec {
	return r.specs[name]
}
