package decor

import "context"

// SelectorFunc picks the decorator class for an object, or nil for none.
// Returning an error fails the field's resolution.
type SelectorFunc func(ctx context.Context, object any) (any, error)

// MetadataFunc computes a metadata mapping for an object.
type MetadataFunc func(ctx context.Context, object any) (Metadata, error)

// TypeSpec describes whether and how instances of one GraphQL type get
// wrapped. Specs are assembled through Registry.Type at schema definition
// time and are read-only once the registry is frozen.
//
// At most one of the explicit class and the selector is consulted per
// resolution; the explicit class wins when both are declared.
type TypeSpec struct {
	typeName string

	class      any
	selector   SelectorFunc
	metadataFn MetadataFunc
	scopedFn   MetadataFunc
}

// TypeName returns the GraphQL type name this spec is registered under.
func (s *TypeSpec) TypeName() string { return s.typeName }

// DecorateWith declares the decorator class for every instance of the type.
// It takes precedence over any DecorateWhen selector.
func (s *TypeSpec) DecorateWith(class any) *TypeSpec {
	s.class = class
	return s
}

// DecorateWhen declares a per-object decorator class selector. The selector
// may return a different class per object, or nil to leave the object
// undecorated.
func (s *TypeSpec) DecorateWhen(fn func(object any) any) *TypeSpec {
	return s.DecorateWhenCtx(func(_ context.Context, object any) (any, error) {
		return fn(object), nil
	})
}

// DecorateWhenCtx is DecorateWhen for selectors that need the request context
// or can fail.
func (s *TypeSpec) DecorateWhenCtx(fn SelectorFunc) *TypeSpec {
	s.selector = fn
	return s
}

// Metadata declares a block producing metadata local to this type's own
// decoration. It takes precedence over inherited scoped metadata.
func (s *TypeSpec) Metadata(fn func(object any) Metadata) *TypeSpec {
	return s.MetadataCtx(func(_ context.Context, object any) (Metadata, error) {
		return fn(object), nil
	})
}

// MetadataCtx is Metadata for blocks that need the request context or can
// fail.
func (s *TypeSpec) MetadataCtx(fn MetadataFunc) *TypeSpec {
	s.metadataFn = fn
	return s
}

// ScopedMetadata declares a block whose output replaces, wholesale, the
// metadata inherited by every descendant field until a descendant redefines
// it. It also serves as this type's own metadata when no Metadata block is
// declared.
func (s *TypeSpec) ScopedMetadata(fn func(object any) Metadata) *TypeSpec {
	return s.ScopedMetadataCtx(func(_ context.Context, object any) (Metadata, error) {
		return fn(object), nil
	})
}

// ScopedMetadataCtx is ScopedMetadata for blocks that need the request
// context or can fail.
func (s *TypeSpec) ScopedMetadataCtx(fn MetadataFunc) *TypeSpec {
	s.scopedFn = fn
	return s
}
