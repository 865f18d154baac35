package decor

import (
	"context"
	"reflect"
)

// Interceptor applies decoration to every resolved field value and threads
// scoped metadata from ancestor fields to descendants. One interceptor serves
// a whole schema; it is safe for concurrent use once constructed.
type Interceptor struct {
	registry *Registry
	cfg      Config
}

// NewInterceptor builds an interceptor over a registry. The registry is
// frozen as a side effect: execution must not race with declaration.
func NewInterceptor(registry *Registry, opts ...Option) *Interceptor {
	cfg := Config{strategy: defaultStrategy}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Interceptor{registry: registry.Freeze(), cfg: cfg}
}

// Intercept processes one resolved field value. typeName is the field's
// declared (innermost named) return type, value the raw resolved value, and
// parent the scope the field resolves under. It returns the value to surface
// to the engine and the scope for this field's children.
//
// Absent values pass through untouched without invoking any block. Values of
// types with no registered spec pass through with the parent scope unchanged.
// Collections decorate element-wise: class selection and metadata blocks are
// object-scoped, so they run once per element; the children's scope is
// derived from the first element, and an empty collection leaves the
// inherited scope untouched.
func (in *Interceptor) Intercept(ctx context.Context, typeName string, value any, parent Scope) (any, Scope, error) {
	if isAbsent(value) {
		return value, parent, nil
	}
	spec := in.registry.Spec(typeName)
	if spec == nil {
		return value, parent, nil
	}

	if in.cfg.classify(value) == single {
		decorated, scoped, err := in.decorateOne(ctx, spec, value, parent.ScopedMetadata())
		if err != nil {
			return nil, parent, err
		}
		return decorated, parent.with(scoped), nil
	}

	scopedOut := parent.ScopedMetadata()
	first := true
	decorated, err := in.cfg.mapElements(ctx, value, func(el any) (any, error) {
		d, scoped, err := in.decorateOne(ctx, spec, el, parent.ScopedMetadata())
		if err != nil {
			return nil, err
		}
		if first {
			scopedOut = scoped
			first = false
		}
		return d, nil
	})
	if err != nil {
		return nil, parent, err
	}
	return decorated, parent.with(scopedOut), nil
}

// decorateOne resolves metadata and class for a single object and constructs
// the wrapper. An undecorated object still yields its scoped metadata.
func (in *Interceptor) decorateOne(ctx context.Context, spec *TypeSpec, object any, inherited Metadata) (any, Metadata, error) {
	own, scoped, err := resolveMetadata(ctx, spec, object, inherited)
	if err != nil {
		return nil, nil, err
	}
	class, err := resolveClass(ctx, spec, object)
	if err != nil {
		return nil, nil, err
	}
	if class == nil {
		return object, scoped, nil
	}
	decorated, err := in.cfg.strategy(class, object, own)
	if err != nil {
		return nil, nil, err
	}
	if in.cfg.observer != nil {
		in.cfg.observer(ctx, Event{TypeName: spec.typeName, Class: class, Object: object})
	}
	return decorated, scoped, nil
}

// isAbsent reports nil interfaces and typed nils.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
