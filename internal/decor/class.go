package decor

import "context"

// resolveClass picks the decorator class for one object. The explicit class
// wins unconditionally over the selector; with neither, the object passes
// through undecorated. Selector failures propagate to the caller: decoration
// must be deterministic, so a failing selector is a logic error, never a
// fallback to the raw value.
func resolveClass(ctx context.Context, spec *TypeSpec, object any) (any, error) {
	if spec.class != nil {
		return spec.class, nil
	}
	if spec.selector != nil {
		return spec.selector(ctx, object)
	}
	return nil, nil
}
