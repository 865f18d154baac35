package decor

import "context"

// resolveMetadata computes the metadata for one object's own decoration and
// the scoped metadata its children inherit.
//
// A Metadata block produces this object's own metadata and nothing else. A
// ScopedMetadata block replaces the inherited mapping wholesale for children,
// and doubles as this object's own metadata when no Metadata block is
// declared. With neither block, children inherit the incoming mapping
// unchanged and the object's own metadata falls back to it when non-empty.
// Local and scoped metadata are independent sources, never merged.
func resolveMetadata(ctx context.Context, spec *TypeSpec, object any, inherited Metadata) (own, scopedForChildren Metadata, err error) {
	var local Metadata
	if spec.metadataFn != nil {
		local, err = spec.metadataFn(ctx, object)
		if err != nil {
			return nil, nil, err
		}
	}

	scoped := inherited
	if spec.scopedFn != nil {
		scoped, err = spec.scopedFn(ctx, object)
		if err != nil {
			return nil, nil, err
		}
	}

	switch {
	case spec.metadataFn != nil:
		own = local
	case len(scoped) > 0:
		own = scoped
	default:
		own = Metadata{}
	}
	return own, scoped, nil
}
