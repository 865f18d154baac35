// Package decor implements value decoration for the GraphQL executor:
// resolved field values are transparently substituted with decorator
// wrappers, chosen per type, enriched with metadata that can propagate down
// the resolution tree.
//
// # Overview
//
// API types stay declarative; imperative presentation logic lives in separate
// decorator objects. At schema definition time each decoratable GraphQL type
// registers a TypeSpec describing how its instances get wrapped:
//
//	reg := decor.NewRegistry()
//	reg.Type("Product").
//		DecorateWith(ProductDecorator{}).
//		Metadata(func(o any) decor.Metadata { return decor.Metadata{"badge": "new"} })
//	reg.Type("Order").
//		DecorateWhen(func(o any) any {
//			if o.(*Order).Gift { return GiftOrderDecorator{} }
//			return OrderDecorator{}
//		}).
//		ScopedMetadata(func(o any) decor.Metadata {
//			return decor.Metadata{"currency": o.(*Order).Currency}
//		})
//	in := decor.NewInterceptor(reg)
//
// The executor calls Interceptor.Intercept with every raw resolved value. The
// interceptor classifies the value (single vs. collection), selects the
// decorator class (explicit DecorateWith wins over the DecorateWhen
// selector), computes the metadata payload, constructs the wrapper through
// the configured Strategy, and returns the scope the field's children resolve
// under.
//
// # Scoped metadata
//
// ScopedMetadata output replaces the inherited mapping wholesale for every
// descendant field until a descendant redefines it; it is never merged.
// Scopes are immutable values threaded along each root-to-leaf path of the
// resolution tree, so sibling subtrees branching off the same parent never
// observe each other's overrides, regardless of how the engine schedules
// them. When both Metadata and ScopedMetadata are declared on one type, the
// Metadata block wins for the type's own decoration while the ScopedMetadata
// output still seeds the children.
//
// # Collections
//
// Go slices and *relation.Relation are recognized collections out of the box;
// further container classes register through WithCollectionClasses and must
// implement ElementMapper. Collections decorate element-wise, in order,
// preserving container shape: class selection and metadata blocks are
// object-scoped, so a single collection may mix decorator classes.
//
// # Errors
//
// A type declaring neither DecorateWith nor DecorateWhen simply passes values
// through; that is configuration, not an error. Failures from user blocks and
// from the Strategy surface unmodified to the engine's field-error channel:
// no retries, no fallback to the raw value, no logging.
package decor
