// Package executor implements a breadth-first, batch-friendly GraphQL
// executor with explicit runtime hooks for synchronous resolution, depth-wise
// batching of asynchronous work, abstract-type resolution, leaf
// serialization, and an optional decoration pipeline applied to every
// resolved value before completion.
//
// # Execution Model
//
// Execution proceeds level by level:
//   - Synchronous fields (schema.Field.Async == false) expand immediately via
//     Runtime.ResolveSync without adding batch depth.
//   - Asynchronous fields discovered while expanding a depth are queued and
//     resolved in a single call to Runtime.BatchResolveAsync per depth. The
//     runtime returns one result per task, in task order; results are
//     independent, so a failed task nullifies only its own field.
//   - Values complete per the GraphQL specification: lists element-wise with
//     index-aware paths, leafs through Runtime.SerializeLeafValue, abstract
//     types through Runtime.ResolveType, objects by collecting subfields.
//   - A Non-Null violation at a path nullifies the nearest nullable ancestor
//     (the top-level field for async results), records a located error, and
//     tombstones the subtree so queued tasks under it are dropped unresolved.
//
// # Decoration
//
// When an interceptor is installed via WithDecoration, every resolved field
// value passes through it after resolution and before value completion,
// keyed by the field's innermost named return type:
//
//	in := decor.NewInterceptor(registry)
//	exec := executor.NewExecutor(rt, sch, executor.WithDecoration(in))
//
// The decorated value is what completion and child resolution see: object
// fields resolve off the wrapper, list elements decorate element-wise, and
// *relation.Relation values decorate lazily without forcing an extra load.
// Each field also derives a child scope from its parent's scope; the scope
// rides along queued async tasks, so scoped metadata declared by an ancestor
// reaches descendants across batch depth boundaries. A decoration failure is
// a located field error subject to the same Non-Null propagation as a
// resolver error; the raw value is never surfaced in its place.
//
// # Errors and Partial Success
//
// Errors accumulate as located GraphQL errors (message plus path). Execution
// continues around failed fields wherever the schema's nullability allows,
// enabling partial responses within a single request and within a single
// async batch.
package executor
