package executor

import "context"

// Runtime is the host integration surface for field resolution, abstract type
// resolution, and leaf-value serialization.
//
// Contract:
//   - The executor expands synchronous fields immediately via ResolveSync and
//     calls BatchResolveAsync once per execution depth with every async task
//     collected at that depth, in order. Results must come back one per task,
//     in task order; each result is independent, so partial success is
//     supported.
//   - When decoration is configured, the source value handed to child field
//     resolutions is the decorated value, not the raw resolver output.
//     Implementations that resolve fields off the source must accept the
//     decorator wrappers their schema declares.
//   - Errors returned from any method become located GraphQL errors; Non-Null
//     violations propagate per the GraphQL spec.
//   - Implementations should be stateless or concurrency-safe: the executor
//     may run multiple operations concurrently. Source and args values must
//     not be mutated.
type Runtime interface {
	// ResolveSync resolves a synchronous field immediately. Return (nil, nil)
	// for a GraphQL null on nullable fields.
	ResolveSync(ctx context.Context, objectType string, field string, source any, args map[string]any) (any, error)

	// BatchResolveAsync resolves one depth's async tasks. It must return
	// exactly one result per task, in task order, with per-element errors.
	BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult

	// ResolveType returns the concrete object type name for a value of an
	// abstract type (interface or union).
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue serializes a scalar or enum value to a JSON-safe Go
	// value. For enums, return the symbolic name as a string.
	SerializeLeafValue(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}

// AsyncResolveTask is one queued async field resolution.
type AsyncResolveTask struct {
	// ObjectType is the parent GraphQL object type name.
	ObjectType string
	// Field is the field name to resolve.
	Field string
	// Source is the parent object value (decorated when the parent type is
	// decorated; nil for root fields).
	Source any
	// Args are the coerced field arguments.
	Args map[string]any
}

// AsyncResolveResult is the outcome of one AsyncResolveTask.
type AsyncResolveResult struct {
	// Value is the raw resolved value prior to decoration and completion.
	Value any
	// Error is a failure specific to this task; other tasks in the batch are
	// unaffected.
	Error error
}
