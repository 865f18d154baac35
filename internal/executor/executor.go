package executor

import (
	"context"
	"fmt"
	"reflect"

	decor "github.com/hanpama/decograph/internal/decor"
	language "github.com/hanpama/decograph/internal/language"
	relation "github.com/hanpama/decograph/internal/relation"
	schema "github.com/hanpama/decograph/internal/schema"
)

// Path locates a field in the response tree; elements are response names
// (string) and list indexes (int).
type Path []PathElement

type PathElement any

// Executor runs GraphQL operations against a schema and runtime, decorating
// resolved values through the configured interceptor.
type Executor struct {
	runtime     Runtime
	schema      *schema.Schema
	interceptor *decor.Interceptor
}

// Option configures an Executor.
type Option func(*Executor)

// WithDecoration installs the decoration interceptor. Without it, resolved
// values surface raw.
func WithDecoration(in *decor.Interceptor) Option {
	return func(e *Executor) { e.interceptor = in }
}

func NewExecutor(runtime Runtime, schema *schema.Schema, opts ...Option) *Executor {
	e := &Executor{runtime: runtime, schema: schema}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// execution holds the state of one operation execution.
type execution struct {
	runtime     Runtime
	schema      *schema.Schema
	interceptor *decor.Interceptor
	document    *language.QueryDocument
	variables   map[string]any
	ctx         context.Context
	errors      []GraphQLError
	// async tasks collected at the current depth
	pending []pendingTask
	// prefixes of paths nullified by Non-Null propagation (tombstones)
	nullified map[string]struct{}
}

// pendingTask is one queued async field resolution plus everything needed to
// complete it: the response location, return type, AST fields, and the scope
// the field resolves under.
type pendingTask struct {
	Task      AsyncResolveTask
	Path      Path
	FieldType *schema.TypeRef
	Fields    []*language.Field
	Scope     decor.Scope
}

// asyncPending marks a response slot whose value arrives with the next batch.
type asyncPending struct{}

// ExecuteRequest executes one operation from the document and returns the
// response data and any located errors.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	operation := getOperation(document, operationName)
	if operation == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: "operation not found"}}}
	}

	variables, err := coerceVariableValues(e.schema, operation, variableValues)
	if err != nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: err.Error()}}}
	}

	var rootType *schema.Type
	switch operation.Operation {
	case language.Query:
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	case language.Subscription:
		rootType = e.schema.GetSubscriptionType()
	default:
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("unsupported operation type: %s", operation.Operation)}}}
	}
	if rootType == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: fmt.Sprintf("root type not found for %s operation", operation.Operation)}}}
	}

	exec := &execution{
		runtime:     e.runtime,
		schema:      e.schema,
		interceptor: e.interceptor,
		document:    document,
		variables:   variables,
		ctx:         ctx,
		errors:      []GraphQLError{},
		nullified:   map[string]struct{}{},
	}

	responseRoot := make(map[string]any)
	rootResult := exec.executeSelectionSet(rootType, operation.SelectionSet, initialValue, Path{}, decor.RootScope())
	for k, v := range rootResult {
		responseRoot[k] = v
	}

	// Depth-wise batch loop: drain async tasks until none remain.
	for len(exec.pending) > 0 {
		tasks, results := exec.flushPending()
		for i, res := range results {
			exec.completeAsyncField(tasks[i], res, responseRoot)
		}
	}

	return &ExecutionResult{Data: responseRoot, Errors: exec.errors}
}

// executeSelectionSet expands a selection set over objectValue. Sync fields
// resolve immediately; async fields are queued for the next batch. Every
// field derives its own child scope from the shared parent scope.
func (exec *execution) executeSelectionSet(objectType *schema.Type, selectionSet language.SelectionSet, objectValue any, path Path, scope decor.Scope) map[string]any {
	groups := collectFields(exec, objectType, selectionSet)
	resultMap := make(map[string]any)

	for _, group := range groups.ordered() {
		fieldPath := appendPath(path, group.ResponseName)
		fieldResult := exec.executeFieldGroup(objectType, objectValue, group.Fields, fieldPath, scope)

		if group.Fields[0].Name == "__typename" {
			resultMap[group.ResponseName] = fieldResult
			continue
		}

		fieldDef := getFieldDefinition(objectType, group.Fields[0].Name)
		if fieldDef == nil {
			// unknown field; the error is already recorded
			continue
		}

		if schema.IsNonNull(fieldDef.Type) && isNullish(fieldResult) {
			if len(path) > 0 {
				return nil
			}
			resultMap[group.ResponseName] = nil
			continue
		}

		if isNullish(fieldResult) {
			resultMap[group.ResponseName] = nil
		} else {
			resultMap[group.ResponseName] = fieldResult
		}
	}

	return resultMap
}

func (exec *execution) executeFieldGroup(objectType *schema.Type, objectValue any, fields []*language.Field, path Path, scope decor.Scope) any {
	field := fields[0]

	if field.Name == "__typename" {
		return objectType.Name
	}

	fieldDef := getFieldDefinition(objectType, field.Name)
	if fieldDef == nil {
		exec.addError(fmt.Sprintf("Cannot query field '%s' on type '%s'", field.Name, objectType.Name), path)
		return nil
	}

	args := coerceArgumentValues(fieldDef, field.Arguments, exec.variables, exec, path)

	if fieldDef.Async {
		exec.pending = append(exec.pending, pendingTask{
			Task: AsyncResolveTask{
				ObjectType: objectType.Name,
				Field:      field.Name,
				Source:     objectValue,
				Args:       args,
			},
			Path:      path,
			FieldType: fieldDef.Type,
			Fields:    fields,
			Scope:     scope,
		})
		return asyncPending{}
	}

	raw, err := exec.runtime.ResolveSync(exec.ctx, objectType.Name, field.Name, objectValue, args)
	if err != nil {
		exec.addError(err.Error(), path)
		return nil
	}
	value, childScope, ok := exec.decorate(fieldDef.Type, raw, scope, path)
	if !ok {
		return nil
	}
	return exec.completeValue(fieldDef.Type, fields, value, path, childScope)
}

// decorate runs the interceptor over a raw resolved value. The returned scope
// is the one the field's children resolve under. A decoration failure is a
// located field error, never a silent fallback to the raw value.
func (exec *execution) decorate(fieldType *schema.TypeRef, value any, parent decor.Scope, path Path) (any, decor.Scope, bool) {
	if exec.interceptor == nil {
		return value, parent, true
	}
	decorated, childScope, err := exec.interceptor.Intercept(exec.ctx, schema.GetNamedType(fieldType), value, parent)
	if err != nil {
		exec.addError(err.Error(), path)
		return nil, parent, false
	}
	return decorated, childScope, true
}

// flushPending filters out tasks under nullified paths, clears the queue, and
// resolves the remainder in one batch.
func (exec *execution) flushPending() ([]pendingTask, []AsyncResolveResult) {
	live := make([]pendingTask, 0, len(exec.pending))
	for _, pt := range exec.pending {
		if exec.hasNullifiedPrefix(pt.Path) {
			continue
		}
		live = append(live, pt)
	}
	exec.pending = nil

	tasks := make([]AsyncResolveTask, len(live))
	for i, pt := range live {
		tasks[i] = pt.Task
	}
	return live, exec.runtime.BatchResolveAsync(exec.ctx, tasks)
}

// completeAsyncField decorates and completes one async result, honoring
// Non-Null propagation and tombstone pruning.
func (exec *execution) completeAsyncField(pt pendingTask, res AsyncResolveResult, responseRoot map[string]any) {
	path := pt.Path
	if exec.hasNullifiedPrefix(path) {
		return
	}

	if res.Error != nil {
		exec.addError(res.Error.Error(), path)
		exec.nullifyAt(path, pt.FieldType, responseRoot)
		return
	}

	value, childScope, ok := exec.decorate(pt.FieldType, res.Value, pt.Scope, path)
	if !ok {
		exec.nullifyAt(path, pt.FieldType, responseRoot)
		return
	}

	completed := exec.completeValue(pt.FieldType, pt.Fields, value, path, childScope)

	if schema.IsNonNull(pt.FieldType) && isNullish(completed) {
		top := topLevelFieldPath(path)
		setValueAtPath(responseRoot, top, nil)
		exec.markNullifiedPrefix(top)
		return
	}
	if isNullish(completed) {
		setValueAtPath(responseRoot, path, nil)
	} else {
		setValueAtPath(responseRoot, path, completed)
	}
}

// nullifyAt writes null for a failed field, propagating to the top-level
// field when the type is Non-Null.
func (exec *execution) nullifyAt(path Path, fieldType *schema.TypeRef, responseRoot map[string]any) {
	if schema.IsNonNull(fieldType) {
		top := topLevelFieldPath(path)
		setValueAtPath(responseRoot, top, nil)
		exec.markNullifiedPrefix(top)
		return
	}
	setValueAtPath(responseRoot, path, nil)
}

// completeValue completes a decorated value against its type, threading the
// field's child scope into object and list completion.
func (exec *execution) completeValue(fieldType *schema.TypeRef, fields []*language.Field, result any, path Path, scope decor.Scope) any {
	if schema.IsNonNull(fieldType) {
		if isNullish(result) {
			if !exec.hasErrorAtPath(path) {
				exec.addError(fmt.Sprintf("Cannot return null for non-nullable field %s", pathToString(path)), path)
			}
			return nil
		}
		completed := exec.completeValue(schema.Unwrap(fieldType), fields, result, path, scope)
		if isNullish(completed) {
			return nil
		}
		return completed
	}

	if isNullish(result) {
		return nil
	}

	if schema.IsList(fieldType) {
		return exec.completeListValue(fieldType, fields, result, path, scope)
	}

	namedType := schema.GetNamedType(fieldType)
	typeObj := exec.schema.Types[namedType]
	if typeObj == nil {
		exec.addError(fmt.Sprintf("Unknown type: %s", namedType), path)
		return nil
	}

	switch typeObj.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		serialized, err := exec.runtime.SerializeLeafValue(exec.ctx, namedType, result)
		if err != nil {
			exec.addError(err.Error(), path)
			return nil
		}
		return serialized
	case schema.TypeKindObject:
		return exec.completeObjectValue(typeObj, fields, result, path, scope)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return exec.completeAbstractValue(namedType, fields, result, path, scope)
	default:
		exec.addError(fmt.Sprintf("Cannot complete value of unexpected type: %s", typeObj.Kind), path)
		return nil
	}
}

func (exec *execution) completeListValue(listType *schema.TypeRef, fields []*language.Field, result any, path Path, scope decor.Scope) any {
	items, err := listItems(exec.ctx, result)
	if err != nil {
		exec.addError(err.Error(), path)
		return nil
	}

	inner := schema.Unwrap(listType)
	completed := make([]any, len(items))
	for i, item := range items {
		v := exec.completeValue(inner, fields, item, appendPath(path, i), scope)
		if schema.IsNonNull(inner) && isNullish(v) {
			return nil
		}
		completed[i] = v
	}
	return completed
}

// listItems extracts the elements of a list-typed result. Relations
// materialize here; other values must be slices.
func listItems(ctx context.Context, result any) ([]any, error) {
	switch v := result.(type) {
	case []any:
		return v, nil
	case *relation.Relation:
		return v.All(ctx)
	}
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("Expected list value, got %T", result)
	}
	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

func (exec *execution) completeObjectValue(objectType *schema.Type, fields []*language.Field, result any, path Path, scope decor.Scope) any {
	sub := mergeSelectionSets(fields)
	return exec.executeSelectionSet(objectType, sub, result, path, scope)
}

func (exec *execution) completeAbstractValue(abstractTypeName string, fields []*language.Field, result any, path Path, scope decor.Scope) any {
	typeName, err := exec.runtime.ResolveType(exec.ctx, abstractTypeName, result)
	if err != nil {
		exec.addError(err.Error(), path)
		return nil
	}
	objectType := exec.schema.Types[typeName]
	if objectType == nil || objectType.Kind != schema.TypeKindObject {
		exec.addError(fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", abstractTypeName, typeName), path)
		return nil
	}
	return exec.completeObjectValue(objectType, fields, result, path, scope)
}

// ----- path and error helpers -----

func pathToString(path Path) string {
	out := ""
	for i, elem := range path {
		if i > 0 {
			out += "."
		}
		switch v := elem.(type) {
		case string:
			out += v
		case int:
			out += fmt.Sprintf("[%d]", v)
		}
	}
	return out
}

func appendPath(path Path, elem PathElement) Path {
	next := make(Path, len(path)+1)
	copy(next, path)
	next[len(path)] = elem
	return next
}

func (exec *execution) markNullifiedPrefix(p Path) {
	if key := pathToString(p); key != "" {
		exec.nullified[key] = struct{}{}
	}
}

func (exec *execution) hasNullifiedPrefix(p Path) bool {
	if len(exec.nullified) == 0 {
		return false
	}
	cur := Path{}
	for _, elem := range p {
		cur = append(cur, elem)
		if _, ok := exec.nullified[pathToString(cur)]; ok {
			return true
		}
	}
	return false
}

func topLevelFieldPath(p Path) Path {
	for _, elem := range p {
		if name, ok := elem.(string); ok {
			return Path{name}
		}
	}
	return Path{}
}

func getOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName == "" && len(document.Operations) == 1 {
		for _, op := range document.Operations {
			return op
		}
	}
	for _, op := range document.Operations {
		if op.Name == operationName {
			return op
		}
	}
	return nil
}

func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return schema.NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return schema.NamedType(t.NamedType)
	}
	if t.Elem != nil {
		return schema.ListType(typeRefFromAST(t.Elem))
	}
	return nil
}

func (exec *execution) addError(message string, path Path) {
	exec.errors = append(exec.errors, GraphQLError{Message: message, Path: path})
}

func (exec *execution) hasErrorAtPath(path Path) bool {
	for _, err := range exec.errors {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

// setValueAtPath writes a completed value into the response tree.
func setValueAtPath(responseRoot map[string]any, path Path, value any) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		if key, ok := path[0].(string); ok {
			responseRoot[key] = value
		}
		return
	}
	current := any(responseRoot)
	for _, elem := range path[:len(path)-1] {
		switch e := elem.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return
			}
			next, exists := m[e]
			if !exists {
				next = make(map[string]any)
				m[e] = next
			}
			current = next
		case int:
			slice, ok := current.([]any)
			if !ok {
				return
			}
			for len(slice) <= e {
				slice = append(slice, nil)
			}
			if slice[e] == nil {
				slice[e] = make(map[string]any)
			}
			current = slice[e]
		}
	}
	switch last := path[len(path)-1].(type) {
	case string:
		if m, ok := current.(map[string]any); ok {
			m[last] = value
		}
	case int:
		if slice, ok := current.([]any); ok {
			for len(slice) <= last {
				slice = append(slice, nil)
			}
			slice[last] = value
		}
	}
}

func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

// isNullish reports nil interfaces and typed nils.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
