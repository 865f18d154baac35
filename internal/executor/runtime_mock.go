package executor

import (
	"context"
	"fmt"
	"sync"
)

// MockResolver resolves a single field; MockRuntime adapts it for both sync
// and batched async calls in tests.
type MockResolver func(ctx context.Context, source any, args map[string]any) (any, error)

const (
	CallKindSync  = "sync"
	CallKindAsync = "async"
)

// NewMockValueResolver returns a MockResolver that always yields val.
func NewMockValueResolver(val any) MockResolver {
	return func(context.Context, any, map[string]any) (any, error) {
		return val, nil
	}
}

// NewMockErrorResolver returns a MockResolver that always fails with err.
func NewMockErrorResolver(err error) MockResolver {
	return func(context.Context, any, map[string]any) (any, error) {
		return nil, err
	}
}

// Call records one resolver invocation. Async calls in the same flush share a
// BatchID; sync calls have BatchID 0.
type Call struct {
	Kind       string
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
	BatchID    int
}

// MockRuntime implements Runtime over a resolver registry keyed by
// "ObjectType.Field". Fields without a registered resolver fall back to map
// lookup on the source value.
type MockRuntime struct {
	mu        sync.Mutex
	resolvers map[string]MockResolver
	calls     []Call
	batchSeq  int

	typeResolver func(value any) (string, error)
	serializer   func(typeName string, value any) (any, error)
}

// NewMockRuntime creates a MockRuntime with the provided resolvers, keyed by
// "ObjectType.Field".
func NewMockRuntime(resolvers map[string]MockResolver) *MockRuntime {
	m := &MockRuntime{resolvers: make(map[string]MockResolver)}
	for k, v := range resolvers {
		m.resolvers[k] = v
	}
	m.typeResolver = func(value any) (string, error) {
		if obj, ok := value.(map[string]any); ok {
			if typename, ok := obj["__typename"].(string); ok {
				return typename, nil
			}
		}
		return "", fmt.Errorf("cannot resolve type for %T", value)
	}
	m.serializer = func(_ string, value any) (any, error) { return value, nil }
	return m
}

// SetResolver registers or replaces a resolver.
func (m *MockRuntime) SetResolver(objectType, field string, resolver MockResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[objectType+"."+field] = resolver
}

// SetTypeResolver replaces the abstract type resolver.
func (m *MockRuntime) SetTypeResolver(f func(value any) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeResolver = f
}

// SetSerializer replaces the leaf serializer.
func (m *MockRuntime) SetSerializer(f func(typeName string, value any) (any, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serializer = f
}

// Calls returns a copy of the invocation log.
func (m *MockRuntime) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *MockRuntime) resolve(ctx context.Context, kind string, batchID int, task AsyncResolveTask) AsyncResolveResult {
	key := task.ObjectType + "." + task.Field

	m.mu.Lock()
	r := m.resolvers[key]
	m.calls = append(m.calls, Call{
		Kind:       kind,
		ObjectType: task.ObjectType,
		Field:      task.Field,
		Source:     task.Source,
		Args:       task.Args,
		BatchID:    batchID,
	})
	m.mu.Unlock()

	if r == nil {
		if obj, ok := task.Source.(map[string]any); ok {
			return AsyncResolveResult{Value: obj[task.Field]}
		}
		return AsyncResolveResult{}
	}
	val, err := r(ctx, task.Source, task.Args)
	return AsyncResolveResult{Value: val, Error: err}
}

func (m *MockRuntime) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	res := m.resolve(ctx, CallKindSync, 0, AsyncResolveTask{ObjectType: objectType, Field: field, Source: source, Args: args})
	return res.Value, res.Error
}

func (m *MockRuntime) BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult {
	if len(tasks) == 0 {
		return nil
	}
	m.mu.Lock()
	m.batchSeq++
	batchID := m.batchSeq
	m.mu.Unlock()

	results := make([]AsyncResolveResult, len(tasks))
	for i, task := range tasks {
		results[i] = m.resolve(ctx, CallKindAsync, batchID, task)
	}
	return results
}

func (m *MockRuntime) ResolveType(_ context.Context, _ string, value any) (string, error) {
	m.mu.Lock()
	f := m.typeResolver
	m.mu.Unlock()
	return f(value)
}

func (m *MockRuntime) SerializeLeafValue(_ context.Context, typeName string, value any) (any, error) {
	m.mu.Lock()
	f := m.serializer
	m.mu.Unlock()
	return f(typeName, value)
}
