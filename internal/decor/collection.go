package decor

import (
	"context"
	"fmt"
	"reflect"

	relation "github.com/hanpama/decograph/internal/relation"
)

// ElementMapper is the element-mapping operation a registered collection
// class must support: apply fn to every element in order and return a
// like-structured container of the results.
type ElementMapper interface {
	MapElements(ctx context.Context, fn func(any) (any, error)) (any, error)
}

// classification of a resolved value.
type classification int

const (
	single classification = iota
	collection
)

// classify decides whether a resolved value is a collection of decoratable
// items. Go slices (except byte slices) and *relation.Relation are built-in;
// further classes come from WithCollectionClasses. nil values and everything
// else are single. Pure; no side effects.
func (c *Config) classify(value any) classification {
	if value == nil {
		return single
	}
	if _, ok := value.(*relation.Relation); ok {
		return collection
	}
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		return collection
	}
	for _, ct := range c.collections {
		if t == ct {
			return collection
		}
	}
	return single
}

// mapElements maps fn over a collection value, preserving order and container
// shape. Slices map to []any (elements may decorate to differing types); all
// other collection classes must implement ElementMapper.
func (c *Config) mapElements(ctx context.Context, value any, fn func(any) (any, error)) (any, error) {
	if m, ok := value.(ElementMapper); ok {
		return m.MapElements(ctx, fn)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			mapped, err := fn(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = mapped
		}
		return out, nil
	}
	return nil, fmt.Errorf("decor: registered collection class %T does not support element mapping", value)
}
