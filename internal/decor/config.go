package decor

import (
	"context"
	"fmt"
	"reflect"
)

// Decorator is the standard wrap-and-construct entry point the default
// strategy expects decorator classes to expose.
type Decorator interface {
	Decorate(object any, meta Metadata) any
}

// Strategy constructs a decorator instance from a class, the raw object, and
// the metadata computed for it. It must be deterministic and free of side
// effects beyond constructing the wrapper; failures propagate uncaught.
type Strategy func(class, object any, meta Metadata) (any, error)

// Event describes one completed decoration; see WithObserver.
type Event struct {
	TypeName string
	Class    any
	Object   any
}

// Observer receives an Event per decorated object (per element for
// collections). The context is the request context of the execution the
// decoration happened in.
type Observer func(ctx context.Context, e Event)

// Config is the process-wide decoration configuration: the construction
// strategy and the registry of recognized collection classes. It is assembled
// once through options and read-only during execution.
type Config struct {
	strategy    Strategy
	collections []reflect.Type
	observer    Observer
}

// Option configures an Interceptor.
type Option func(*Config)

// WithStrategy replaces the decoration strategy wholesale, for decorator
// conventions the default Decorator interface does not cover.
func WithStrategy(s Strategy) Option {
	return func(c *Config) { c.strategy = s }
}

// WithCollectionClasses registers additional container types, given as
// prototype values, to be treated as collections of decoratable items. Each
// registered type must implement ElementMapper; one that does not fails at
// its first decoration attempt.
func WithCollectionClasses(prototypes ...any) Option {
	return func(c *Config) {
		for _, p := range prototypes {
			c.collections = append(c.collections, reflect.TypeOf(p))
		}
	}
}

// WithObserver installs a hook called once per decorated object. The core
// itself does no logging; observability is the caller's concern.
func WithObserver(fn Observer) Option {
	return func(c *Config) { c.observer = fn }
}

// defaultStrategy calls the class's Decorator entry point.
func defaultStrategy(class, object any, meta Metadata) (any, error) {
	d, ok := class.(Decorator)
	if !ok {
		return nil, fmt.Errorf("decor: class %T does not implement Decorator and no custom strategy is configured", class)
	}
	return d.Decorate(object, meta), nil
}
