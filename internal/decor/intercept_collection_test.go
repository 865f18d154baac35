package decor

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	relation "github.com/hanpama/decograph/internal/relation"
)

func TestCollection_ElementWiseDecoration(t *testing.T) {
	reg := NewRegistry()
	reg.Type("Rect").DecorateWhen(func(o any) any {
		r := o.(*rect)
		if r.W == r.H {
			return class{"A"}
		}
		return class{"B"}
	})
	in := NewInterceptor(reg)

	items := []*rect{{W: 1, H: 1}, {W: 2, H: 2}, {W: 2, H: 3}}
	got, _ := interceptOne(t, in, "Rect", items, RootScope())

	classes := make([]string, 0, 3)
	for _, item := range got.([]any) {
		classes = append(classes, item.(wrapped).Class)
	}
	if diff := cmp.Diff([]string{"A", "A", "B"}, classes); diff != "" {
		t.Fatalf("element classes mismatch (-want +got):\n%s", diff)
	}
}

func TestCollection_MetadataPerElement(t *testing.T) {
	reg := NewRegistry()
	reg.Type("Rect").
		DecorateWith(class{"c"}).
		Metadata(func(o any) Metadata { return Metadata{"name": o.(*rect).Name} })
	in := NewInterceptor(reg)

	got, _ := interceptOne(t, in, "Rect", []*rect{{Name: "x"}, {Name: "y"}}, RootScope())
	out := got.([]any)
	if out[0].(wrapped).Meta["name"] != "x" || out[1].(wrapped).Meta["name"] != "y" {
		t.Fatalf("metadata must be computed per element, got %v", out)
	}
}

func TestCollection_EmptyPassesThrough(t *testing.T) {
	reg := NewRegistry()
	reg.Type("Rect").
		DecorateWith(class{"c"}).
		ScopedMetadata(func(any) Metadata { return Metadata{"never": true} })
	in := NewInterceptor(reg)

	parent := RootScope().with(Metadata{"a": 1})
	got, child := interceptOne(t, in, "Rect", []*rect{}, parent)
	if len(got.([]any)) != 0 {
		t.Fatalf("empty collection should stay empty, got %v", got)
	}
	// No element means no scoped block evaluation: the inherited scope stands.
	if diff := cmp.Diff(Metadata{"a": 1}, child.ScopedMetadata()); diff != "" {
		t.Fatalf("empty collection changed the scope (-want +got):\n%s", diff)
	}
}

func TestCollection_Relation(t *testing.T) {
	reg := NewRegistry()
	reg.Type("Rect").DecorateWith(class{"c"})
	in := NewInterceptor(reg)

	rel := relation.New(func(context.Context) ([]any, error) {
		return []any{&rect{Name: "a"}, &rect{Name: "b"}}, nil
	})
	got, _ := interceptOne(t, in, "Rect", rel, RootScope())

	mapped, ok := got.(*relation.Relation)
	if !ok {
		t.Fatalf("relation must decorate to a relation, got %T", got)
	}
	items, err := mapped.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(items) != 2 || items[0].(wrapped).Object.(*rect).Name != "a" {
		t.Fatalf("relation elements not decorated in order: %v", items)
	}
}

// boxSet is a custom container supporting element mapping.
type boxSet struct{ items []any }

func (b boxSet) MapElements(_ context.Context, fn func(any) (any, error)) (any, error) {
	out := make([]any, len(b.items))
	for i, item := range b.items {
		mapped, err := fn(item)
		if err != nil {
			return nil, err
		}
		out[i] = mapped
	}
	return boxSet{items: out}, nil
}

// brokenSet is registered as a collection class but cannot map elements.
type brokenSet struct{ items []any }

func TestCollection_CustomClasses(t *testing.T) {
	t.Run("Registered mapper is treated as collection", func(t *testing.T) {
		reg := NewRegistry()
		reg.Type("Rect").DecorateWith(class{"c"})
		in := NewInterceptor(reg, WithCollectionClasses(boxSet{}))

		got, _ := interceptOne(t, in, "Rect", boxSet{items: []any{&rect{Name: "a"}}}, RootScope())
		set, ok := got.(boxSet)
		if !ok {
			t.Fatalf("custom collection must keep its shape, got %T", got)
		}
		if set.items[0].(wrapped).Class != "c" {
			t.Fatalf("element not decorated: %v", set.items)
		}
	})

	t.Run("Unregistered container of same shape is single", func(t *testing.T) {
		reg := NewRegistry()
		reg.Type("Rect").DecorateWith(class{"c"})
		in := NewInterceptor(reg)

		got, _ := interceptOne(t, in, "Rect", boxSet{items: []any{&rect{}}}, RootScope())
		w, ok := got.(wrapped)
		if !ok {
			t.Fatalf("unregistered container should decorate as a single value, got %T", got)
		}
		if _, ok := w.Object.(boxSet); !ok {
			t.Fatalf("container itself should be the decorated object, got %T", w.Object)
		}
	})

	t.Run("Registered class without mapping fails clearly", func(t *testing.T) {
		reg := NewRegistry()
		reg.Type("Rect").DecorateWith(class{"c"})
		in := NewInterceptor(reg, WithCollectionClasses(brokenSet{}))

		_, _, err := in.Intercept(context.Background(), "Rect", brokenSet{items: []any{&rect{}}}, RootScope())
		if err == nil || !strings.Contains(err.Error(), "element mapping") {
			t.Fatalf("want element mapping error, got %v", err)
		}
	})

	t.Run("Byte slices are single values", func(t *testing.T) {
		reg := NewRegistry()
		reg.Type("Blob").DecorateWith(class{"c"})
		in := NewInterceptor(reg)

		got, _ := interceptOne(t, in, "Blob", []byte("raw"), RootScope())
		if _, ok := got.(wrapped); !ok {
			t.Fatalf("byte slice must decorate as single value, got %T", got)
		}
	})
}

func TestCollection_ScopeFromFirstElement(t *testing.T) {
	reg := NewRegistry()
	reg.Type("Rect").
		DecorateWith(class{"c"}).
		ScopedMetadata(func(o any) Metadata { return Metadata{"name": o.(*rect).Name} })
	in := NewInterceptor(reg)

	_, child := interceptOne(t, in, "Rect", []*rect{{Name: "first"}, {Name: "second"}}, RootScope())
	if diff := cmp.Diff(Metadata{"name": "first"}, child.ScopedMetadata()); diff != "" {
		t.Fatalf("collection scope must come from the first element (-want +got):\n%s", diff)
	}
}
