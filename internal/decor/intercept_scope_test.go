package decor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scopeRegistry declares a three-level chain A -> B -> C where A and B each
// seed scoped metadata and C only consumes it.
func scopeRegistry() *Registry {
	reg := NewRegistry()
	reg.Type("A").
		DecorateWith(class{"a"}).
		ScopedMetadata(func(any) Metadata { return Metadata{"a": 1} })
	reg.Type("B").
		DecorateWith(class{"b"}).
		ScopedMetadata(func(any) Metadata { return Metadata{"b": 2} })
	reg.Type("C").DecorateWith(class{"c"})
	return reg
}

func TestScope_ReplacementNotMerge(t *testing.T) {
	in := NewInterceptor(scopeRegistry())

	_, scopeA := interceptOne(t, in, "A", "objA", RootScope())
	_, scopeB := interceptOne(t, in, "B", "objB", scopeA)
	gotC, _ := interceptOne(t, in, "C", "objC", scopeB)

	// C sits below B which redefined the scope: it sees exactly B's mapping,
	// never a merge with A's.
	if diff := cmp.Diff(Metadata{"b": 2}, gotC.(wrapped).Meta); diff != "" {
		t.Fatalf("C metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestScope_InheritanceAcrossLevels(t *testing.T) {
	reg := NewRegistry()
	reg.Type("Root").
		DecorateWith(class{"root"}).
		ScopedMetadata(func(any) Metadata { return Metadata{"name": "x"} })
	for _, name := range []string{"L1", "L2", "Leaf"} {
		reg.Type(name).DecorateWith(class{name})
	}
	in := NewInterceptor(reg)

	_, scope := interceptOne(t, in, "Root", "r", RootScope())
	_, scope = interceptOne(t, in, "L1", "l1", scope)
	_, scope = interceptOne(t, in, "L2", "l2", scope)
	leaf, _ := interceptOne(t, in, "Leaf", "leaf", scope)

	if diff := cmp.Diff(Metadata{"name": "x"}, leaf.(wrapped).Meta); diff != "" {
		t.Fatalf("leaf three levels down lost the scope (-want +got):\n%s", diff)
	}
}

func TestScope_SiblingIsolation(t *testing.T) {
	in := NewInterceptor(scopeRegistry())

	_, parent := interceptOne(t, in, "A", "objA", RootScope())

	// Left sibling redefines the scope through B; right sibling only reads it.
	_, leftChild := interceptOne(t, in, "B", "left", parent)
	rightValue, rightChild := interceptOne(t, in, "C", "right", parent)

	if diff := cmp.Diff(Metadata{"b": 2}, leftChild.ScopedMetadata()); diff != "" {
		t.Fatalf("left child scope mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Metadata{"a": 1}, rightChild.ScopedMetadata()); diff != "" {
		t.Fatalf("right sibling observed left override (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Metadata{"a": 1}, rightValue.(wrapped).Meta); diff != "" {
		t.Fatalf("right sibling metadata mismatch (-want +got):\n%s", diff)
	}
	// The parent scope itself is untouched.
	if diff := cmp.Diff(Metadata{"a": 1}, parent.ScopedMetadata()); diff != "" {
		t.Fatalf("parent scope mutated (-want +got):\n%s", diff)
	}
}

func TestScope_UndecoratedTypeStillPropagates(t *testing.T) {
	reg := NewRegistry()
	// No DecorateWith/DecorateWhen: values pass through raw, but the scoped
	// block still seeds descendants.
	reg.Type("Bare").ScopedMetadata(func(any) Metadata { return Metadata{"seeded": true} })
	reg.Type("C").DecorateWith(class{"c"})
	in := NewInterceptor(reg)

	raw, scope := interceptOne(t, in, "Bare", "obj", RootScope())
	if raw != "obj" {
		t.Fatalf("undecorated type must return raw object, got %v", raw)
	}
	child, _ := interceptOne(t, in, "C", "child", scope)
	if diff := cmp.Diff(Metadata{"seeded": true}, child.(wrapped).Meta); diff != "" {
		t.Fatalf("scope not propagated through undecorated type (-want +got):\n%s", diff)
	}
}
