package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	decor "github.com/hanpama/decograph/internal/decor"
	relation "github.com/hanpama/decograph/internal/relation"
)

// mapWrapper decorates map sources by copying them and stamping the computed
// metadata plus an optional tag. Child fields then resolve off the wrapped
// map through the mock runtime's map fallback.
type mapWrapper struct{ tag string }

func (w mapWrapper) Decorate(object any, meta decor.Metadata) any {
	src, _ := object.(map[string]any)
	out := make(map[string]any, len(src)+len(meta)+1)
	for k, v := range src {
		out[k] = v
	}
	for k, v := range meta {
		out[k] = v
	}
	if w.tag != "" {
		out["tag"] = w.tag
	}
	return out
}

func TestDecorate_WrapsResolvedValue(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { book: Book }
		type Book {
			title: String
			tag: String
		}
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWith(mapWrapper{tag: "deco"})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"title": "Dune"}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ book { title tag } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"book": map[string]any{"title": "Dune", "tag": "deco"}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_ChildrenResolveOffDecoratedSource(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { book: Book }
		type Book { summary: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWith(mapWrapper{tag: "deco"})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"title": "Dune"}),
		"Book.summary": func(_ context.Context, src any, _ map[string]any) (any, error) {
			m := src.(map[string]any)
			return m["title"].(string) + "/" + m["tag"].(string), nil
		},
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ book { summary } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"book": map[string]any{"summary": "Dune/deco"}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_MetadataBlockFeedsDecorator(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { book: Book }
		type Book { audience: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").
		DecorateWith(mapWrapper{}).
		Metadata(func(object any) decor.Metadata {
			return decor.Metadata{"audience": "kids"}
		})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ book { audience } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"book": map[string]any{"audience": "kids"}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_ScopedMetadata_PropagatesAcrossAsyncDepth(t *testing.T) {
	// Shelf declares scoped metadata and is itself undecorated; the async
	// boundary between shelf and book must carry the scope.
	sch := mustBuildSchema(t, `
		type Query { shelf: Shelf }
		type Shelf { book: Book @async }
		type Book { audience: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Shelf").ScopedMetadata(func(object any) decor.Metadata {
		return decor.Metadata{"audience": object.(map[string]any)["aud"]}
	})
	reg.Type("Book").DecorateWith(mapWrapper{})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.shelf": NewMockValueResolver(map[string]any{"aud": "adults"}),
		"Shelf.book":  NewMockValueResolver(map[string]any{}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ shelf { book { audience } } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"shelf": map[string]any{"book": map[string]any{"audience": "adults"}}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_ScopedMetadata_SiblingBranchesIsolated(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query {
			left: Shelf
			right: Shelf
		}
		type Shelf { book: Book }
		type Book { audience: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Shelf").ScopedMetadata(func(object any) decor.Metadata {
		return decor.Metadata{"audience": object.(map[string]any)["aud"]}
	})
	reg.Type("Book").DecorateWith(mapWrapper{})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.left":  NewMockValueResolver(map[string]any{"aud": "kids"}),
		"Query.right": NewMockValueResolver(map[string]any{"aud": "adults"}),
		"Shelf.book":  NewMockValueResolver(map[string]any{}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ left { book { audience } } right { book { audience } } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{
			"left":  map[string]any{"book": map[string]any{"audience": "kids"}},
			"right": map[string]any{"book": map[string]any{"audience": "adults"}},
		},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_ListField_DecoratesElementWise(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { books: [Book] }
		type Book {
			title: String
			tag: String
		}
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWith(mapWrapper{tag: "deco"})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.books": NewMockValueResolver([]any{
			map[string]any{"title": "a"},
			map[string]any{"title": "b"},
		}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ books { title tag } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"books": []any{
			map[string]any{"title": "a", "tag": "deco"},
			map[string]any{"title": "b", "tag": "deco"},
		}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_RelationField_DecoratesLazily(t *testing.T) {
	loads := 0
	rel := relation.New(func(ctx context.Context) ([]any, error) {
		loads++
		return []any{
			map[string]any{"title": "a"},
			map[string]any{"title": "b"},
		}, nil
	})

	sch := mustBuildSchema(t, `
		type Query { books: [Book] }
		type Book {
			title: String
			tag: String
		}
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWith(mapWrapper{tag: "deco"})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.books": NewMockValueResolver(rel),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ books { title tag } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"books": []any{
			map[string]any{"title": "a", "tag": "deco"},
			map[string]any{"title": "b", "tag": "deco"},
		}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	if loads != 1 {
		t.Fatalf("relation loaded %d times, want 1", loads)
	}
}

func TestDecorate_FailureIsLocatedError_NoRawFallback(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { book: Book }
		type Book { title: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWhenCtx(func(context.Context, any) (any, error) {
		return nil, errors.New("selector failed")
	})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"title": "Dune"}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ book { title } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"book": nil},
		Errors: []GraphQLError{{Message: "selector failed", Path: Path{"book"}}},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_AsyncFailure_NullifiesNonNullField(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { book: Book! @async }
		type Book { title: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWhenCtx(func(context.Context, any) (any, error) {
		return nil, errors.New("selector failed")
	})

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.book": NewMockValueResolver(map[string]any{"title": "Dune"}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(decor.NewInterceptor(reg)))
	doc := mustParseQuery(t, "{ book { title } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"book": nil},
		Errors: []GraphQLError{{Message: "selector failed", Path: Path{"book"}}},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorate_ObserverSeesEveryDecoration(t *testing.T) {
	sch := mustBuildSchema(t, `
		type Query { books: [Book] }
		type Book { title: String }
	`)
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWith(mapWrapper{})

	var seen []string
	in := decor.NewInterceptor(reg, decor.WithObserver(func(_ context.Context, e decor.Event) {
		seen = append(seen, e.TypeName)
	}))

	rt := NewMockRuntime(map[string]MockResolver{
		"Query.books": NewMockValueResolver([]any{
			map[string]any{"title": "a"},
			map[string]any{"title": "b"},
		}),
	})
	exec := NewExecutor(rt, sch, WithDecoration(in))
	doc := mustParseQuery(t, "{ books { title } }")

	exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := []string{"Book", "Book"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("observer events mismatch (-want +got):\n%s", diff)
	}
}
