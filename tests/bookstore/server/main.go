// Command server runs an in-memory bookstore GraphQL API demonstrating the
// decoration engine: decorated books render shelf-scoped price labels,
// featured authors are decorated conditionally, and list fields load through
// lazy relations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/hanpama/decograph/internal/decor"
	"github.com/hanpama/decograph/internal/eventbus"
	"github.com/hanpama/decograph/internal/executor"
	"github.com/hanpama/decograph/internal/otel"
	"github.com/hanpama/decograph/internal/relation"
	"github.com/hanpama/decograph/internal/schema"
	"github.com/hanpama/decograph/internal/server"
)

const sdl = `
schema {
	query: Query
	mutation: Mutation
}

type Query {
	book(id: ID!): Book
	books: [Book!] @async
	shelf(id: ID!): Shelf
	author(id: ID!): Author @async
}

type Mutation {
	addBook(input: BookInput!): Book
}

type Shelf {
	id: ID!
	name: String!
	currency: String!
	books: [Book!] @async
}

type Book {
	id: ID!
	title: String!
	price: Float!
	priceLabel: String!
	author: Author @async
}

type Author {
	id: ID!
	name: String!
	books: [Book!] @async
}

input BookInput {
	title: String!
	price: Float!
	authorId: ID
}
`

type book struct {
	ID       string
	Title    string
	Price    float64
	AuthorID string
}

type author struct {
	ID       string
	Name     string
	Featured bool
}

type shelf struct {
	ID       string
	Name     string
	Currency string
	BookIDs  []string
}

// decoratedBook presents a book with pricing metadata applied. The currency
// comes from the enclosing shelf's scoped metadata when present.
type decoratedBook struct {
	*book
	meta decor.Metadata
}

func (b *decoratedBook) priceLabel() string {
	currency, _ := b.meta["currency"].(string)
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", b.Price, currency)
}

type bookDecorator struct{}

func (bookDecorator) Decorate(object any, meta decor.Metadata) any {
	return &decoratedBook{book: object.(*book), meta: meta}
}

// featuredAuthor highlights authors picked by the store.
type featuredAuthor struct {
	*author
}

func (a *featuredAuthor) displayName() string { return "★ " + a.Name }

type featuredAuthorDecorator struct{}

func (featuredAuthorDecorator) Decorate(object any, _ decor.Metadata) any {
	return &featuredAuthor{author: object.(*author)}
}

func newRegistry() *decor.Registry {
	reg := decor.NewRegistry()
	reg.Type("Book").DecorateWith(bookDecorator{})
	reg.Type("Author").DecorateWhen(func(object any) any {
		if object.(*author).Featured {
			return featuredAuthorDecorator{}
		}
		return nil
	})
	reg.Type("Shelf").ScopedMetadata(func(object any) decor.Metadata {
		return decor.Metadata{"currency": object.(*shelf).Currency}
	})
	return reg
}

// store is the in-memory backing data.
type store struct {
	mu      sync.RWMutex
	books   map[string]*book
	authors map[string]*author
	shelves map[string]*shelf
	nextID  int
}

func newStore() *store {
	s := &store{
		books:   map[string]*book{},
		authors: map[string]*author{},
		shelves: map[string]*shelf{},
		nextID:  1,
	}
	s.seed()
	return s
}

func (s *store) seed() {
	s.authors["author-1"] = &author{ID: "author-1", Name: "Frank Herbert", Featured: true}
	s.authors["author-2"] = &author{ID: "author-2", Name: "Ursula K. Le Guin"}
	s.books["book-1"] = &book{ID: "book-1", Title: "Dune", Price: 12.5, AuthorID: "author-1"}
	s.books["book-2"] = &book{ID: "book-2", Title: "The Dispossessed", Price: 10, AuthorID: "author-2"}
	s.books["book-3"] = &book{ID: "book-3", Title: "Children of Dune", Price: 11, AuthorID: "author-1"}
	s.shelves["shelf-1"] = &shelf{ID: "shelf-1", Name: "Imports", Currency: "EUR", BookIDs: []string{"book-1", "book-2"}}
	s.shelves["shelf-2"] = &shelf{ID: "shelf-2", Name: "Domestic", Currency: "USD", BookIDs: []string{"book-3"}}
}

func (s *store) addBook(title string, price float64, authorID string) *book {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("book-%d", len(s.books)+s.nextID)
	s.nextID++
	b := &book{ID: id, Title: title, Price: price, AuthorID: authorID}
	s.books[id] = b
	return b
}

func (s *store) allBooks() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].(*book).ID < out[j].(*book).ID })
	return out
}

func (s *store) booksByIDs(ids []string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.books[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (s *store) booksByAuthor(authorID string) []any {
	var out []any
	for _, v := range s.allBooks() {
		if v.(*book).AuthorID == authorID {
			out = append(out, v)
		}
	}
	return out
}

// runtime adapts the store to the executor's Runtime interface. Sources reach
// it decorated, so field resolution type-switches over the wrapper types.
type runtime struct {
	store *store
}

func (r *runtime) ResolveSync(_ context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	switch objectType {
	case "Query":
		switch field {
		case "book":
			r.store.mu.RLock()
			defer r.store.mu.RUnlock()
			return r.store.books[args["id"].(string)], nil
		case "shelf":
			r.store.mu.RLock()
			defer r.store.mu.RUnlock()
			return r.store.shelves[args["id"].(string)], nil
		}
	case "Mutation":
		if field == "addBook" {
			input := args["input"].(map[string]any)
			title, _ := input["title"].(string)
			authorID, _ := input["authorId"].(string)
			return r.store.addBook(title, toFloat(input["price"]), authorID), nil
		}
	case "Shelf":
		sh := source.(*shelf)
		switch field {
		case "id":
			return sh.ID, nil
		case "name":
			return sh.Name, nil
		case "currency":
			return sh.Currency, nil
		}
	case "Book":
		b := source.(*decoratedBook)
		switch field {
		case "id":
			return b.ID, nil
		case "title":
			return b.Title, nil
		case "price":
			return b.Price, nil
		case "priceLabel":
			return b.priceLabel(), nil
		}
	case "Author":
		switch field {
		case "id":
			return authorOf(source).ID, nil
		case "name":
			if fa, ok := source.(*featuredAuthor); ok {
				return fa.displayName(), nil
			}
			return authorOf(source).Name, nil
		}
	}
	return nil, fmt.Errorf("unresolvable field %s.%s", objectType, field)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func authorOf(source any) *author {
	switch v := source.(type) {
	case *featuredAuthor:
		return v.author
	case *author:
		return v
	}
	return nil
}

func (r *runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	for i, task := range tasks {
		results[i] = r.resolveAsync(task)
	}
	return results
}

func (r *runtime) resolveAsync(task executor.AsyncResolveTask) executor.AsyncResolveResult {
	key := task.ObjectType + "." + task.Field
	switch key {
	case "Query.books":
		return executor.AsyncResolveResult{Value: relation.New(func(context.Context) ([]any, error) {
			return r.store.allBooks(), nil
		})}
	case "Query.author":
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
		return executor.AsyncResolveResult{Value: r.store.authors[task.Args["id"].(string)]}
	case "Shelf.books":
		ids := task.Source.(*shelf).BookIDs
		return executor.AsyncResolveResult{Value: relation.New(func(context.Context) ([]any, error) {
			return r.store.booksByIDs(ids), nil
		})}
	case "Book.author":
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
		return executor.AsyncResolveResult{Value: r.store.authors[task.Source.(*decoratedBook).AuthorID]}
	case "Author.books":
		id := authorOf(task.Source).ID
		return executor.AsyncResolveResult{Value: relation.New(func(context.Context) ([]any, error) {
			return r.store.booksByAuthor(id), nil
		})}
	}
	return executor.AsyncResolveResult{Error: fmt.Errorf("unresolvable async field %s", key)}
}

func (r *runtime) ResolveType(_ context.Context, abstractType string, _ any) (string, error) {
	return "", fmt.Errorf("no abstract types in schema, got %s", abstractType)
}

func (r *runtime) SerializeLeafValue(_ context.Context, _ string, value any) (any, error) {
	return value, nil
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	pretty := flag.Bool("pretty", false, "Pretty-print JSON responses")
	otelEndpoint := flag.String("otel.endpoint", "", "OTLP collector endpoint")
	otelService := flag.String("otel.service", "bookstore", "OpenTelemetry service name")
	flag.Parse()

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(*otelEndpoint, *otelService)
	if err != nil {
		log.Fatalf("otel setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sch, err := schema.BuildFromSDL(sdl)
	if err != nil {
		log.Fatalf("build schema: %v", err)
	}

	in := decor.NewInterceptor(newRegistry(), server.DecorationEvents())
	rt := &runtime{store: newStore()}

	opts := []server.Option{server.WithDecoration(in)}
	if *pretty {
		opts = append(opts, server.WithPretty())
	}
	h, err := server.New(rt, sch, opts...)
	if err != nil {
		log.Fatalf("server init: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)

	log.Printf("bookstore GraphQL server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
