package reqid

import (
	"context"
	"math/rand/v2"
)

type key struct{}

// NewContext derives a context carrying a fresh random request ID and
// returns both. The ID correlates events emitted during one request.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int64()
	return context.WithValue(parent, key{}, id), id
}

// FromContext reports the request ID stored in ctx, if any.
func FromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(key{})
	id, ok := v.(int64)
	return id, ok
}
