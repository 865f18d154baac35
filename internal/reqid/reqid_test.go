package reqid

import (
	"context"
	"testing"
)

func TestNewContextStoresID(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("id not found in derived context")
	}
	if got != id {
		t.Fatalf("FromContext returned %d, NewContext reported %d", got, id)
	}
}

func TestFromContextWithoutID(t *testing.T) {
	if id, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context yielded id %d", id)
	}
}

func TestIDsDifferAcrossRequests(t *testing.T) {
	_, a := NewContext(context.Background())
	_, b := NewContext(context.Background())
	if a == b {
		t.Fatalf("consecutive request ids collided: %d", a)
	}
}
