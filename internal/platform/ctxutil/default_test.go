package ctxutil

import (
	"context"
	"testing"
)

func TestDefault(t *testing.T) {
	var unset context.Context
	if Default(unset) == nil {
		t.Fatalf("Default(nil) returned nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if Default(ctx) != ctx {
		t.Fatalf("Default did not return the given context")
	}
}
