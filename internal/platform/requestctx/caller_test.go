package requestctx

import (
	"context"
	"testing"
)

func TestCallerRoundTrip(t *testing.T) {
	ctx := WithCaller(context.Background(), Caller{UserID: "user-1", Admin: true})

	caller, ok := CallerFromContext(ctx)
	if !ok {
		t.Fatal("expected caller in context")
	}
	if caller.UserID != "user-1" {
		t.Fatalf("user id = %q, want user-1", caller.UserID)
	}
	if !caller.Admin {
		t.Fatal("expected admin flag preserved")
	}
}

func TestCallerFromEmptyContext(t *testing.T) {
	if _, ok := CallerFromContext(context.Background()); ok {
		t.Fatal("expected no caller in fresh context")
	}
	if _, ok := CallerFromContext(nil); ok {
		t.Fatal("expected no caller in nil context")
	}
}

func TestWithCallerNilContext(t *testing.T) {
	ctx := WithCaller(nil, Caller{UserID: "user-2"})
	caller, ok := CallerFromContext(ctx)
	if !ok || caller.UserID != "user-2" {
		t.Fatalf("caller = %+v ok=%v, want user-2", caller, ok)
	}
}
