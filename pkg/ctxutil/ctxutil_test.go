package ctxutil

import (
	"context"
	"testing"
)

func TestWithOperationID_And_OperationIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithOperationID(context.Background(), "op-123")

	if got := OperationIDFromCtx(ctx); got != "op-123" {
		t.Errorf("OperationIDFromCtx = %q, want %q", got, "op-123")
	}
}

func TestOperationIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	if got := OperationIDFromCtx(context.Background()); got != "" {
		t.Errorf("OperationIDFromCtx on empty ctx = %q, want empty", got)
	}
}

func TestOperationIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), operationIDKey, 42)

	if got := OperationIDFromCtx(ctx); got != "" {
		t.Errorf("OperationIDFromCtx with wrong type = %q, want empty", got)
	}
}

func TestEnsureOperationID_KeepsExisting(t *testing.T) {
	t.Parallel()

	ctx := WithOperationID(context.Background(), "sweep-1")
	got, id := EnsureOperationID(ctx)

	if id != "sweep-1" {
		t.Errorf("EnsureOperationID id = %q, want sweep-1", id)
	}
	if got != ctx {
		t.Error("EnsureOperationID should return the same context when an ID is present")
	}
}

func TestEnsureOperationID_GeneratesFresh(t *testing.T) {
	t.Parallel()

	ctx, id := EnsureOperationID(context.Background())
	if id == "" {
		t.Fatal("EnsureOperationID returned empty id")
	}
	if OperationIDFromCtx(ctx) != id {
		t.Error("generated id is not stored in the context")
	}

	_, other := EnsureOperationID(context.Background())
	if other == id {
		t.Error("two fresh operation IDs should differ")
	}
}
