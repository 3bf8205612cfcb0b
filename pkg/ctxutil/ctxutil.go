package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const operationIDKey ctxKey = "operation_id"

// WithOperationID stores the operation ID in the context.
// Every log line written with the context carries it.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDKey, id)
}

// OperationIDFromCtx extracts the operation ID from the context.
// Returns an empty string if absent.
func OperationIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(operationIDKey).(string)
	return id
}

// EnsureOperationID returns ctx unchanged when it already carries an
// operation ID, otherwise a child context with a fresh one.
func EnsureOperationID(ctx context.Context) (context.Context, string) {
	if id := OperationIDFromCtx(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return WithOperationID(ctx, id), id
}
