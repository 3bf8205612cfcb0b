// Package batch runs per-item moderation operations with bounded
// concurrency. Items are independent: one failure never aborts the rest.
package batch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/incident-desk/internal/domain"
	"github.com/heartmarshall/incident-desk/pkg/ctxutil"
)

// Run applies fn to every id, at most limit at a time, and tallies the
// outcome. Failures are logged with their cause and listed in input order.
// A limit below 1 processes items one by one.
func Run(
	ctx context.Context,
	log *slog.Logger,
	op string,
	ids []uuid.UUID,
	limit int,
	fn func(ctx context.Context, id uuid.UUID) error,
) *domain.BatchResult {
	ctx, _ = ctxutil.EnsureOperationID(ctx)

	if limit < 1 {
		limit = 1
	}

	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.BatchResult{}
	for i, err := range errs {
		if err == nil {
			result.Succeeded++
			continue
		}
		result.Failed++
		result.Errors = append(result.Errors, domain.BatchError{ID: ids[i], Error: err.Error()})
		log.WarnContext(ctx, "batch item failed",
			slog.String("op", op),
			slog.String("id", ids[i].String()),
			slog.String("error", err.Error()),
		)
	}

	log.InfoContext(ctx, "batch completed",
		slog.String("op", op),
		slog.Int("total", len(ids)),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
	)

	return result
}

// CheckSize rejects batches larger than max. A max below 1 means unlimited.
func CheckSize(ids []uuid.UUID, max int) error {
	if max > 0 && len(ids) > max {
		return domain.NewValidationError("ids", "too many items in batch")
	}
	return nil
}
