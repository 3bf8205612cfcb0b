package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// SubmitEvidence attaches pending evidence to an active report. Archived
// reports do not accept evidence.
func (s *Service) SubmitEvidence(ctx context.Context, input SubmitEvidenceInput) (*domain.Evidence, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.normalized()

	var ev domain.Evidence

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.reports.GetByID(ctx, input.ReportID); err != nil {
			return fmt.Errorf("get report: %w", err)
		}

		var err error
		ev, err = s.evidence.Create(ctx, domain.Evidence{
			ID:          uuid.New(),
			ReportID:    input.ReportID,
			Kind:        input.Kind,
			FilePath:    input.FilePath,
			Status:      domain.EvidenceStatusPending,
			SubmittedAt: s.clock(),
		})
		if err != nil {
			return fmt.Errorf("create evidence: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit evidence: %w", err)
	}

	s.log.InfoContext(ctx, "evidence submitted",
		slog.String("evidence_id", ev.ID.String()),
		slog.String("report_id", ev.ReportID.String()),
		slog.String("kind", ev.Kind.String()),
	)

	return &ev, nil
}
