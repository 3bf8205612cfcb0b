package restore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// RestoreReport moves an archived report back into the active store under
// its original id and status. If the active row still exists (a collision
// left by an interrupted rejection) it is overwritten with the archived
// values. Evidence that was archived together with the report comes back
// with it. Everything happens in one transaction.
func (s *Service) RestoreReport(ctx context.Context, archiveID uuid.UUID) (Outcome, error) {
	if archiveID == uuid.Nil {
		return "", domain.NewValidationError("archive_id", "required")
	}

	var (
		outcome  Outcome
		reportID uuid.UUID
		cascaded int
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.archive.GetReportForUpdate(ctx, archiveID)
		if err != nil {
			return fmt.Errorf("lock archived report: %w", err)
		}
		reportID = a.Original.ID

		_, inserted, err := s.reports.Upsert(ctx, a.RestoredReport())
		if err != nil {
			return fmt.Errorf("upsert report: %w", err)
		}
		outcome = outcomeOf(inserted)

		if err := s.archive.DeleteReport(ctx, archiveID); err != nil {
			return fmt.Errorf("delete archived report: %w", err)
		}

		evs, err := s.archive.ListEvidenceByReport(ctx, reportID)
		if err != nil {
			return fmt.Errorf("list archived evidence: %w", err)
		}
		for _, ae := range evs {
			if !ae.WithReport {
				continue
			}
			if _, err := s.restoreEvidence(ctx, ae); err != nil {
				return err
			}
			cascaded++
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("restore report %s: %w", archiveID, err)
	}

	s.log.InfoContext(ctx, "report restored",
		slog.String("archive_id", archiveID.String()),
		slog.String("report_id", reportID.String()),
		slog.String("outcome", outcome.String()),
		slog.Int("evidence_restored", cascaded),
	)

	return outcome, nil
}

// RestoreEvidence moves archived evidence back into the active store. The
// parent report must be active; otherwise the call fails with ErrNotFound
// and nothing changes.
func (s *Service) RestoreEvidence(ctx context.Context, archiveID uuid.UUID) (Outcome, error) {
	if archiveID == uuid.Nil {
		return "", domain.NewValidationError("archive_id", "required")
	}

	var (
		outcome    Outcome
		evidenceID uuid.UUID
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.archive.GetEvidenceForUpdate(ctx, archiveID)
		if err != nil {
			return fmt.Errorf("lock archived evidence: %w", err)
		}
		evidenceID = a.Original.ID

		outcome, err = s.restoreEvidence(ctx, a)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("restore evidence %s: %w", archiveID, err)
	}

	s.log.InfoContext(ctx, "evidence restored",
		slog.String("archive_id", archiveID.String()),
		slog.String("evidence_id", evidenceID.String()),
		slog.String("outcome", outcome.String()),
	)

	return outcome, nil
}

func (s *Service) restoreEvidence(ctx context.Context, a domain.ArchivedEvidence) (Outcome, error) {
	_, inserted, err := s.evidence.Upsert(ctx, a.RestoredEvidence())
	if err != nil {
		return "", fmt.Errorf("upsert evidence %s: %w", a.Original.ID, err)
	}
	if err := s.archive.DeleteEvidence(ctx, a.ArchiveID); err != nil {
		return "", fmt.Errorf("delete archived evidence %s: %w", a.ArchiveID, err)
	}
	return outcomeOf(inserted), nil
}
