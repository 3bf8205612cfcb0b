package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// ValidateReport moves a pending report to validated. It has no effect on
// the perpetrator or the victim.
func (s *Service) ValidateReport(ctx context.Context, reportID uuid.UUID, adminID domain.AdminID) error {
	if err := (DecisionInput{ID: reportID, AdminID: adminID}).Validate(); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.reports.GetByIDForUpdate(ctx, reportID)
		if err != nil {
			return fmt.Errorf("lock report: %w", err)
		}
		if !r.IsPending() {
			return domain.NewInvalidStateError("report", reportID, r.Status.String(), domain.ReportStatusPending.String())
		}

		if _, err := s.reports.UpdateStatus(ctx, reportID, domain.ReportStatusValidated, adminID); err != nil {
			return fmt.Errorf("update report status: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("validate report %s: %w", reportID, err)
	}

	s.log.InfoContext(ctx, "report validated",
		slog.String("report_id", reportID.String()),
		slog.String("admin_id", adminID.String()),
	)

	return nil
}

// RejectReport moves a pending report, together with its evidence, to the
// archive and removes the active rows. Validated reports cannot be rejected.
func (s *Service) RejectReport(ctx context.Context, reportID uuid.UUID, adminID domain.AdminID, reason string) error {
	if err := (RejectInput{ID: reportID, AdminID: adminID, Reason: reason}).Validate(); err != nil {
		return err
	}
	reason = s.rejectReason(reason)

	var snap reportSnapshot

	if s.cfg.TransactionalArchive {
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			if snap, err = s.archiveReport(ctx, reportID, adminID, reason); err != nil {
				return err
			}
			return s.removeReport(ctx, snap)
		})
		if err != nil {
			return fmt.Errorf("reject report %s: %w", reportID, err)
		}
	} else {
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			snap, err = s.archiveReport(ctx, reportID, adminID, reason)
			return err
		})
		if err != nil {
			return fmt.Errorf("reject report %s: %w", reportID, err)
		}

		if err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.removeReport(ctx, snap)
		}); err != nil {
			s.log.ErrorContext(ctx, "report archived but active row not deleted",
				slog.String("report_id", reportID.String()),
				slog.String("archive_id", snap.report.ArchiveID.String()),
				slog.String("error", err.Error()),
			)
			return &domain.PartialArchiveError{
				Entity:    "report",
				ID:        reportID,
				ArchiveID: snap.report.ArchiveID,
				Err:       err,
			}
		}
	}

	s.log.InfoContext(ctx, "report rejected",
		slog.String("report_id", reportID.String()),
		slog.String("archive_id", snap.report.ArchiveID.String()),
		slog.Int("evidence_archived", len(snap.evidence)),
		slog.String("admin_id", adminID.String()),
		slog.String("reason", reason),
	)

	return nil
}

// reportSnapshot is what the archive phase wrote for one report.
type reportSnapshot struct {
	report   domain.ArchivedReport
	evidence []domain.ArchivedEvidence
}

// archiveReport locks the report, checks it is pending and writes archive
// copies of it and of its evidence.
func (s *Service) archiveReport(ctx context.Context, reportID uuid.UUID, adminID domain.AdminID, reason string) (reportSnapshot, error) {
	r, err := s.reports.GetByIDForUpdate(ctx, reportID)
	if err != nil {
		return reportSnapshot{}, fmt.Errorf("lock report: %w", err)
	}
	if !r.IsPending() {
		return reportSnapshot{}, domain.NewInvalidStateError("report", reportID, r.Status.String(), domain.ReportStatusPending.String())
	}

	evs, err := s.evidence.ListByReport(ctx, reportID)
	if err != nil {
		return reportSnapshot{}, fmt.Errorf("list evidence: %w", err)
	}

	now := s.clock()
	snap := reportSnapshot{}

	snap.report, err = s.archive.CreateReport(ctx, domain.NewArchivedReport(r, adminID, reason, now))
	if err != nil {
		return reportSnapshot{}, fmt.Errorf("archive report: %w", err)
	}

	for _, ev := range evs {
		a, err := s.archive.CreateEvidence(ctx, domain.NewArchivedEvidenceWithReport(ev, adminID, evidenceRejectPrefix+reason, now))
		if err != nil {
			return reportSnapshot{}, fmt.Errorf("archive evidence %s: %w", ev.ID, err)
		}
		snap.evidence = append(snap.evidence, a)
	}

	return snap, nil
}

// removeReport deletes the active rows the snapshot was taken from.
func (s *Service) removeReport(ctx context.Context, snap reportSnapshot) error {
	for _, a := range snap.evidence {
		if err := s.evidence.Delete(ctx, a.Original.ID); err != nil {
			return fmt.Errorf("delete evidence: %w", err)
		}
	}
	if err := s.reports.Delete(ctx, snap.report.Original.ID); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
