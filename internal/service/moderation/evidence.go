package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// VerifyEvidence moves pending evidence to verified and re-evaluates the
// evidence-pattern rule for the report's perpetrator in the same
// transaction. A non-nil Escalation is returned when the rule fired.
func (s *Service) VerifyEvidence(ctx context.Context, evidenceID uuid.UUID, adminID domain.AdminID) (*domain.Escalation, error) {
	if err := (DecisionInput{ID: evidenceID, AdminID: adminID}).Validate(); err != nil {
		return nil, err
	}

	var esc *domain.Escalation

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ev, err := s.evidence.GetByIDForUpdate(ctx, evidenceID)
		if err != nil {
			return fmt.Errorf("lock evidence: %w", err)
		}
		if !ev.IsPending() {
			return domain.NewInvalidStateError("evidence", evidenceID, ev.Status.String(), domain.EvidenceStatusPending.String())
		}

		if _, err := s.evidence.UpdateStatus(ctx, evidenceID, domain.EvidenceStatusVerified, adminID); err != nil {
			return fmt.Errorf("update evidence status: %w", err)
		}

		r, err := s.reports.GetByID(ctx, ev.ReportID)
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}

		esc, err = s.escalation.OnEvidenceVerified(ctx, r.PerpetratorID)
		if err != nil {
			return fmt.Errorf("evaluate evidence pattern: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify evidence %s: %w", evidenceID, err)
	}

	s.log.InfoContext(ctx, "evidence verified",
		slog.String("evidence_id", evidenceID.String()),
		slog.String("admin_id", adminID.String()),
		slog.Bool("escalated", esc != nil),
	)

	return esc, nil
}

// RejectEvidence moves pending evidence to the archive and deletes the
// active row. The parent report is left untouched.
func (s *Service) RejectEvidence(ctx context.Context, evidenceID uuid.UUID, adminID domain.AdminID, reason string) error {
	if err := (RejectInput{ID: evidenceID, AdminID: adminID, Reason: reason}).Validate(); err != nil {
		return err
	}
	reason = s.rejectReason(reason)

	var archived domain.ArchivedEvidence

	if s.cfg.TransactionalArchive {
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			if archived, err = s.archiveEvidence(ctx, evidenceID, adminID, reason); err != nil {
				return err
			}
			return s.removeEvidence(ctx, evidenceID)
		})
		if err != nil {
			return fmt.Errorf("reject evidence %s: %w", evidenceID, err)
		}
	} else {
		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			archived, err = s.archiveEvidence(ctx, evidenceID, adminID, reason)
			return err
		})
		if err != nil {
			return fmt.Errorf("reject evidence %s: %w", evidenceID, err)
		}

		if err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.removeEvidence(ctx, evidenceID)
		}); err != nil {
			s.log.ErrorContext(ctx, "evidence archived but active row not deleted",
				slog.String("evidence_id", evidenceID.String()),
				slog.String("archive_id", archived.ArchiveID.String()),
				slog.String("error", err.Error()),
			)
			return &domain.PartialArchiveError{
				Entity:    "evidence",
				ID:        evidenceID,
				ArchiveID: archived.ArchiveID,
				Err:       err,
			}
		}
	}

	s.log.InfoContext(ctx, "evidence rejected",
		slog.String("evidence_id", evidenceID.String()),
		slog.String("archive_id", archived.ArchiveID.String()),
		slog.String("admin_id", adminID.String()),
		slog.String("reason", reason),
	)

	return nil
}

func (s *Service) archiveEvidence(ctx context.Context, evidenceID uuid.UUID, adminID domain.AdminID, reason string) (domain.ArchivedEvidence, error) {
	ev, err := s.evidence.GetByIDForUpdate(ctx, evidenceID)
	if err != nil {
		return domain.ArchivedEvidence{}, fmt.Errorf("lock evidence: %w", err)
	}
	if !ev.IsPending() {
		return domain.ArchivedEvidence{}, domain.NewInvalidStateError("evidence", evidenceID, ev.Status.String(), domain.EvidenceStatusPending.String())
	}

	a, err := s.archive.CreateEvidence(ctx, domain.NewArchivedEvidence(ev, adminID, reason, s.clock()))
	if err != nil {
		return domain.ArchivedEvidence{}, fmt.Errorf("archive evidence: %w", err)
	}
	return a, nil
}

func (s *Service) removeEvidence(ctx context.Context, evidenceID uuid.UUID) error {
	if err := s.evidence.Delete(ctx, evidenceID); err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}
	return nil
}
