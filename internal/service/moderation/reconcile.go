package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
	"github.com/heartmarshall/incident-desk/internal/service/batch"
)

// ReconcileResult tallies one reconciliation pass.
type ReconcileResult struct {
	Evidence domain.BatchResult
	Reports  domain.BatchResult
}

// Reconcile resolves entities present in both the active store and the
// archive, which only a failed two-phase rejection can produce. The archive
// copy wins: the active row is deleted. Evidence is resolved first so that
// the report pass only sees evidence that was never archived; such evidence
// is archived with the report's reason before the report row goes.
//
// Each item locks its archive row first. An item whose archive row is gone
// was restored after the collision list was read and is left alone.
func (s *Service) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult

	evColl, err := s.archive.ListEvidenceCollisions(ctx)
	if err != nil {
		return res, fmt.Errorf("reconcile: list evidence collisions: %w", err)
	}
	evByID := make(map[uuid.UUID]domain.ArchivedEvidence, len(evColl))
	evIDs := make([]uuid.UUID, 0, len(evColl))
	for _, a := range evColl {
		evByID[a.Original.ID] = a
		evIDs = append(evIDs, a.Original.ID)
	}

	res.Evidence = *batch.Run(ctx, s.log, "reconcile_evidence", evIDs, s.cfg.BatchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			return s.tx.RunInTx(ctx, func(ctx context.Context) error {
				return s.reconcileEvidence(ctx, evByID[id])
			})
		})

	repColl, err := s.archive.ListReportCollisions(ctx)
	if err != nil {
		return res, fmt.Errorf("reconcile: list report collisions: %w", err)
	}
	repByID := make(map[uuid.UUID]domain.ArchivedReport, len(repColl))
	repIDs := make([]uuid.UUID, 0, len(repColl))
	for _, a := range repColl {
		repByID[a.Original.ID] = a
		repIDs = append(repIDs, a.Original.ID)
	}

	res.Reports = *batch.Run(ctx, s.log, "reconcile_reports", repIDs, s.cfg.BatchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			return s.tx.RunInTx(ctx, func(ctx context.Context) error {
				return s.reconcileReport(ctx, repByID[id])
			})
		})

	s.log.InfoContext(ctx, "reconcile completed",
		slog.Int("evidence_resolved", res.Evidence.Succeeded),
		slog.Int("reports_resolved", res.Reports.Succeeded),
		slog.Int("failed", res.Evidence.Failed+res.Reports.Failed),
	)

	return res, nil
}

func (s *Service) reconcileEvidence(ctx context.Context, a domain.ArchivedEvidence) error {
	if _, err := s.archive.GetEvidenceForUpdate(ctx, a.ArchiveID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "reconcile: evidence restored meanwhile",
				slog.String("evidence_id", a.Original.ID.String()))
			return nil
		}
		return fmt.Errorf("lock archived evidence: %w", err)
	}
	return ignoreNotFound(s.evidence.Delete(ctx, a.Original.ID))
}

func (s *Service) reconcileReport(ctx context.Context, a domain.ArchivedReport) error {
	if _, err := s.archive.GetReportForUpdate(ctx, a.ArchiveID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "reconcile: report restored meanwhile",
				slog.String("report_id", a.Original.ID.String()))
			return nil
		}
		return fmt.Errorf("lock archived report: %w", err)
	}

	evs, err := s.evidence.ListByReport(ctx, a.Original.ID)
	if err != nil {
		return fmt.Errorf("list evidence: %w", err)
	}

	now := s.clock()
	for _, ev := range evs {
		if _, err := s.archive.CreateEvidence(ctx, domain.NewArchivedEvidenceWithReport(ev, a.RejectedBy, evidenceRejectPrefix+a.Reason, now)); err != nil {
			return fmt.Errorf("archive evidence %s: %w", ev.ID, err)
		}
		if err := s.evidence.Delete(ctx, ev.ID); err != nil {
			return fmt.Errorf("delete evidence %s: %w", ev.ID, err)
		}
	}

	if err := ignoreNotFound(s.reports.Delete(ctx, a.Original.ID)); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// ignoreNotFound treats a row that is already gone as resolved.
func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
