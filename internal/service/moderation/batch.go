package moderation

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
	"github.com/heartmarshall/incident-desk/internal/service/batch"
)

// checkBatch validates the shared part of a batch call. Per-item problems
// are reported in the BatchResult instead.
func (s *Service) checkBatch(in BatchInput) error {
	if err := batch.CheckSize(in.IDs, s.cfg.MaxBatchSize); err != nil {
		return err
	}
	return in.Validate()
}

// ValidateReports validates every report in ids independently.
func (s *Service) ValidateReports(ctx context.Context, ids []uuid.UUID, adminID domain.AdminID) (*domain.BatchResult, error) {
	if err := s.checkBatch(BatchInput{IDs: ids, AdminID: adminID}); err != nil {
		return nil, err
	}
	return batch.Run(ctx, s.log, "validate_reports", ids, s.cfg.BatchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			return s.ValidateReport(ctx, id, adminID)
		}), nil
}

// RejectReports rejects every report in ids independently with one reason.
func (s *Service) RejectReports(ctx context.Context, ids []uuid.UUID, adminID domain.AdminID, reason string) (*domain.BatchResult, error) {
	if err := s.checkBatch(BatchInput{IDs: ids, AdminID: adminID, Reason: reason}); err != nil {
		return nil, err
	}
	return batch.Run(ctx, s.log, "reject_reports", ids, s.cfg.BatchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			return s.RejectReport(ctx, id, adminID, reason)
		}), nil
}

// VerifyEvidenceBatch verifies every evidence item in ids independently.
// Escalations are logged by the escalation service; the batch only tallies.
func (s *Service) VerifyEvidenceBatch(ctx context.Context, ids []uuid.UUID, adminID domain.AdminID) (*domain.BatchResult, error) {
	if err := s.checkBatch(BatchInput{IDs: ids, AdminID: adminID}); err != nil {
		return nil, err
	}
	return batch.Run(ctx, s.log, "verify_evidence", ids, s.cfg.BatchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			_, err := s.VerifyEvidence(ctx, id, adminID)
			return err
		}), nil
}

// RejectEvidenceBatch rejects every evidence item in ids independently.
func (s *Service) RejectEvidenceBatch(ctx context.Context, ids []uuid.UUID, adminID domain.AdminID, reason string) (*domain.BatchResult, error) {
	if err := s.checkBatch(BatchInput{IDs: ids, AdminID: adminID, Reason: reason}); err != nil {
		return nil, err
	}
	return batch.Run(ctx, s.log, "reject_evidence", ids, s.cfg.BatchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			return s.RejectEvidence(ctx, id, adminID, reason)
		}), nil
}
