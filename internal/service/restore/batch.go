package restore

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
	"github.com/heartmarshall/incident-desk/internal/service/batch"
)

// RestoreReports restores every archived report in archiveIDs independently.
func (s *Service) RestoreReports(ctx context.Context, archiveIDs []uuid.UUID) (*domain.BatchResult, error) {
	if err := batch.CheckSize(archiveIDs, s.maxBatchSize); err != nil {
		return nil, err
	}
	return batch.Run(ctx, s.log, "restore_reports", archiveIDs, s.batchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			_, err := s.RestoreReport(ctx, id)
			return err
		}), nil
}

// RestoreEvidenceBatch restores every archived evidence item independently.
func (s *Service) RestoreEvidenceBatch(ctx context.Context, archiveIDs []uuid.UUID) (*domain.BatchResult, error) {
	if err := batch.CheckSize(archiveIDs, s.maxBatchSize); err != nil {
		return nil, err
	}
	return batch.Run(ctx, s.log, "restore_evidence", archiveIDs, s.batchConcurrency,
		func(ctx context.Context, id uuid.UUID) error {
			_, err := s.RestoreEvidence(ctx, id)
			return err
		}), nil
}
