package restore

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// Outcome tells whether a restore recreated the active row or overwrote a
// row that was still there.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
)

func (o Outcome) String() string { return string(o) }

func outcomeOf(inserted bool) Outcome {
	if inserted {
		return OutcomeInserted
	}
	return OutcomeUpdated
}

type archiveRepo interface {
	GetReportForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error)
	DeleteReport(ctx context.Context, archiveID uuid.UUID) error
	GetEvidenceForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error)
	DeleteEvidence(ctx context.Context, archiveID uuid.UUID) error
	ListEvidenceByReport(ctx context.Context, reportID uuid.UUID) ([]domain.ArchivedEvidence, error)
}

type reportRepo interface {
	Upsert(ctx context.Context, r domain.Report) (domain.Report, bool, error)
}

type evidenceRepo interface {
	Upsert(ctx context.Context, e domain.Evidence) (domain.Evidence, bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service moves archived reports and evidence back into the active store.
type Service struct {
	archive          archiveRepo
	reports          reportRepo
	evidence         evidenceRepo
	tx               txManager
	batchConcurrency int
	maxBatchSize     int
	log              *slog.Logger
}

// NewService creates a new Restore service. Batch settings are shared with
// moderation.
func NewService(
	log *slog.Logger,
	archive archiveRepo,
	reports reportRepo,
	evidence evidenceRepo,
	tx txManager,
	batchConcurrency, maxBatchSize int,
) *Service {
	return &Service{
		archive:          archive,
		reports:          reports,
		evidence:         evidence,
		tx:               tx,
		batchConcurrency: batchConcurrency,
		maxBatchSize:     maxBatchSize,
		log:              log.With("service", "restore"),
	}
}
