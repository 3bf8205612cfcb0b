package moderation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// DefaultRejectReason is recorded when an administrator rejects without a reason.
const DefaultRejectReason = "rejected by administrator"

// evidenceRejectPrefix prefixes the reason recorded for evidence archived
// together with its report.
const evidenceRejectPrefix = "report rejected: "

type reportRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus, adminID domain.AdminID) (domain.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type evidenceRepo interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Evidence, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EvidenceStatus, adminID domain.AdminID) (domain.Evidence, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]domain.Evidence, error)
}

type archiveRepo interface {
	CreateReport(ctx context.Context, a domain.ArchivedReport) (domain.ArchivedReport, error)
	CreateEvidence(ctx context.Context, a domain.ArchivedEvidence) (domain.ArchivedEvidence, error)
	GetReportForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error)
	GetEvidenceForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error)
	ListReportCollisions(ctx context.Context) ([]domain.ArchivedReport, error)
	ListEvidenceCollisions(ctx context.Context) ([]domain.ArchivedEvidence, error)
}

type escalator interface {
	OnEvidenceVerified(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config tunes moderation behaviour.
type Config struct {
	// DefaultRejectReason replaces a blank rejection reason.
	DefaultRejectReason string
	// TransactionalArchive runs the archive copy and the active delete in one
	// transaction. When false they are two separate writes and a failure of
	// the second leaves the entity in both stores until Reconcile runs.
	TransactionalArchive bool
	// BatchConcurrency bounds how many batch items are processed at once.
	BatchConcurrency int
	// MaxBatchSize caps the number of ids in one batch call; 0 means no cap.
	MaxBatchSize int
}

// DefaultConfig returns the production moderation settings.
func DefaultConfig() Config {
	return Config{
		DefaultRejectReason:  DefaultRejectReason,
		TransactionalArchive: true,
		BatchConcurrency:     4,
		MaxBatchSize:         500,
	}
}

// Service drives the report and evidence moderation state machine.
type Service struct {
	reports    reportRepo
	evidence   evidenceRepo
	archive    archiveRepo
	escalation escalator
	tx         txManager
	cfg        Config
	now        func() time.Time
	log        *slog.Logger
}

// NewService creates a new Moderation service.
func NewService(
	log *slog.Logger,
	reports reportRepo,
	evidence evidenceRepo,
	archive archiveRepo,
	escalation escalator,
	tx txManager,
	cfg Config,
) *Service {
	if strings.TrimSpace(cfg.DefaultRejectReason) == "" {
		cfg.DefaultRejectReason = DefaultRejectReason
	}
	return &Service{
		reports:    reports,
		evidence:   evidence,
		archive:    archive,
		escalation: escalation,
		tx:         tx,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.With("service", "moderation"),
	}
}

func (s *Service) clock() time.Time {
	return s.now().Truncate(time.Microsecond)
}

// rejectReason trims reason and falls back to the configured default.
func (s *Service) rejectReason(reason string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return s.cfg.DefaultRejectReason
}
