package escalation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

type perpetratorRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error)
	UpdateThreatLevel(ctx context.Context, id uuid.UUID, level domain.ThreatLevel) (domain.Perpetrator, error)
}

type victimRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Victim, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Victim, error)
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (domain.Victim, error)
}

type reportRepo interface {
	CountDistinctVictims(ctx context.Context, perpetratorID uuid.UUID, from, to time.Time) (int, error)
	CountByVictim(ctx context.Context, victimID uuid.UUID, from, to time.Time) (int, error)
	ListVictimsOverThreshold(ctx context.Context, from, to time.Time, threshold int) ([]uuid.UUID, error)
}

type evidenceRepo interface {
	CountVerifiedByPerpetrator(ctx context.Context, perpetratorID uuid.UUID) (int, error)
}

type auditLog interface {
	AppendThreatLevel(ctx context.Context, e domain.ThreatLevelLogEntry) error
	AppendAccountStatus(ctx context.Context, e domain.AccountStatusLogEntry) error
	ListThreatLevel(ctx context.Context, perpetratorID uuid.UUID) ([]domain.ThreatLevelLogEntry, error)
	ListAccountStatus(ctx context.Context, victimID uuid.UUID) ([]domain.AccountStatusLogEntry, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service evaluates the automatic escalation rules and applies manual
// overrides. Every threat level or account status change it makes is
// written to the audit log in the same transaction.
type Service struct {
	perps    perpetratorRepo
	victims  victimRepo
	reports  reportRepo
	evidence evidenceRepo
	audit    auditLog
	tx       txManager
	rules    Rules
	// sweepConcurrency bounds the number of victims SweepVictims evaluates at once.
	sweepConcurrency int
	now              func() time.Time
	log              *slog.Logger
}

// NewService creates a new Escalation service.
func NewService(
	log *slog.Logger,
	perps perpetratorRepo,
	victims victimRepo,
	reports reportRepo,
	evidence evidenceRepo,
	audit auditLog,
	tx txManager,
	rules Rules,
	sweepConcurrency int,
) *Service {
	return &Service{
		perps:            perps,
		victims:          victims,
		reports:          reports,
		evidence:         evidence,
		audit:            audit,
		tx:               tx,
		rules:            rules,
		sweepConcurrency: sweepConcurrency,
		now:              func() time.Time { return time.Now().UTC() },
		log:              log.With("service", "escalation"),
	}
}

// clock returns the evaluation instant at the precision PostgreSQL stores.
func (s *Service) clock() time.Time {
	return s.now().Truncate(time.Microsecond)
}
