package intake

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

type victimRepo interface {
	Create(ctx context.Context, v domain.Victim) (domain.Victim, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Victim, error)
}

type perpetratorRepo interface {
	GetOrCreate(ctx context.Context, p domain.Perpetrator) (domain.Perpetrator, bool, error)
	TouchLastIncident(ctx context.Context, id uuid.UUID, at time.Time) error
}

type reportRepo interface {
	Create(ctx context.Context, r domain.Report) (domain.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error)
}

type evidenceRepo interface {
	Create(ctx context.Context, e domain.Evidence) (domain.Evidence, error)
}

type escalator interface {
	OnReportCreated(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error)
	OnVictimActivity(ctx context.Context, victimID uuid.UUID) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service accepts new victims, reports and evidence and fires the
// escalation rules a new report can trigger.
type Service struct {
	victims      victimRepo
	perpetrators perpetratorRepo
	reports      reportRepo
	evidence     evidenceRepo
	escalation   escalator
	tx           txManager
	now          func() time.Time
	log          *slog.Logger
}

// NewService creates a new Intake service.
func NewService(
	log *slog.Logger,
	victims victimRepo,
	perpetrators perpetratorRepo,
	reports reportRepo,
	evidence evidenceRepo,
	escalation escalator,
	tx txManager,
) *Service {
	return &Service{
		victims:      victims,
		perpetrators: perpetrators,
		reports:      reports,
		evidence:     evidence,
		escalation:   escalation,
		tx:           tx,
		now:          func() time.Time { return time.Now().UTC() },
		log:          log.With("service", "intake"),
	}
}

func (s *Service) clock() time.Time {
	return s.now().Truncate(time.Microsecond)
}
