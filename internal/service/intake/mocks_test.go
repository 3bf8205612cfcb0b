package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type victimRepoMock struct {
	CreateFunc  func(ctx context.Context, v domain.Victim) (domain.Victim, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Victim, error)
}

func (m *victimRepoMock) Create(ctx context.Context, v domain.Victim) (domain.Victim, error) {
	return m.CreateFunc(ctx, v)
}

func (m *victimRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Victim, error) {
	return m.GetByIDFunc(ctx, id)
}

type perpetratorRepoMock struct {
	GetOrCreateFunc       func(ctx context.Context, p domain.Perpetrator) (domain.Perpetrator, bool, error)
	TouchLastIncidentFunc func(ctx context.Context, id uuid.UUID, at time.Time) error

	mu      sync.Mutex
	touched []time.Time
}

func (m *perpetratorRepoMock) GetOrCreate(ctx context.Context, p domain.Perpetrator) (domain.Perpetrator, bool, error) {
	return m.GetOrCreateFunc(ctx, p)
}

func (m *perpetratorRepoMock) TouchLastIncident(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	m.touched = append(m.touched, at)
	m.mu.Unlock()
	if m.TouchLastIncidentFunc != nil {
		return m.TouchLastIncidentFunc(ctx, id, at)
	}
	return nil
}

func (m *perpetratorRepoMock) Touched() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.touched...)
}

type reportRepoMock struct {
	CreateFunc  func(ctx context.Context, r domain.Report) (domain.Report, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Report, error)
}

func (m *reportRepoMock) Create(ctx context.Context, r domain.Report) (domain.Report, error) {
	return m.CreateFunc(ctx, r)
}

func (m *reportRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	return m.GetByIDFunc(ctx, id)
}

type evidenceRepoMock struct {
	CreateFunc func(ctx context.Context, e domain.Evidence) (domain.Evidence, error)
}

func (m *evidenceRepoMock) Create(ctx context.Context, e domain.Evidence) (domain.Evidence, error) {
	return m.CreateFunc(ctx, e)
}

type escalatorMock struct {
	OnReportCreatedFunc  func(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error)
	OnVictimActivityFunc func(ctx context.Context, victimID uuid.UUID) (bool, error)
}

func (m *escalatorMock) OnReportCreated(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error) {
	if m.OnReportCreatedFunc != nil {
		return m.OnReportCreatedFunc(ctx, perpetratorID)
	}
	return nil, nil
}

func (m *escalatorMock) OnVictimActivity(ctx context.Context, victimID uuid.UUID) (bool, error) {
	if m.OnVictimActivityFunc != nil {
		return m.OnVictimActivityFunc(ctx, victimID)
	}
	return false, nil
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	// Default: pass-through (no real transaction).
	return fn(ctx)
}
