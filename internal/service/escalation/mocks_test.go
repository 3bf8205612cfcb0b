package escalation

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

type perpetratorRepoMock struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error)
	GetByIDForUpdateFunc  func(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error)
	UpdateThreatLevelFunc func(ctx context.Context, id uuid.UUID, level domain.ThreatLevel) (domain.Perpetrator, error)

	mu                    sync.Mutex
	updateThreatLevelCall []domain.ThreatLevel
}

func (m *perpetratorRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *perpetratorRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error) {
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *perpetratorRepoMock) UpdateThreatLevel(ctx context.Context, id uuid.UUID, level domain.ThreatLevel) (domain.Perpetrator, error) {
	m.mu.Lock()
	m.updateThreatLevelCall = append(m.updateThreatLevelCall, level)
	m.mu.Unlock()
	return m.UpdateThreatLevelFunc(ctx, id, level)
}

func (m *perpetratorRepoMock) UpdateThreatLevelCalls() []domain.ThreatLevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateThreatLevelCall
}

type victimRepoMock struct {
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (domain.Victim, error)
	GetByIDForUpdateFunc    func(ctx context.Context, id uuid.UUID) (domain.Victim, error)
	UpdateAccountStatusFunc func(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (domain.Victim, error)
}

func (m *victimRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Victim, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *victimRepoMock) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Victim, error) {
	return m.GetByIDForUpdateFunc(ctx, id)
}

func (m *victimRepoMock) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (domain.Victim, error) {
	return m.UpdateAccountStatusFunc(ctx, id, status)
}

type reportRepoMock struct {
	CountDistinctVictimsFunc     func(ctx context.Context, perpetratorID uuid.UUID, from, to time.Time) (int, error)
	CountByVictimFunc            func(ctx context.Context, victimID uuid.UUID, from, to time.Time) (int, error)
	ListVictimsOverThresholdFunc func(ctx context.Context, from, to time.Time, threshold int) ([]uuid.UUID, error)
}

func (m *reportRepoMock) CountDistinctVictims(ctx context.Context, perpetratorID uuid.UUID, from, to time.Time) (int, error) {
	return m.CountDistinctVictimsFunc(ctx, perpetratorID, from, to)
}

func (m *reportRepoMock) CountByVictim(ctx context.Context, victimID uuid.UUID, from, to time.Time) (int, error) {
	return m.CountByVictimFunc(ctx, victimID, from, to)
}

func (m *reportRepoMock) ListVictimsOverThreshold(ctx context.Context, from, to time.Time, threshold int) ([]uuid.UUID, error) {
	return m.ListVictimsOverThresholdFunc(ctx, from, to, threshold)
}

type evidenceRepoMock struct {
	CountVerifiedByPerpetratorFunc func(ctx context.Context, perpetratorID uuid.UUID) (int, error)
}

func (m *evidenceRepoMock) CountVerifiedByPerpetrator(ctx context.Context, perpetratorID uuid.UUID) (int, error) {
	return m.CountVerifiedByPerpetratorFunc(ctx, perpetratorID)
}

// auditLogMock records appended entries in memory.
type auditLogMock struct {
	AppendThreatLevelErr   error
	AppendAccountStatusErr error

	mu            sync.Mutex
	threatLevel   []domain.ThreatLevelLogEntry
	accountStatus []domain.AccountStatusLogEntry
}

func (m *auditLogMock) AppendThreatLevel(_ context.Context, e domain.ThreatLevelLogEntry) error {
	if m.AppendThreatLevelErr != nil {
		return m.AppendThreatLevelErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threatLevel = append(m.threatLevel, e)
	return nil
}

func (m *auditLogMock) AppendAccountStatus(_ context.Context, e domain.AccountStatusLogEntry) error {
	if m.AppendAccountStatusErr != nil {
		return m.AppendAccountStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountStatus = append(m.accountStatus, e)
	return nil
}

func (m *auditLogMock) ListThreatLevel(_ context.Context, perpetratorID uuid.UUID) ([]domain.ThreatLevelLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ThreatLevelLogEntry
	for _, e := range m.threatLevel {
		if e.PerpetratorID == perpetratorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *auditLogMock) ListAccountStatus(_ context.Context, victimID uuid.UUID) ([]domain.AccountStatusLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AccountStatusLogEntry
	for _, e := range m.accountStatus {
		if e.VictimID == victimID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *auditLogMock) ThreatLevelEntries() []domain.ThreatLevelLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ThreatLevelLogEntry(nil), m.threatLevel...)
}

func (m *auditLogMock) AccountStatusEntries() []domain.AccountStatusLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.AccountStatusLogEntry(nil), m.accountStatus...)
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
