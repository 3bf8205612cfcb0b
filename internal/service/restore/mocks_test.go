package restore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type archiveRepoMock struct {
	GetReportForUpdateFunc   func(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error)
	DeleteReportFunc         func(ctx context.Context, archiveID uuid.UUID) error
	GetEvidenceForUpdateFunc func(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error)
	DeleteEvidenceFunc       func(ctx context.Context, archiveID uuid.UUID) error
	ListEvidenceByReportFunc func(ctx context.Context, reportID uuid.UUID) ([]domain.ArchivedEvidence, error)

	mu              sync.Mutex
	deletedReports  []uuid.UUID
	deletedEvidence []uuid.UUID
}

func (m *archiveRepoMock) GetReportForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error) {
	return m.GetReportForUpdateFunc(ctx, archiveID)
}

func (m *archiveRepoMock) DeleteReport(ctx context.Context, archiveID uuid.UUID) error {
	m.mu.Lock()
	m.deletedReports = append(m.deletedReports, archiveID)
	m.mu.Unlock()
	if m.DeleteReportFunc != nil {
		return m.DeleteReportFunc(ctx, archiveID)
	}
	return nil
}

func (m *archiveRepoMock) GetEvidenceForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error) {
	return m.GetEvidenceForUpdateFunc(ctx, archiveID)
}

func (m *archiveRepoMock) DeleteEvidence(ctx context.Context, archiveID uuid.UUID) error {
	m.mu.Lock()
	m.deletedEvidence = append(m.deletedEvidence, archiveID)
	m.mu.Unlock()
	if m.DeleteEvidenceFunc != nil {
		return m.DeleteEvidenceFunc(ctx, archiveID)
	}
	return nil
}

func (m *archiveRepoMock) ListEvidenceByReport(ctx context.Context, reportID uuid.UUID) ([]domain.ArchivedEvidence, error) {
	if m.ListEvidenceByReportFunc != nil {
		return m.ListEvidenceByReportFunc(ctx, reportID)
	}
	return nil, nil
}

func (m *archiveRepoMock) DeletedReports() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.deletedReports...)
}

func (m *archiveRepoMock) DeletedEvidence() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.deletedEvidence...)
}

type reportRepoMock struct {
	UpsertFunc func(ctx context.Context, r domain.Report) (domain.Report, bool, error)

	mu      sync.Mutex
	upserts []domain.Report
}

func (m *reportRepoMock) Upsert(ctx context.Context, r domain.Report) (domain.Report, bool, error) {
	m.mu.Lock()
	m.upserts = append(m.upserts, r)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, r)
}

func (m *reportRepoMock) Upserts() []domain.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Report(nil), m.upserts...)
}

type evidenceRepoMock struct {
	UpsertFunc func(ctx context.Context, e domain.Evidence) (domain.Evidence, bool, error)

	mu      sync.Mutex
	upserts []domain.Evidence
}

func (m *evidenceRepoMock) Upsert(ctx context.Context, e domain.Evidence) (domain.Evidence, bool, error) {
	m.mu.Lock()
	m.upserts = append(m.upserts, e)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, e)
}

func (m *evidenceRepoMock) Upserts() []domain.Evidence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Evidence(nil), m.upserts...)
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
