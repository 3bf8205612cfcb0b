package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// ---------------------------------------------------------------------------
// In-memory store standing in for the report, evidence and archive repos
// ---------------------------------------------------------------------------

type memStore struct {
	mu               sync.Mutex
	reports          map[uuid.UUID]domain.Report
	evidence         map[uuid.UUID]domain.Evidence
	archivedReports  map[uuid.UUID]domain.ArchivedReport // keyed by original id
	archivedEvidence map[uuid.UUID]domain.ArchivedEvidence

	// Error injection.
	DeleteReportErr   error
	DeleteEvidenceErr error
}

func newMemStore() *memStore {
	return &memStore{
		reports:          make(map[uuid.UUID]domain.Report),
		evidence:         make(map[uuid.UUID]domain.Evidence),
		archivedReports:  make(map[uuid.UUID]domain.ArchivedReport),
		archivedEvidence: make(map[uuid.UUID]domain.ArchivedEvidence),
	}
}

func (m *memStore) addReport(status domain.ReportStatus) domain.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := domain.Report{
		ID:            uuid.New(),
		VictimID:      uuid.New(),
		PerpetratorID: uuid.New(),
		AttackTypeID:  1,
		Description:   "threatening messages",
		Status:        status,
		CreatedAt:     fixedNow.Add(-time.Hour),
	}
	m.reports[r.ID] = r
	return r
}

func (m *memStore) addEvidence(reportID uuid.UUID, status domain.EvidenceStatus) domain.Evidence {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := domain.Evidence{
		ID:          uuid.New(),
		ReportID:    reportID,
		Kind:        domain.EvidenceKindScreenshot,
		FilePath:    "uploads/" + uuid.NewString() + ".png",
		Status:      status,
		SubmittedAt: fixedNow.Add(-time.Hour),
	}
	m.evidence[e.ID] = e
	return e
}

func (m *memStore) hasReport(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reports[id]
	return ok
}

func (m *memStore) hasEvidence(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.evidence[id]
	return ok
}

func (m *memStore) archivedReport(id uuid.UUID) (domain.ArchivedReport, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.archivedReports[id]
	return a, ok
}

func (m *memStore) archivedEvidenceFor(id uuid.UUID) (domain.ArchivedEvidence, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.archivedEvidence[id]
	return a, ok
}

// dropArchive removes the archive copies of id, as a restore does.
func (m *memStore) dropArchive(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.archivedReports, id)
	delete(m.archivedEvidence, id)
}

func notFound(entity string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
}

// reportRepo

type reportRepoFake struct{ *memStore }

func (f reportRepoFake) GetByID(_ context.Context, id uuid.UUID) (domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return domain.Report{}, notFound("report", id)
	}
	return r, nil
}

func (f reportRepoFake) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	return f.GetByID(ctx, id)
}

func (f reportRepoFake) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ReportStatus, adminID domain.AdminID) (domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return domain.Report{}, notFound("report", id)
	}
	r.Status = status
	r.AdminID = domain.AdminIDPtr(adminID)
	f.reports[id] = r
	return r, nil
}

func (f reportRepoFake) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteReportErr != nil {
		return f.DeleteReportErr
	}
	if _, ok := f.reports[id]; !ok {
		return notFound("report", id)
	}
	delete(f.reports, id)
	return nil
}

// evidenceRepo

type evidenceRepoFake struct{ *memStore }

func (f evidenceRepoFake) GetByIDForUpdate(_ context.Context, id uuid.UUID) (domain.Evidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.evidence[id]
	if !ok {
		return domain.Evidence{}, notFound("evidence", id)
	}
	return e, nil
}

func (f evidenceRepoFake) UpdateStatus(_ context.Context, id uuid.UUID, status domain.EvidenceStatus, adminID domain.AdminID) (domain.Evidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.evidence[id]
	if !ok {
		return domain.Evidence{}, notFound("evidence", id)
	}
	e.Status = status
	e.AdminID = domain.AdminIDPtr(adminID)
	f.evidence[id] = e
	return e, nil
}

func (f evidenceRepoFake) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteEvidenceErr != nil {
		return f.DeleteEvidenceErr
	}
	if _, ok := f.evidence[id]; !ok {
		return notFound("evidence", id)
	}
	delete(f.evidence, id)
	return nil
}

func (f evidenceRepoFake) ListByReport(_ context.Context, reportID uuid.UUID) ([]domain.Evidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Evidence
	for _, e := range f.evidence {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	return out, nil
}

// archiveRepo

type archiveRepoFake struct{ *memStore }

func (f archiveRepoFake) CreateReport(_ context.Context, a domain.ArchivedReport) (domain.ArchivedReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.archivedReports[a.Original.ID]; ok {
		return domain.ArchivedReport{}, fmt.Errorf("archived report: %w", domain.ErrAlreadyExists)
	}
	f.archivedReports[a.Original.ID] = a
	return a, nil
}

func (f archiveRepoFake) CreateEvidence(_ context.Context, a domain.ArchivedEvidence) (domain.ArchivedEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.archivedEvidence[a.Original.ID]; ok {
		return domain.ArchivedEvidence{}, fmt.Errorf("archived evidence: %w", domain.ErrAlreadyExists)
	}
	f.archivedEvidence[a.Original.ID] = a
	return a, nil
}

func (f archiveRepoFake) GetReportForUpdate(_ context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.archivedReports {
		if a.ArchiveID == archiveID {
			return a, nil
		}
	}
	return domain.ArchivedReport{}, notFound("archived report", archiveID)
}

func (f archiveRepoFake) GetEvidenceForUpdate(_ context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.archivedEvidence {
		if a.ArchiveID == archiveID {
			return a, nil
		}
	}
	return domain.ArchivedEvidence{}, notFound("archived evidence", archiveID)
}

func (f archiveRepoFake) ListReportCollisions(_ context.Context) ([]domain.ArchivedReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ArchivedReport
	for id, a := range f.archivedReports {
		if _, ok := f.reports[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f archiveRepoFake) ListEvidenceCollisions(_ context.Context) ([]domain.ArchivedEvidence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ArchivedEvidence
	for id, a := range f.archivedEvidence {
		if _, ok := f.evidence[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type escalatorMock struct {
	OnEvidenceVerifiedFunc func(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error)

	mu    sync.Mutex
	calls []uuid.UUID
}

func (m *escalatorMock) OnEvidenceVerified(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, perpetratorID)
	m.mu.Unlock()
	if m.OnEvidenceVerifiedFunc != nil {
		return m.OnEvidenceVerifiedFunc(ctx, perpetratorID)
	}
	return nil, nil
}

func (m *escalatorMock) Calls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.calls...)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	mu    sync.Mutex
	count int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	// Default: pass-through (no real transaction).
	return fn(ctx)
}

func (m *txManagerMock) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}
