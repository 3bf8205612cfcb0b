package archive_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/archive"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/incident-desk/internal/domain"
)

func newRepo(t *testing.T) (*archive.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return archive.New(pool), pool
}

func seedReport(t *testing.T, pool *pgxpool.Pool) domain.Report {
	t.Helper()
	victim := testhelper.SeedVictim(t, pool)
	perp := testhelper.SeedPerpetrator(t, pool)
	return testhelper.SeedReport(t, pool, victim.ID, perp.ID)
}

func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

func TestRepo_CreateReport_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	rep := seedReport(t, pool)
	rep.AdminID = domain.AdminIDPtr("admin-2")

	input := domain.NewArchivedReport(rep, "admin-9", "duplicate submission", now())
	if _, err := repo.CreateReport(ctx, input); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	got, err := repo.GetReport(ctx, input.ArchiveID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Original.ID != rep.ID {
		t.Errorf("Original.ID = %s, want %s", got.Original.ID, rep.ID)
	}
	if got.Original.Status != domain.ReportStatusPending {
		t.Errorf("Original.Status = %q, want pending", got.Original.Status)
	}
	if got.Original.AdminID == nil || *got.Original.AdminID != "admin-2" {
		t.Errorf("Original.AdminID = %v, want admin-2", got.Original.AdminID)
	}
	if got.RejectedBy != "admin-9" || got.Reason != "duplicate submission" {
		t.Errorf("RejectedBy/Reason = %q/%q", got.RejectedBy, got.Reason)
	}
	if !got.Original.CreatedAt.Equal(rep.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.Original.CreatedAt, rep.CreatedAt)
	}
}

func TestRepo_CreateReport_BlankStatusStoredAsNull(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	rep := seedReport(t, pool)
	rep.Status = ""

	a, err := repo.CreateReport(ctx, domain.NewArchivedReport(rep, "admin-1", "legacy", now()))
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if a.Original.Status != "" {
		t.Errorf("Original.Status = %q, want blank", a.Original.Status)
	}
	if a.RestoredReport().Status != domain.ReportStatusPending {
		t.Errorf("RestoredReport().Status = %q, want pending", a.RestoredReport().Status)
	}
}

func TestRepo_CreateReport_DuplicateOriginal(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	rep := seedReport(t, pool)

	if _, err := repo.CreateReport(ctx, domain.NewArchivedReport(rep, "admin-1", "first", now())); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	_, err := repo.CreateReport(ctx, domain.NewArchivedReport(rep, "admin-1", "second", now()))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got: %v", err)
	}
}

func TestRepo_ArchiveRowsAreImmutable(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	rep := seedReport(t, pool)

	a, err := repo.CreateReport(ctx, domain.NewArchivedReport(rep, "admin-1", "spam", now()))
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	_, err = pool.Exec(ctx, `UPDATE archived_reports SET reason = 'edited' WHERE archive_id = $1`, a.ArchiveID)
	if err == nil {
		t.Fatal("expected UPDATE on archived_reports to be rejected")
	}
}

func TestRepo_DeleteReport(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	rep := seedReport(t, pool)
	a := testhelper.SeedArchivedReport(t, pool, rep, "admin-1")

	if err := repo.DeleteReport(ctx, a.ArchiveID); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := repo.GetReportForUpdate(ctx, a.ArchiveID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := repo.DeleteReport(ctx, a.ArchiveID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second DeleteReport: expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_ListReportCollisions(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	// Active row still present: a collision.
	colliding := seedReport(t, pool)
	a := testhelper.SeedArchivedReport(t, pool, colliding, "admin-1")

	got, err := repo.ListReportCollisions(ctx)
	if err != nil {
		t.Fatalf("ListReportCollisions: %v", err)
	}

	found := false
	for _, c := range got {
		if c.ArchiveID == a.ArchiveID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected archive %s among collisions", a.ArchiveID)
	}
}

func TestRepo_ListReports(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	rep := seedReport(t, pool)
	testhelper.SeedArchivedReport(t, pool, rep, "admin-1")

	got, err := repo.ListReports(context.Background(), 1000, 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one archived report")
	}
}

// ---------------------------------------------------------------------------
// Evidence
// ---------------------------------------------------------------------------

func TestRepo_Evidence_CreateGetDelete(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	rep := seedReport(t, pool)
	ev := testhelper.SeedEvidence(t, pool, rep.ID, domain.EvidenceStatusPending)

	a, err := repo.CreateEvidence(ctx, domain.NewArchivedEvidence(ev, "admin-3", "blurry", now()))
	if err != nil {
		t.Fatalf("CreateEvidence: %v", err)
	}

	got, err := repo.GetEvidenceForUpdate(ctx, a.ArchiveID)
	if err != nil {
		t.Fatalf("GetEvidenceForUpdate: %v", err)
	}
	if got.Original.ID != ev.ID || got.Original.ReportID != rep.ID || got.Original.FilePath != ev.FilePath {
		t.Errorf("archived evidence mismatch: %+v", got.Original)
	}
	if got.WithReport {
		t.Error("evidence rejected on its own must not be marked as archived with its report")
	}

	byReport, err := repo.ListEvidenceByReport(ctx, rep.ID)
	if err != nil {
		t.Fatalf("ListEvidenceByReport: %v", err)
	}
	if len(byReport) != 1 {
		t.Errorf("ListEvidenceByReport returned %d rows, want 1", len(byReport))
	}

	collisions, err := repo.ListEvidenceCollisions(ctx)
	if err != nil {
		t.Fatalf("ListEvidenceCollisions: %v", err)
	}
	found := false
	for _, c := range collisions {
		if c.ArchiveID == a.ArchiveID {
			found = true
		}
	}
	if !found {
		t.Error("evidence still active should be reported as a collision")
	}

	if err := repo.DeleteEvidence(ctx, a.ArchiveID); err != nil {
		t.Fatalf("DeleteEvidence: %v", err)
	}
	if _, err := repo.GetEvidence(ctx, a.ArchiveID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_Evidence_OutlivesParentReport(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	orphan := domain.Evidence{
		ID:          uuid.New(),
		ReportID:    uuid.New(),
		Kind:        domain.EvidenceKindAudio,
		FilePath:    "audio/call.mp3",
		Status:      domain.EvidenceStatusVerified,
		SubmittedAt: now(),
	}
	a, err := repo.CreateEvidence(ctx, domain.NewArchivedEvidenceWithReport(orphan, "admin-1", "report rejected: spam", now()))
	if err != nil {
		t.Fatalf("CreateEvidence without active parent: %v", err)
	}

	got, err := repo.GetEvidence(ctx, a.ArchiveID)
	if err != nil {
		t.Fatalf("GetEvidence: %v", err)
	}
	if !got.WithReport {
		t.Error("with_report flag was not persisted")
	}
}
