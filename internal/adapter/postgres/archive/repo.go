// Package archive implements the recycle store for rejected reports and
// evidence using PostgreSQL. Archive rows are written once and only ever
// deleted again by a restore or by reconciliation.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/incident-desk/internal/adapter/postgres"
	"github.com/heartmarshall/incident-desk/internal/domain"
)

const (
	reportTable   = "archived_reports"
	evidenceTable = "archived_evidence"

	reportEntity   = "archived_report"
	evidenceEntity = "archived_evidence"
)

var reportColumns = []string{
	"archive_id", "original_id", "victim_id", "perpetrator_id", "attack_type_id",
	"admin_id", "description", "original_status", "created_at",
	"rejected_by", "reason", "archived_at",
}

var evidenceColumns = []string{
	"archive_id", "original_id", "report_id", "kind", "file_path",
	"original_status", "admin_id", "submitted_at",
	"rejected_by", "reason", "with_report", "archived_at",
}

// Repo provides archive persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new archive repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// CreateReport writes the archive copy of a report. A second copy of the same
// original id is rejected with ErrAlreadyExists.
func (r *Repo) CreateReport(ctx context.Context, a domain.ArchivedReport) (domain.ArchivedReport, error) {
	o := a.Original
	query := postgres.Builder().
		Insert(reportTable).
		Columns(reportColumns...).
		Values(
			a.ArchiveID, o.ID, o.VictimID, o.PerpetratorID, o.AttackTypeID,
			adminText(o.AdminID), o.Description, statusText(string(o.Status)), o.CreatedAt,
			string(a.RejectedBy), a.Reason, a.ArchivedAt,
		).
		Suffix("RETURNING " + strings.Join(reportColumns, ", "))

	return r.getReport(ctx, query, a.ArchiveID)
}

// GetReport returns the archived report with the given archive id.
func (r *Repo) GetReport(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error) {
	query := postgres.Builder().
		Select(reportColumns...).
		From(reportTable).
		Where(squirrel.Eq{"archive_id": archiveID})

	return r.getReport(ctx, query, archiveID)
}

// GetReportForUpdate locks the archive row so that concurrent restores of the
// same archive id serialize and the loser sees ErrNotFound.
func (r *Repo) GetReportForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedReport, error) {
	query := postgres.Builder().
		Select(reportColumns...).
		From(reportTable).
		Where(squirrel.Eq{"archive_id": archiveID}).
		Suffix("FOR UPDATE")

	return r.getReport(ctx, query, archiveID)
}

// DeleteReport removes an archive row.
func (r *Repo) DeleteReport(ctx context.Context, archiveID uuid.UUID) error {
	return r.delete(ctx, reportTable, reportEntity, archiveID)
}

// ListReports returns archived reports, newest first.
func (r *Repo) ListReports(ctx context.Context, limit, offset int) ([]domain.ArchivedReport, error) {
	query := postgres.Builder().
		Select(reportColumns...).
		From(reportTable).
		OrderBy("archived_at DESC", "archive_id").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	return r.selectReports(ctx, query, "list archived reports")
}

// ListReportCollisions returns archived reports whose original id is also
// present in the active store.
func (r *Repo) ListReportCollisions(ctx context.Context) ([]domain.ArchivedReport, error) {
	query := postgres.Builder().
		Select(reportColumns...).
		From(reportTable + " a").
		Where("EXISTS (SELECT 1 FROM reports r WHERE r.id = a.original_id)").
		OrderBy("a.archived_at")

	return r.selectReports(ctx, query, "list report collisions")
}

// ---------------------------------------------------------------------------
// Evidence
// ---------------------------------------------------------------------------

// CreateEvidence writes the archive copy of evidence.
func (r *Repo) CreateEvidence(ctx context.Context, a domain.ArchivedEvidence) (domain.ArchivedEvidence, error) {
	o := a.Original
	query := postgres.Builder().
		Insert(evidenceTable).
		Columns(evidenceColumns...).
		Values(
			a.ArchiveID, o.ID, o.ReportID, string(o.Kind), o.FilePath,
			statusText(string(o.Status)), adminText(o.AdminID), o.SubmittedAt,
			string(a.RejectedBy), a.Reason, a.WithReport, a.ArchivedAt,
		).
		Suffix("RETURNING " + strings.Join(evidenceColumns, ", "))

	return r.getEvidence(ctx, query, a.ArchiveID)
}

// GetEvidence returns the archived evidence with the given archive id.
func (r *Repo) GetEvidence(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error) {
	query := postgres.Builder().
		Select(evidenceColumns...).
		From(evidenceTable).
		Where(squirrel.Eq{"archive_id": archiveID})

	return r.getEvidence(ctx, query, archiveID)
}

// GetEvidenceForUpdate locks the archive row until the transaction ends.
func (r *Repo) GetEvidenceForUpdate(ctx context.Context, archiveID uuid.UUID) (domain.ArchivedEvidence, error) {
	query := postgres.Builder().
		Select(evidenceColumns...).
		From(evidenceTable).
		Where(squirrel.Eq{"archive_id": archiveID}).
		Suffix("FOR UPDATE")

	return r.getEvidence(ctx, query, archiveID)
}

// DeleteEvidence removes an archive row.
func (r *Repo) DeleteEvidence(ctx context.Context, archiveID uuid.UUID) error {
	return r.delete(ctx, evidenceTable, evidenceEntity, archiveID)
}

// ListEvidenceByReport returns archived evidence that belonged to the report.
func (r *Repo) ListEvidenceByReport(ctx context.Context, reportID uuid.UUID) ([]domain.ArchivedEvidence, error) {
	query := postgres.Builder().
		Select(evidenceColumns...).
		From(evidenceTable).
		Where(squirrel.Eq{"report_id": reportID}).
		OrderBy("archived_at", "archive_id")

	return r.selectEvidence(ctx, query, "list archived evidence by report")
}

// ListEvidenceCollisions returns archived evidence whose original id is also
// present in the active store.
func (r *Repo) ListEvidenceCollisions(ctx context.Context) ([]domain.ArchivedEvidence, error) {
	query := postgres.Builder().
		Select(evidenceColumns...).
		From(evidenceTable + " a").
		Where("EXISTS (SELECT 1 FROM evidence e WHERE e.id = a.original_id)").
		OrderBy("a.archived_at")

	return r.selectEvidence(ctx, query, "list evidence collisions")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) delete(ctx context.Context, table, entity string, archiveID uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"archive_id": archiveID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", entity, err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, archiveID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, archiveID, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) getReport(ctx context.Context, query squirrel.Sqlizer, archiveID uuid.UUID) (domain.ArchivedReport, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.ArchivedReport{}, fmt.Errorf("build archived report query: %w", err)
	}

	var row archivedReportRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.ArchivedReport{}, postgres.MapError(err, reportEntity, archiveID)
	}
	return toDomainArchivedReport(row), nil
}

func (r *Repo) selectReports(ctx context.Context, query squirrel.SelectBuilder, op string) ([]domain.ArchivedReport, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	var rows []archivedReportRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapQueryError(err, op)
	}

	out := make([]domain.ArchivedReport, len(rows))
	for i, row := range rows {
		out[i] = toDomainArchivedReport(row)
	}
	return out, nil
}

func (r *Repo) getEvidence(ctx context.Context, query squirrel.Sqlizer, archiveID uuid.UUID) (domain.ArchivedEvidence, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.ArchivedEvidence{}, fmt.Errorf("build archived evidence query: %w", err)
	}

	var row archivedEvidenceRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.ArchivedEvidence{}, postgres.MapError(err, evidenceEntity, archiveID)
	}
	return toDomainArchivedEvidence(row), nil
}

func (r *Repo) selectEvidence(ctx context.Context, query squirrel.SelectBuilder, op string) ([]domain.ArchivedEvidence, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	var rows []archivedEvidenceRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapQueryError(err, op)
	}

	out := make([]domain.ArchivedEvidence, len(rows))
	for i, row := range rows {
		out[i] = toDomainArchivedEvidence(row)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

type archivedReportRow struct {
	ArchiveID      uuid.UUID `db:"archive_id"`
	OriginalID     uuid.UUID `db:"original_id"`
	VictimID       uuid.UUID `db:"victim_id"`
	PerpetratorID  uuid.UUID `db:"perpetrator_id"`
	AttackTypeID   int       `db:"attack_type_id"`
	AdminID        *string   `db:"admin_id"`
	Description    string    `db:"description"`
	OriginalStatus *string   `db:"original_status"`
	CreatedAt      time.Time `db:"created_at"`
	RejectedBy     string    `db:"rejected_by"`
	Reason         string    `db:"reason"`
	ArchivedAt     time.Time `db:"archived_at"`
}

type archivedEvidenceRow struct {
	ArchiveID      uuid.UUID `db:"archive_id"`
	OriginalID     uuid.UUID `db:"original_id"`
	ReportID       uuid.UUID `db:"report_id"`
	Kind           string    `db:"kind"`
	FilePath       string    `db:"file_path"`
	OriginalStatus *string   `db:"original_status"`
	AdminID        *string   `db:"admin_id"`
	SubmittedAt    time.Time `db:"submitted_at"`
	RejectedBy     string    `db:"rejected_by"`
	Reason         string    `db:"reason"`
	WithReport     bool      `db:"with_report"`
	ArchivedAt     time.Time `db:"archived_at"`
}

func toDomainArchivedReport(row archivedReportRow) domain.ArchivedReport {
	return domain.ArchivedReport{
		ArchiveID: row.ArchiveID,
		Original: domain.Report{
			ID:            row.OriginalID,
			VictimID:      row.VictimID,
			PerpetratorID: row.PerpetratorID,
			AttackTypeID:  row.AttackTypeID,
			AdminID:       textAdmin(row.AdminID),
			Description:   row.Description,
			Status:        domain.ReportStatus(deref(row.OriginalStatus)),
			CreatedAt:     row.CreatedAt,
		},
		RejectedBy: domain.AdminID(row.RejectedBy),
		Reason:     row.Reason,
		ArchivedAt: row.ArchivedAt,
	}
}

func toDomainArchivedEvidence(row archivedEvidenceRow) domain.ArchivedEvidence {
	return domain.ArchivedEvidence{
		ArchiveID: row.ArchiveID,
		Original: domain.Evidence{
			ID:          row.OriginalID,
			ReportID:    row.ReportID,
			Kind:        domain.EvidenceKind(row.Kind),
			FilePath:    row.FilePath,
			Status:      domain.EvidenceStatus(deref(row.OriginalStatus)),
			AdminID:     textAdmin(row.AdminID),
			SubmittedAt: row.SubmittedAt,
		},
		RejectedBy: domain.AdminID(row.RejectedBy),
		Reason:     row.Reason,
		WithReport: row.WithReport,
		ArchivedAt: row.ArchivedAt,
	}
}

// statusText stores a blank status as NULL.
func statusText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func adminText(id *domain.AdminID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func textAdmin(s *string) *domain.AdminID {
	if s == nil {
		return nil
	}
	return domain.AdminIDPtr(domain.AdminID(*s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
