// Package evidence implements the active evidence store using PostgreSQL.
package evidence

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
	table  = "evidence"
	entity = "evidence"
)

var columns = []string{
	"id", "report_id", "kind", "file_path", "status", "admin_id", "submitted_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides evidence persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new evidence repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts new evidence. An unknown report surfaces as ErrNotFound.
func (r *Repo) Create(ctx context.Context, e domain.Evidence) (domain.Evidence, error) {
	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(values(e)...).
		Suffix(returning)

	return r.getOne(ctx, query, e.ID)
}

// UpdateStatus sets the verification status and the admin who made the change.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EvidenceStatus, adminID domain.AdminID) (domain.Evidence, error) {
	query := postgres.Builder().
		Update(table).
		Set("status", string(status)).
		Set("admin_id", string(adminID)).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning)

	return r.getOne(ctx, query, id)
}

// Delete removes the active row.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete evidence: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

// Upsert writes e under its own id, overwriting an existing active row.
// inserted is false when a row with that id already existed.
func (r *Repo) Upsert(ctx context.Context, e domain.Evidence) (_ domain.Evidence, inserted bool, _ error) {
	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		sets = append(sets, c+" = EXCLUDED."+c)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(values(e)...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ") + " " + returning + ", (xmax = 0) AS inserted").
		ToSql()
	if err != nil {
		return domain.Evidence{}, false, fmt.Errorf("build upsert evidence: %w", err)
	}

	var row upsertRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Evidence{}, false, postgres.MapError(err, entity, e.ID)
	}
	return toDomainEvidence(row.evidenceRow), row.Inserted, nil
}

// GetByID returns the active evidence with the given id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Evidence, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate is GetByID with a row lock held until the transaction ends.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Evidence, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, query, id)
}

// ListByReport returns the report's evidence ordered by submission time.
// Rows are locked so that a concurrent verify cannot race a report rejection.
func (r *Repo) ListByReport(ctx context.Context, reportID uuid.UUID) ([]domain.Evidence, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"report_id": reportID}).
		OrderBy("submitted_at", "id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list evidence: %w", err)
	}

	var rows []evidenceRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "report", reportID)
	}

	out := make([]domain.Evidence, len(rows))
	for i, row := range rows {
		out[i] = toDomainEvidence(row)
	}
	return out, nil
}

// CountVerifiedByPerpetrator counts distinct verified evidence across all
// active reports against the perpetrator.
func (r *Repo) CountVerifiedByPerpetrator(ctx context.Context, perpetratorID uuid.UUID) (int, error) {
	sql, args, err := postgres.Builder().
		Select("count(DISTINCT e.id)").
		From(table + " e").
		Join("reports r ON r.id = e.report_id").
		Where(squirrel.Eq{
			"r.perpetrator_id": perpetratorID,
			"e.status":         string(domain.EvidenceStatusVerified),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count verified evidence: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapQueryError(err, "count verified evidence")
	}
	return n, nil
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, id uuid.UUID) (domain.Evidence, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.Evidence{}, fmt.Errorf("build evidence query: %w", err)
	}

	var row evidenceRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Evidence{}, postgres.MapError(err, entity, id)
	}
	return toDomainEvidence(row), nil
}

type evidenceRow struct {
	ID          uuid.UUID `db:"id"`
	ReportID    uuid.UUID `db:"report_id"`
	Kind        string    `db:"kind"`
	FilePath    string    `db:"file_path"`
	Status      string    `db:"status"`
	AdminID     *string   `db:"admin_id"`
	SubmittedAt time.Time `db:"submitted_at"`
}

type upsertRow struct {
	evidenceRow
	Inserted bool `db:"inserted"`
}

func values(e domain.Evidence) []any {
	var admin *string
	if e.AdminID != nil {
		s := string(*e.AdminID)
		admin = &s
	}
	return []any{e.ID, e.ReportID, string(e.Kind), e.FilePath, string(e.Status), admin, e.SubmittedAt}
}

func toDomainEvidence(row evidenceRow) domain.Evidence {
	e := domain.Evidence{
		ID:          row.ID,
		ReportID:    row.ReportID,
		Kind:        domain.EvidenceKind(row.Kind),
		FilePath:    row.FilePath,
		Status:      domain.EvidenceStatus(row.Status),
		SubmittedAt: row.SubmittedAt,
	}
	if row.AdminID != nil {
		e.AdminID = domain.AdminIDPtr(domain.AdminID(*row.AdminID))
	}
	return e
}
