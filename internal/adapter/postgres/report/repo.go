// Package report implements the active report store using PostgreSQL.
package report

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
	table  = "reports"
	entity = "report"
)

var columns = []string{
	"id", "victim_id", "perpetrator_id", "attack_type_id",
	"admin_id", "description", "status", "created_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides report persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new report repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new report and returns the persisted row.
func (r *Repo) Create(ctx context.Context, rep domain.Report) (domain.Report, error) {
	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			rep.ID, rep.VictimID, rep.PerpetratorID, rep.AttackTypeID,
			adminIDToText(rep.AdminID), rep.Description, string(rep.Status), rep.CreatedAt,
		).
		Suffix(returning)

	return r.getOne(ctx, query, rep.ID)
}

// UpdateStatus sets the moderation status and the admin who made the change.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus, adminID domain.AdminID) (domain.Report, error) {
	query := postgres.Builder().
		Update(table).
		Set("status", string(status)).
		Set("admin_id", string(adminID)).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning)

	return r.getOne(ctx, query, id)
}

// Delete removes the active row. Evidence must be gone first.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete report: %w", err)
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

// Upsert writes rep under its own id, overwriting an existing active row.
// inserted is false when a row with that id already existed.
func (r *Repo) Upsert(ctx context.Context, rep domain.Report) (_ domain.Report, inserted bool, _ error) {
	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns[1:] {
		sets = append(sets, c+" = EXCLUDED."+c)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			rep.ID, rep.VictimID, rep.PerpetratorID, rep.AttackTypeID,
			adminIDToText(rep.AdminID), rep.Description, string(rep.Status), rep.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(sets, ", ") + " " + returning + ", (xmax = 0) AS inserted").
		ToSql()
	if err != nil {
		return domain.Report{}, false, fmt.Errorf("build upsert report: %w", err)
	}

	var row upsertRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Report{}, false, postgres.MapError(err, entity, rep.ID)
	}

	return toDomainReport(row.reportRow), row.Inserted, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns the active report with the given id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate is GetByID with a row lock held until the transaction ends.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, query, id)
}

// CountDistinctVictims counts distinct victims of active reports against the
// perpetrator created in (from, to].
func (r *Repo) CountDistinctVictims(ctx context.Context, perpetratorID uuid.UUID, from, to time.Time) (int, error) {
	query := postgres.Builder().
		Select("count(DISTINCT victim_id)").
		From(table).
		Where(squirrel.Eq{"perpetrator_id": perpetratorID}).
		Where(squirrel.Gt{"created_at": from}).
		Where(squirrel.LtOrEq{"created_at": to})

	return r.count(ctx, query, "count distinct victims")
}

// CountByVictim counts the victim's active reports created in (from, to].
func (r *Repo) CountByVictim(ctx context.Context, victimID uuid.UUID, from, to time.Time) (int, error) {
	query := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(squirrel.Eq{"victim_id": victimID}).
		Where(squirrel.Gt{"created_at": from}).
		Where(squirrel.LtOrEq{"created_at": to})

	return r.count(ctx, query, "count reports by victim")
}

// ListVictimsOverThreshold returns active victims with more than threshold
// reports created in (from, to].
func (r *Repo) ListVictimsOverThreshold(ctx context.Context, from, to time.Time, threshold int) ([]uuid.UUID, error) {
	sql, args, err := postgres.Builder().
		Select("r.victim_id").
		From(table + " r").
		Join("victims v ON v.id = r.victim_id").
		Where(squirrel.Eq{"v.account_status": string(domain.AccountStatusActive)}).
		Where(squirrel.Gt{"r.created_at": from}).
		Where(squirrel.LtOrEq{"r.created_at": to}).
		GroupBy("r.victim_id").
		Having("count(*) > ?", threshold).
		OrderBy("r.victim_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list victims over threshold: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, sql, args...); err != nil {
		return nil, postgres.MapQueryError(err, "list victims over threshold")
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, id uuid.UUID) (domain.Report, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("build report query: %w", err)
	}

	var row reportRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Report{}, postgres.MapError(err, entity, id)
	}
	return toDomainReport(row), nil
}

func (r *Repo) count(ctx context.Context, query squirrel.SelectBuilder, op string) (int, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapQueryError(err, op)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

type reportRow struct {
	ID            uuid.UUID `db:"id"`
	VictimID      uuid.UUID `db:"victim_id"`
	PerpetratorID uuid.UUID `db:"perpetrator_id"`
	AttackTypeID  int       `db:"attack_type_id"`
	AdminID       *string   `db:"admin_id"`
	Description   string    `db:"description"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

type upsertRow struct {
	reportRow
	Inserted bool `db:"inserted"`
}

func toDomainReport(row reportRow) domain.Report {
	rep := domain.Report{
		ID:            row.ID,
		VictimID:      row.VictimID,
		PerpetratorID: row.PerpetratorID,
		AttackTypeID:  row.AttackTypeID,
		Description:   row.Description,
		Status:        domain.ReportStatus(row.Status),
		CreatedAt:     row.CreatedAt,
	}
	if row.AdminID != nil {
		rep.AdminID = domain.AdminIDPtr(domain.AdminID(*row.AdminID))
	}
	return rep
}

func adminIDToText(id *domain.AdminID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}
