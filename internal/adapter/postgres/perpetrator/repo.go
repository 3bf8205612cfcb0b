// Package perpetrator implements the perpetrator store using PostgreSQL.
package perpetrator

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
	table  = "perpetrators"
	entity = "perpetrator"
)

var columns = []string{
	"id", "identifier", "identifier_kind", "display_name", "threat_level", "last_incident_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides perpetrator persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new perpetrator repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// GetOrCreate returns the perpetrator with p.Identifier, inserting p when no
// such row exists. created reports whether the insert happened. An existing
// row keeps its threat level; a missing display name is filled in from p.
func (r *Repo) GetOrCreate(ctx context.Context, p domain.Perpetrator) (_ domain.Perpetrator, created bool, _ error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "identifier", "identifier_kind", "display_name", "threat_level").
		Values(p.ID, p.Identifier, string(p.IdentifierKind), p.DisplayName, string(p.ThreatLevel)).
		Suffix("ON CONFLICT (identifier) DO UPDATE SET display_name = COALESCE(" + table + ".display_name, EXCLUDED.display_name) " +
			returning + ", (xmax = 0) AS inserted").
		ToSql()
	if err != nil {
		return domain.Perpetrator{}, false, fmt.Errorf("build get-or-create perpetrator: %w", err)
	}

	var row struct {
		perpetratorRow
		Inserted bool `db:"inserted"`
	}
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Perpetrator{}, false, postgres.MapError(err, entity, p.ID)
	}
	return toDomainPerpetrator(row.perpetratorRow), row.Inserted, nil
}

// UpdateThreatLevel stores a new threat level. Callers write the audit entry.
func (r *Repo) UpdateThreatLevel(ctx context.Context, id uuid.UUID, level domain.ThreatLevel) (domain.Perpetrator, error) {
	query := postgres.Builder().
		Update(table).
		Set("threat_level", string(level)).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning)

	return r.getOne(ctx, query, id)
}

// TouchLastIncident moves last_incident_at forward to at; it never moves back.
func (r *Repo) TouchLastIncident(ctx context.Context, id uuid.UUID, at time.Time) error {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("last_incident_at", squirrel.Expr("GREATEST(COALESCE(last_incident_at, ?), ?)", at, at)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch perpetrator: %w", err)
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

// GetByID returns the perpetrator with the given id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate locks the perpetrator row until the transaction ends.
// Escalation takes this lock before counting so two evaluations of the same
// perpetrator serialize.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Perpetrator, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, query, id)
}

// GetByIdentifier looks a perpetrator up by its natural key.
func (r *Repo) GetByIdentifier(ctx context.Context, identifier string) (domain.Perpetrator, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return domain.Perpetrator{}, fmt.Errorf("build perpetrator by identifier: %w", err)
	}

	var row perpetratorRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return domain.Perpetrator{}, fmt.Errorf("%s %q: %w", entity, identifier, domain.ErrNotFound)
		}
		return domain.Perpetrator{}, postgres.MapQueryError(err, "get perpetrator by identifier")
	}
	return toDomainPerpetrator(row), nil
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, id uuid.UUID) (domain.Perpetrator, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.Perpetrator{}, fmt.Errorf("build perpetrator query: %w", err)
	}

	var row perpetratorRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Perpetrator{}, postgres.MapError(err, entity, id)
	}
	return toDomainPerpetrator(row), nil
}

type perpetratorRow struct {
	ID             uuid.UUID  `db:"id"`
	Identifier     string     `db:"identifier"`
	IdentifierKind string     `db:"identifier_kind"`
	DisplayName    *string    `db:"display_name"`
	ThreatLevel    string     `db:"threat_level"`
	LastIncidentAt *time.Time `db:"last_incident_at"`
}

func toDomainPerpetrator(row perpetratorRow) domain.Perpetrator {
	return domain.Perpetrator{
		ID:             row.ID,
		Identifier:     row.Identifier,
		IdentifierKind: domain.IdentifierKind(row.IdentifierKind),
		DisplayName:    row.DisplayName,
		ThreatLevel:    domain.ThreatLevel(row.ThreatLevel),
		LastIncidentAt: row.LastIncidentAt,
	}
}
