// Package victim implements the victim store using PostgreSQL.
package victim

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
	table  = "victims"
	entity = "victim"
)

var columns = []string{"id", "name", "contact", "account_status", "created_at"}

// Repo provides victim persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new victim repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// Create inserts a new victim.
func (r *Repo) Create(ctx context.Context, v domain.Victim) (domain.Victim, error) {
	query := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(v.ID, v.Name, v.Contact, string(v.AccountStatus), v.CreatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, v.ID)
}

// UpdateAccountStatus stores a new account status. Callers write the audit entry.
func (r *Repo) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (domain.Victim, error) {
	query := postgres.Builder().
		Update(table).
		Set("account_status", string(status)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", "))

	return r.getOne(ctx, query, id)
}

// GetByID returns the victim with the given id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Victim, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate locks the victim row until the transaction ends.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Victim, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, query, id)
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, id uuid.UUID) (domain.Victim, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.Victim{}, fmt.Errorf("build victim query: %w", err)
	}

	var row victimRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return domain.Victim{}, postgres.MapError(err, entity, id)
	}
	return domain.Victim{
		ID:            row.ID,
		Name:          row.Name,
		Contact:       row.Contact,
		AccountStatus: domain.AccountStatus(row.AccountStatus),
		CreatedAt:     row.CreatedAt,
	}, nil
}

type victimRow struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	Contact       string    `db:"contact"`
	AccountStatus string    `db:"account_status"`
	CreatedAt     time.Time `db:"created_at"`
}
