// Package auditlog implements the append-only subject audit trail using
// PostgreSQL. Rows are never updated or deleted; the schema enforces it.
package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/incident-desk/internal/adapter/postgres"
	"github.com/heartmarshall/incident-desk/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new audit log repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// AppendThreatLevel records a perpetrator threat level change.
func (r *Repo) AppendThreatLevel(ctx context.Context, e domain.ThreatLevelLogEntry) error {
	sql, args, err := postgres.Builder().
		Insert("threat_level_log").
		Columns("id", "perpetrator_id", "old_level", "new_level", "actor", "changed_at").
		Values(e.ID, e.PerpetratorID, string(e.OldLevel), string(e.NewLevel), string(e.Actor), e.ChangedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append threat level: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "threat_level_log", e.ID)
	}
	return nil
}

// AppendAccountStatus records a victim account status change.
func (r *Repo) AppendAccountStatus(ctx context.Context, e domain.AccountStatusLogEntry) error {
	sql, args, err := postgres.Builder().
		Insert("account_status_log").
		Columns("id", "victim_id", "old_status", "new_status", "actor", "changed_at").
		Values(e.ID, e.VictimID, string(e.OldStatus), string(e.NewStatus), string(e.Actor), e.ChangedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append account status: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "account_status_log", e.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListThreatLevel returns the perpetrator's threat level history, oldest first.
func (r *Repo) ListThreatLevel(ctx context.Context, perpetratorID uuid.UUID) ([]domain.ThreatLevelLogEntry, error) {
	sql, args, err := postgres.Builder().
		Select("id", "perpetrator_id", "old_level", "new_level", "actor", "changed_at").
		From("threat_level_log").
		Where(squirrel.Eq{"perpetrator_id": perpetratorID}).
		OrderBy("changed_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list threat level log: %w", err)
	}

	var rows []threatLevelRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapQueryError(err, "list threat level log")
	}

	out := make([]domain.ThreatLevelLogEntry, len(rows))
	for i, row := range rows {
		out[i] = domain.ThreatLevelLogEntry{
			ID:            row.ID,
			PerpetratorID: row.PerpetratorID,
			OldLevel:      domain.ThreatLevel(row.OldLevel),
			NewLevel:      domain.ThreatLevel(row.NewLevel),
			Actor:         domain.Actor(row.Actor),
			ChangedAt:     row.ChangedAt,
		}
	}
	return out, nil
}

// ListAccountStatus returns the victim's account status history, oldest first.
func (r *Repo) ListAccountStatus(ctx context.Context, victimID uuid.UUID) ([]domain.AccountStatusLogEntry, error) {
	sql, args, err := postgres.Builder().
		Select("id", "victim_id", "old_status", "new_status", "actor", "changed_at").
		From("account_status_log").
		Where(squirrel.Eq{"victim_id": victimID}).
		OrderBy("changed_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list account status log: %w", err)
	}

	var rows []accountStatusRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapQueryError(err, "list account status log")
	}

	out := make([]domain.AccountStatusLogEntry, len(rows))
	for i, row := range rows {
		out[i] = domain.AccountStatusLogEntry{
			ID:        row.ID,
			VictimID:  row.VictimID,
			OldStatus: domain.AccountStatus(row.OldStatus),
			NewStatus: domain.AccountStatus(row.NewStatus),
			Actor:     domain.Actor(row.Actor),
			ChangedAt: row.ChangedAt,
		}
	}
	return out, nil
}

type threatLevelRow struct {
	ID            uuid.UUID `db:"id"`
	PerpetratorID uuid.UUID `db:"perpetrator_id"`
	OldLevel      string    `db:"old_level"`
	NewLevel      string    `db:"new_level"`
	Actor         string    `db:"actor"`
	ChangedAt     time.Time `db:"changed_at"`
}

type accountStatusRow struct {
	ID        uuid.UUID `db:"id"`
	VictimID  uuid.UUID `db:"victim_id"`
	OldStatus string    `db:"old_status"`
	NewStatus string    `db:"new_status"`
	Actor     string    `db:"actor"`
	ChangedAt time.Time `db:"changed_at"`
}
