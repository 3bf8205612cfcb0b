package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// AttackTypeHarassment is one of the attack types seeded by the migrations.
const AttackTypeHarassment = 1

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedVictim creates an active victim.
func SeedVictim(t *testing.T, pool *pgxpool.Pool) domain.Victim {
	t.Helper()
	ctx := context.Background()
	suffix := uniqueSuffix()

	v := domain.Victim{
		ID:            uuid.New(),
		Name:          "Victim " + suffix,
		Contact:       "victim-" + suffix + "@example.com",
		AccountStatus: domain.AccountStatusActive,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO victims (id, name, contact, account_status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.Name, v.Contact, string(v.AccountStatus), v.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVictim insert: %v", err)
	}

	return v
}

// SeedPerpetrator creates a perpetrator under review with a unique identifier.
func SeedPerpetrator(t *testing.T, pool *pgxpool.Pool) domain.Perpetrator {
	t.Helper()
	return SeedPerpetratorWithLevel(t, pool, domain.ThreatLevelUnderReview)
}

// SeedPerpetratorWithLevel creates a perpetrator with the given threat level.
func SeedPerpetratorWithLevel(t *testing.T, pool *pgxpool.Pool, level domain.ThreatLevel) domain.Perpetrator {
	t.Helper()
	ctx := context.Background()

	p := domain.Perpetrator{
		ID:             uuid.New(),
		Identifier:     "+1555" + uniqueSuffix(),
		IdentifierKind: domain.IdentifierKindPhone,
		ThreatLevel:    level,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO perpetrators (id, identifier, identifier_kind, threat_level)
		 VALUES ($1, $2, $3, $4)`,
		p.ID, p.Identifier, string(p.IdentifierKind), string(p.ThreatLevel),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPerpetrator insert: %v", err)
	}

	return p
}

// SeedReport creates a pending report created now.
func SeedReport(t *testing.T, pool *pgxpool.Pool, victimID, perpetratorID uuid.UUID) domain.Report {
	t.Helper()
	return SeedReportAt(t, pool, victimID, perpetratorID, time.Now().UTC())
}

// SeedReportAt creates a pending report with the given created_at.
func SeedReportAt(t *testing.T, pool *pgxpool.Pool, victimID, perpetratorID uuid.UUID, createdAt time.Time) domain.Report {
	t.Helper()
	ctx := context.Background()

	r := domain.Report{
		ID:            uuid.New(),
		VictimID:      victimID,
		PerpetratorID: perpetratorID,
		AttackTypeID:  AttackTypeHarassment,
		Description:   "seeded report " + uniqueSuffix(),
		Status:        domain.ReportStatusPending,
		CreatedAt:     createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO reports (id, victim_id, perpetrator_id, attack_type_id, description, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.VictimID, r.PerpetratorID, r.AttackTypeID, r.Description, string(r.Status), r.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReport insert: %v", err)
	}

	return r
}

// SeedEvidence creates evidence with the given status attached to a report.
func SeedEvidence(t *testing.T, pool *pgxpool.Pool, reportID uuid.UUID, status domain.EvidenceStatus) domain.Evidence {
	t.Helper()
	ctx := context.Background()

	e := domain.Evidence{
		ID:          uuid.New(),
		ReportID:    reportID,
		Kind:        domain.EvidenceKindScreenshot,
		FilePath:    "evidence/" + uniqueSuffix() + ".png",
		Status:      status,
		SubmittedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO evidence (id, report_id, kind, file_path, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ReportID, string(e.Kind), e.FilePath, string(e.Status), e.SubmittedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvidence insert: %v", err)
	}

	return e
}

// SeedArchivedReport writes an archive copy of r without touching the active row.
// Useful for building collisions.
func SeedArchivedReport(t *testing.T, pool *pgxpool.Pool, r domain.Report, rejectedBy domain.AdminID) domain.ArchivedReport {
	t.Helper()
	ctx := context.Background()

	a := domain.NewArchivedReport(r, rejectedBy, "seeded", time.Now().UTC().Truncate(time.Microsecond))

	_, err := pool.Exec(ctx,
		`INSERT INTO archived_reports (archive_id, original_id, victim_id, perpetrator_id, attack_type_id,
		     admin_id, description, original_status, created_at, rejected_by, reason, archived_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ArchiveID, r.ID, r.VictimID, r.PerpetratorID, r.AttackTypeID,
		r.AdminID, r.Description, string(r.Status), r.CreatedAt, string(rejectedBy), a.Reason, a.ArchivedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedArchivedReport insert: %v", err)
	}

	return a
}

// CountRows returns the number of rows in table matching id on column.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, column string, id uuid.UUID) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM `+table+` WHERE `+column+` = $1`, id,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: CountRows %s: %v", table, err)
	}
	return n
}
