package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/incident-desk/internal/adapter/postgres"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/archive"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/auditlog"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/evidence"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/perpetrator"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/report"
	"github.com/heartmarshall/incident-desk/internal/adapter/postgres/victim"
	"github.com/heartmarshall/incident-desk/internal/config"
	"github.com/heartmarshall/incident-desk/internal/service/escalation"
	"github.com/heartmarshall/incident-desk/internal/service/intake"
	"github.com/heartmarshall/incident-desk/internal/service/moderation"
	"github.com/heartmarshall/incident-desk/internal/service/restore"
)

// App holds the wired services. The presentation layer and the commands
// drive the engine through these.
type App struct {
	Intake     *intake.Service
	Moderation *moderation.Service
	Escalation *escalation.Service
	Restore    *restore.Service
	Archive    *archive.Repo

	pool *pgxpool.Pool
	log  *slog.Logger
}

// New connects to the database and wires repositories into services.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := Wire(pool, cfg, log)
	a.pool = pool

	log.InfoContext(ctx, "application started",
		slog.String("version", BuildVersion()),
		slog.Bool("transactional_archive", cfg.Moderation.TransactionalArchive),
	)

	return a, nil
}

// Wire builds the services on top of db without owning it.
func Wire(db postgres.DB, cfg *config.Config, log *slog.Logger) *App {
	tx := postgres.NewTxManager(db)

	victims := victim.New(db)
	perpetrators := perpetrator.New(db)
	reports := report.New(db)
	evs := evidence.New(db)
	arch := archive.New(db)
	audit := auditlog.New(db)

	esc := escalation.NewService(log, perpetrators, victims, reports, evs, audit, tx,
		EscalationRules(cfg.Escalation), cfg.Moderation.BatchConcurrency)

	return &App{
		Intake:     intake.NewService(log, victims, perpetrators, reports, evs, esc, tx),
		Moderation: moderation.NewService(log, reports, evs, arch, esc, tx, ModerationConfig(cfg.Moderation)),
		Escalation: esc,
		Restore: restore.NewService(log, arch, reports, evs, tx,
			cfg.Moderation.BatchConcurrency, cfg.Moderation.MaxBatchSize),
		Archive: arch,
		log:     log,
	}
}

// Close releases the database pool if New opened it.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// EscalationRules converts the escalation config section.
func EscalationRules(c config.EscalationConfig) escalation.Rules {
	return escalation.Rules{
		PerpetratorWindow:          c.PerpetratorWindow,
		PerpetratorVictimThreshold: c.PerpetratorVictimThreshold,
		VictimWindowMonths:         c.VictimWindowMonths,
		VictimReportThreshold:      c.VictimReportThreshold,
		EvidencePatternThreshold:   c.EvidencePatternThreshold,
	}
}

// ModerationConfig converts the moderation config section.
func ModerationConfig(c config.ModerationConfig) moderation.Config {
	return moderation.Config{
		DefaultRejectReason:  c.DefaultRejectReason,
		TransactionalArchive: c.TransactionalArchive,
		BatchConcurrency:     c.BatchConcurrency,
		MaxBatchSize:         c.MaxBatchSize,
	}
}
