// Command sweep applies the monthly victim rule to every candidate victim
// and resolves entities left in both the active store and the archive by an
// interrupted two-phase rejection. It is intended to be invoked by an
// external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error, 2 = finished with per-item failures.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/incident-desk/internal/app"
	"github.com/heartmarshall/incident-desk/internal/config"
	"github.com/heartmarshall/incident-desk/pkg/ctxutil"
)

func main() {
	skipVictims := flag.Bool("skip-victims", false, "do not run the victim sweep")
	skipReconcile := flag.Bool("skip-reconcile", false, "do not reconcile archive collisions")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, opID := ctxutil.EnsureOperationID(ctx)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	failed := 0

	if !*skipVictims {
		res, err := a.Escalation.SweepVictims(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "victim sweep failed", slog.String("error", err.Error()))
			a.Close()
			os.Exit(1)
		}
		failed += res.Failed
		logger.InfoContext(ctx, "victim sweep completed",
			slog.Int("candidates", res.Candidates),
			slog.Int("flagged", res.Flagged),
			slog.Int("failed", res.Failed),
		)
	}

	if !*skipReconcile {
		res, err := a.Moderation.Reconcile(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "reconcile failed", slog.String("error", err.Error()))
			a.Close()
			os.Exit(1)
		}
		failed += res.Evidence.Failed + res.Reports.Failed
	}

	logger.InfoContext(ctx, "sweep finished",
		slog.String("run", opID),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		a.Close()
		os.Exit(2)
	}
}
