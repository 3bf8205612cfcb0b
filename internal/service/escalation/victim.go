package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
	"github.com/heartmarshall/incident-desk/internal/service/batch"
)

// SweepResult summarises one SweepVictims pass.
type SweepResult struct {
	Candidates int
	Flagged    int
	Failed     int
	Errors     []domain.BatchError
}

// OnVictimActivity applies the monthly report rule to a victim. It returns
// true when the account was flagged by this call.
func (s *Service) OnVictimActivity(ctx context.Context, victimID uuid.UUID) (bool, error) {
	flagged := false

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		v, err := s.victims.GetByIDForUpdate(ctx, victimID)
		if err != nil {
			return fmt.Errorf("lock victim: %w", err)
		}
		if v.AccountStatus != domain.AccountStatusActive {
			return nil
		}

		now := s.clock()
		n, err := s.reports.CountByVictim(ctx, victimID, s.rules.VictimWindowStart(now), now)
		if err != nil {
			return fmt.Errorf("count victim reports: %w", err)
		}
		if !s.rules.VictimFlags(n, v.AccountStatus) {
			return nil
		}

		if _, err := s.victims.UpdateAccountStatus(ctx, victimID, domain.AccountStatusFlagged); err != nil {
			return fmt.Errorf("update account status: %w", err)
		}
		if err := s.audit.AppendAccountStatus(ctx, domain.AccountStatusLogEntry{
			ID:        uuid.New(),
			VictimID:  victimID,
			OldStatus: v.AccountStatus,
			NewStatus: domain.AccountStatusFlagged,
			Actor:     domain.SystemActor,
			ChangedAt: now,
		}); err != nil {
			return fmt.Errorf("audit account status: %w", err)
		}

		s.log.InfoContext(ctx, "victim account flagged",
			slog.String("victim_id", victimID.String()),
			slog.Int("reports_in_window", n),
		)
		flagged = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("evaluate victim %s: %w", victimID, err)
	}

	return flagged, nil
}

// SweepVictims applies the victim rule to every active victim currently over
// the threshold. Each victim is evaluated in its own transaction; one failure
// does not stop the sweep.
func (s *Service) SweepVictims(ctx context.Context) (SweepResult, error) {
	now := s.clock()

	candidates, err := s.reports.ListVictimsOverThreshold(ctx, s.rules.VictimWindowStart(now), now, s.rules.VictimReportThreshold)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list sweep candidates: %w", err)
	}

	var flagged atomic.Int64
	res := batch.Run(ctx, s.log, "sweep_victims", candidates, s.sweepConcurrency, func(ctx context.Context, id uuid.UUID) error {
		ok, err := s.OnVictimActivity(ctx, id)
		if ok {
			flagged.Add(1)
		}
		return err
	})

	return SweepResult{
		Candidates: len(candidates),
		Flagged:    int(flagged.Load()),
		Failed:     res.Failed,
		Errors:     res.Errors,
	}, nil
}
