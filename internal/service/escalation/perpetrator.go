package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// OnReportCreated applies the distinct-victims rule to the perpetrator of a
// newly created report. It returns the escalation notice when the threat
// level was raised, nil otherwise. Calling it again without new reports is a
// no-op.
func (s *Service) OnReportCreated(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error) {
	var esc *domain.Escalation

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.perps.GetByIDForUpdate(ctx, perpetratorID)
		if err != nil {
			return fmt.Errorf("lock perpetrator: %w", err)
		}
		if p.ThreatLevel == domain.ThreatLevelMalicious {
			return nil
		}

		now := s.clock()
		n, err := s.reports.CountDistinctVictims(ctx, perpetratorID, s.rules.PerpetratorWindowStart(now), now)
		if err != nil {
			return fmt.Errorf("count distinct victims: %w", err)
		}
		if !s.rules.PerpetratorEscalates(n, p.ThreatLevel) {
			return nil
		}

		esc, err = s.escalate(ctx, p, domain.EscalationTriggerDistinctVictims, n, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate perpetrator %s: %w", perpetratorID, err)
	}

	return esc, nil
}

// OnEvidenceVerified applies the evidence-pattern rule: enough verified
// evidence across the perpetrator's active reports raises it to Malicious.
func (s *Service) OnEvidenceVerified(ctx context.Context, perpetratorID uuid.UUID) (*domain.Escalation, error) {
	var esc *domain.Escalation

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.perps.GetByIDForUpdate(ctx, perpetratorID)
		if err != nil {
			return fmt.Errorf("lock perpetrator: %w", err)
		}
		if p.ThreatLevel == domain.ThreatLevelMalicious {
			return nil
		}

		n, err := s.evidence.CountVerifiedByPerpetrator(ctx, perpetratorID)
		if err != nil {
			return fmt.Errorf("count verified evidence: %w", err)
		}
		if !s.rules.EvidenceEscalates(n, p.ThreatLevel) {
			return nil
		}

		esc, err = s.escalate(ctx, p, domain.EscalationTriggerEvidencePattern, n, s.clock())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate evidence pattern for perpetrator %s: %w", perpetratorID, err)
	}

	return esc, nil
}

// escalate raises p to Malicious and writes the system-attributed audit
// entry. Must run inside the caller's transaction with p locked.
func (s *Service) escalate(
	ctx context.Context,
	p domain.Perpetrator,
	trigger domain.EscalationTrigger,
	count int,
	now time.Time,
) (*domain.Escalation, error) {
	if _, err := s.perps.UpdateThreatLevel(ctx, p.ID, domain.ThreatLevelMalicious); err != nil {
		return nil, fmt.Errorf("update threat level: %w", err)
	}

	if err := s.audit.AppendThreatLevel(ctx, domain.ThreatLevelLogEntry{
		ID:            uuid.New(),
		PerpetratorID: p.ID,
		OldLevel:      p.ThreatLevel,
		NewLevel:      domain.ThreatLevelMalicious,
		Actor:         domain.SystemActor,
		ChangedAt:     now,
	}); err != nil {
		return nil, fmt.Errorf("audit threat level: %w", err)
	}

	s.log.InfoContext(ctx, "perpetrator escalated",
		slog.String("perpetrator_id", p.ID.String()),
		slog.String("from", p.ThreatLevel.String()),
		slog.String("trigger", trigger.String()),
		slog.Int("count", count),
	)

	return &domain.Escalation{
		PerpetratorID: p.ID,
		From:          p.ThreatLevel,
		To:            domain.ThreatLevelMalicious,
		Trigger:       trigger,
		Count:         count,
		At:            now,
	}, nil
}
