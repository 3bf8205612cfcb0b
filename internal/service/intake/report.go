package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// SubmitReportResult is what a successful submission produced.
type SubmitReportResult struct {
	Report domain.Report
	// Escalation is set when the report pushed its perpetrator to malicious.
	Escalation *domain.Escalation
	// VictimFlagged is true when the report flagged the victim's account.
	VictimFlagged bool
}

// SubmitReport stores a pending report and evaluates the perpetrator and
// victim rules before returning. The whole submission is one transaction:
// if a rule evaluation fails the report is not stored either.
func (s *Service) SubmitReport(ctx context.Context, input SubmitReportInput) (*SubmitReportResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.normalized()

	var res SubmitReportResult

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.victims.GetByID(ctx, input.VictimID); err != nil {
			return fmt.Errorf("get victim: %w", err)
		}

		perp, created, err := s.perpetrators.GetOrCreate(ctx, domain.Perpetrator{
			ID:             uuid.New(),
			Identifier:     input.Identifier,
			IdentifierKind: input.IdentifierKind,
			DisplayName:    input.PerpetratorName,
			ThreatLevel:    domain.ThreatLevelUnderReview,
		})
		if err != nil {
			return fmt.Errorf("get or create perpetrator: %w", err)
		}
		if created {
			s.log.InfoContext(ctx, "perpetrator created",
				slog.String("perpetrator_id", perp.ID.String()),
				slog.String("identifier_kind", perp.IdentifierKind.String()),
			)
		}

		now := s.clock()
		res.Report, err = s.reports.Create(ctx, domain.Report{
			ID:            uuid.New(),
			VictimID:      input.VictimID,
			PerpetratorID: perp.ID,
			AttackTypeID:  input.AttackTypeID,
			Description:   input.Description,
			Status:        domain.ReportStatusPending,
			CreatedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}

		if err := s.perpetrators.TouchLastIncident(ctx, perp.ID, now); err != nil {
			return fmt.Errorf("touch perpetrator: %w", err)
		}

		if res.Escalation, err = s.escalation.OnReportCreated(ctx, perp.ID); err != nil {
			return fmt.Errorf("evaluate perpetrator rule: %w", err)
		}
		if res.VictimFlagged, err = s.escalation.OnVictimActivity(ctx, input.VictimID); err != nil {
			return fmt.Errorf("evaluate victim rule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}

	s.log.InfoContext(ctx, "report submitted",
		slog.String("report_id", res.Report.ID.String()),
		slog.String("victim_id", res.Report.VictimID.String()),
		slog.String("perpetrator_id", res.Report.PerpetratorID.String()),
		slog.Bool("escalated", res.Escalation != nil),
		slog.Bool("victim_flagged", res.VictimFlagged),
	)

	return &res, nil
}
