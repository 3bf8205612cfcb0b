package escalation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// SetThreatLevel sets a perpetrator's threat level to any valid value on an
// administrator's behalf. The change is always audited, even when the level
// is unchanged.
func (s *Service) SetThreatLevel(ctx context.Context, perpetratorID uuid.UUID, level domain.ThreatLevel, adminID domain.AdminID) (*domain.Perpetrator, error) {
	input := SetThreatLevelInput{PerpetratorID: perpetratorID, Level: level, AdminID: adminID}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated domain.Perpetrator
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.perps.GetByIDForUpdate(ctx, perpetratorID)
		if err != nil {
			return fmt.Errorf("lock perpetrator: %w", err)
		}

		updated, err = s.perps.UpdateThreatLevel(ctx, perpetratorID, level)
		if err != nil {
			return fmt.Errorf("update threat level: %w", err)
		}

		return s.audit.AppendThreatLevel(ctx, domain.ThreatLevelLogEntry{
			ID:            uuid.New(),
			PerpetratorID: perpetratorID,
			OldLevel:      p.ThreatLevel,
			NewLevel:      level,
			Actor:         domain.AdminActor(adminID),
			ChangedAt:     s.clock(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("set threat level of perpetrator %s: %w", perpetratorID, err)
	}

	s.log.InfoContext(ctx, "threat level overridden",
		slog.String("perpetrator_id", perpetratorID.String()),
		slog.String("level", level.String()),
		slog.String("admin_id", adminID.String()),
	)

	return &updated, nil
}

// SetAccountStatus sets a victim's account status to any valid value on an
// administrator's behalf. The change is always audited.
func (s *Service) SetAccountStatus(ctx context.Context, victimID uuid.UUID, status domain.AccountStatus, adminID domain.AdminID) (*domain.Victim, error) {
	input := SetAccountStatusInput{VictimID: victimID, Status: status, AdminID: adminID}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated domain.Victim
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		v, err := s.victims.GetByIDForUpdate(ctx, victimID)
		if err != nil {
			return fmt.Errorf("lock victim: %w", err)
		}

		updated, err = s.victims.UpdateAccountStatus(ctx, victimID, status)
		if err != nil {
			return fmt.Errorf("update account status: %w", err)
		}

		return s.audit.AppendAccountStatus(ctx, domain.AccountStatusLogEntry{
			ID:        uuid.New(),
			VictimID:  victimID,
			OldStatus: v.AccountStatus,
			NewStatus: status,
			Actor:     domain.AdminActor(adminID),
			ChangedAt: s.clock(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("set account status of victim %s: %w", victimID, err)
	}

	s.log.InfoContext(ctx, "account status overridden",
		slog.String("victim_id", victimID.String()),
		slog.String("status", status.String()),
		slog.String("admin_id", adminID.String()),
	)

	return &updated, nil
}
