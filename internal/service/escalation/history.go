package escalation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// ThreatLevelHistory returns every recorded threat level change of the
// perpetrator, oldest first.
func (s *Service) ThreatLevelHistory(ctx context.Context, perpetratorID uuid.UUID) ([]domain.ThreatLevelLogEntry, error) {
	if _, err := s.perps.GetByID(ctx, perpetratorID); err != nil {
		return nil, fmt.Errorf("get perpetrator: %w", err)
	}

	entries, err := s.audit.ListThreatLevel(ctx, perpetratorID)
	if err != nil {
		return nil, fmt.Errorf("list threat level history: %w", err)
	}
	return entries, nil
}

// AccountStatusHistory returns every recorded account status change of the
// victim, oldest first.
func (s *Service) AccountStatusHistory(ctx context.Context, victimID uuid.UUID) ([]domain.AccountStatusLogEntry, error) {
	if _, err := s.victims.GetByID(ctx, victimID); err != nil {
		return nil, fmt.Errorf("get victim: %w", err)
	}

	entries, err := s.audit.ListAccountStatus(ctx, victimID)
	if err != nil {
		return nil, fmt.Errorf("list account status history: %w", err)
	}
	return entries, nil
}
