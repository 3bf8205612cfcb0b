package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// RegisterVictim creates an active victim.
func (s *Service) RegisterVictim(ctx context.Context, input RegisterVictimInput) (*domain.Victim, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.normalized()

	v, err := s.victims.Create(ctx, domain.Victim{
		ID:            uuid.New(),
		Name:          input.Name,
		Contact:       input.Contact,
		AccountStatus: domain.AccountStatusActive,
		CreatedAt:     s.clock(),
	})
	if err != nil {
		return nil, fmt.Errorf("register victim: %w", err)
	}

	s.log.InfoContext(ctx, "victim registered", slog.String("victim_id", v.ID.String()))

	return &v, nil
}
