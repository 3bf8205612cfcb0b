package moderation

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// DecisionInput identifies the entity an administrator acts on.
type DecisionInput struct {
	ID      uuid.UUID      `json:"id" validate:"required"`
	AdminID domain.AdminID `json:"admin_id" validate:"admin_id"`
}

// Validate checks all fields and collects all errors.
func (i DecisionInput) Validate() error {
	return domain.ValidateStruct(i)
}

// RejectInput identifies the entity to reject and why. A blank reason is
// replaced with the configured default.
type RejectInput struct {
	ID      uuid.UUID      `json:"id" validate:"required"`
	AdminID domain.AdminID `json:"admin_id" validate:"admin_id"`
	Reason  string         `json:"reason" validate:"max=2000"`
}

// Validate checks all fields and collects all errors.
func (i RejectInput) Validate() error {
	return domain.ValidateStruct(i)
}

// BatchInput holds the ids of one batch call and the acting administrator.
type BatchInput struct {
	IDs     []uuid.UUID    `json:"ids"`
	AdminID domain.AdminID `json:"admin_id" validate:"admin_id"`
	Reason  string         `json:"reason" validate:"max=2000"`
}

// Validate checks all fields and collects all errors.
func (i BatchInput) Validate() error {
	return domain.ValidateStruct(i)
}
