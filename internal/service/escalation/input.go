package escalation

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// SetThreatLevelInput holds the parameters of a manual threat level override.
type SetThreatLevelInput struct {
	PerpetratorID uuid.UUID          `json:"perpetrator_id" validate:"required"`
	Level         domain.ThreatLevel `json:"level" validate:"threat_level"`
	AdminID       domain.AdminID     `json:"admin_id" validate:"admin_id"`
}

// Validate checks all fields and collects all errors.
func (i SetThreatLevelInput) Validate() error {
	return domain.ValidateStruct(i)
}

// SetAccountStatusInput holds the parameters of a manual account status override.
type SetAccountStatusInput struct {
	VictimID uuid.UUID            `json:"victim_id" validate:"required"`
	Status   domain.AccountStatus `json:"status" validate:"account_status"`
	AdminID  domain.AdminID       `json:"admin_id" validate:"admin_id"`
}

// Validate checks all fields and collects all errors.
func (i SetAccountStatusInput) Validate() error {
	return domain.ValidateStruct(i)
}
