package domain

import (
	"time"

	"github.com/google/uuid"
)

// Perpetrator is the suspected source of one or more reports.
// Identifier is the unique natural key (phone number, handle, ...).
type Perpetrator struct {
	ID             uuid.UUID
	Identifier     string
	IdentifierKind IdentifierKind
	DisplayName    *string
	ThreatLevel    ThreatLevel
	LastIncidentAt *time.Time
}

// Victim is the person on whose behalf reports are filed.
type Victim struct {
	ID            uuid.UUID
	Name          string
	Contact       string
	AccountStatus AccountStatus
	CreatedAt     time.Time
}

// Escalation is the out-of-band notice that an automatic rule raised a
// perpetrator's threat level.
type Escalation struct {
	PerpetratorID uuid.UUID
	From          ThreatLevel
	To            ThreatLevel
	Trigger       EscalationTrigger
	Count         int
	At            time.Time
}
