package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is an incident submitted by a victim against a perpetrator.
// It exists only while active; rejected reports live in ArchivedReport.
type Report struct {
	ID            uuid.UUID
	VictimID      uuid.UUID
	PerpetratorID uuid.UUID
	AttackTypeID  int
	AdminID       *AdminID
	Description   string
	Status        ReportStatus
	CreatedAt     time.Time
}

// IsPending reports whether the report still awaits moderation.
func (r Report) IsPending() bool { return r.Status == ReportStatusPending }

// Evidence is a file attached to a report. FilePath is opaque to the engine.
type Evidence struct {
	ID          uuid.UUID
	ReportID    uuid.UUID
	Kind        EvidenceKind
	FilePath    string
	Status      EvidenceStatus
	AdminID     *AdminID
	SubmittedAt time.Time
}

// IsPending reports whether the evidence still awaits verification.
func (e Evidence) IsPending() bool { return e.Status == EvidenceStatusPending }
