package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArchivedReport is the recycle-bin copy of a rejected report.
// Original keeps the full field set, including the original ID and status,
// so a restore recreates the same identity.
type ArchivedReport struct {
	ArchiveID  uuid.UUID
	Original   Report
	RejectedBy AdminID
	Reason     string
	ArchivedAt time.Time
}

// NewArchivedReport snapshots r under a fresh archive id.
func NewArchivedReport(r Report, rejectedBy AdminID, reason string, at time.Time) ArchivedReport {
	return ArchivedReport{
		ArchiveID:  uuid.New(),
		Original:   r,
		RejectedBy: rejectedBy,
		Reason:     reason,
		ArchivedAt: at,
	}
}

// RestoredReport returns the active row a restore should produce.
// A blank original status restores as pending.
func (a ArchivedReport) RestoredReport() Report {
	r := a.Original
	if r.Status == "" {
		r.Status = ReportStatusPending
	}
	return r
}

// ArchivedEvidence is the recycle-bin copy of rejected evidence.
// WithReport is set when the evidence was archived because its report was
// rejected; only such evidence comes back when the report is restored.
type ArchivedEvidence struct {
	ArchiveID  uuid.UUID
	Original   Evidence
	RejectedBy AdminID
	Reason     string
	WithReport bool
	ArchivedAt time.Time
}

// NewArchivedEvidence snapshots e under a fresh archive id.
func NewArchivedEvidence(e Evidence, rejectedBy AdminID, reason string, at time.Time) ArchivedEvidence {
	return ArchivedEvidence{
		ArchiveID:  uuid.New(),
		Original:   e,
		RejectedBy: rejectedBy,
		Reason:     reason,
		ArchivedAt: at,
	}
}

// NewArchivedEvidenceWithReport snapshots e as part of rejecting its report.
func NewArchivedEvidenceWithReport(e Evidence, rejectedBy AdminID, reason string, at time.Time) ArchivedEvidence {
	a := NewArchivedEvidence(e, rejectedBy, reason, at)
	a.WithReport = true
	return a
}

// RestoredEvidence returns the active row a restore should produce.
func (a ArchivedEvidence) RestoredEvidence() Evidence {
	e := a.Original
	if e.Status == "" {
		e.Status = EvidenceStatusPending
	}
	return e
}
