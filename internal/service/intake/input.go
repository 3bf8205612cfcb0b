package intake

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// RegisterVictimInput holds the data for a new victim.
type RegisterVictimInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Contact string `json:"contact" validate:"required,max=320"`
}

// Validate checks all fields and collects all errors.
func (i RegisterVictimInput) Validate() error {
	return domain.ValidateStruct(i.normalized())
}

func (i RegisterVictimInput) normalized() RegisterVictimInput {
	i.Name = strings.TrimSpace(i.Name)
	i.Contact = strings.TrimSpace(i.Contact)
	return i
}

// SubmitReportInput holds a victim's report against a perpetrator. The
// perpetrator is identified by its natural key and created on first report.
type SubmitReportInput struct {
	VictimID        uuid.UUID             `json:"victim_id" validate:"required"`
	Identifier      string                `json:"identifier" validate:"required,max=255"`
	IdentifierKind  domain.IdentifierKind `json:"identifier_kind" validate:"identifier_kind"`
	PerpetratorName *string               `json:"perpetrator_name" validate:"omitempty,max=200"`
	AttackTypeID    int                   `json:"attack_type_id" validate:"required,min=1"`
	Description     string                `json:"description" validate:"required,max=5000"`
}

// Validate checks all fields and collects all errors.
func (i SubmitReportInput) Validate() error {
	return domain.ValidateStruct(i.normalized())
}

func (i SubmitReportInput) normalized() SubmitReportInput {
	i.Identifier = strings.TrimSpace(i.Identifier)
	i.Description = strings.TrimSpace(i.Description)
	if i.PerpetratorName != nil {
		name := strings.TrimSpace(*i.PerpetratorName)
		if name == "" {
			i.PerpetratorName = nil
		} else {
			i.PerpetratorName = &name
		}
	}
	return i
}

// SubmitEvidenceInput attaches a file to an active report.
type SubmitEvidenceInput struct {
	ReportID uuid.UUID           `json:"report_id" validate:"required"`
	Kind     domain.EvidenceKind `json:"kind" validate:"evidence_kind"`
	FilePath string              `json:"file_path" validate:"required,max=1024"`
}

// Validate checks all fields and collects all errors.
func (i SubmitEvidenceInput) Validate() error {
	return domain.ValidateStruct(i.normalized())
}

func (i SubmitEvidenceInput) normalized() SubmitEvidenceInput {
	i.FilePath = strings.TrimSpace(i.FilePath)
	return i
}
