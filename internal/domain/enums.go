package domain

// ReportStatus is the moderation state of an active report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusValidated ReportStatus = "validated"
)

func (s ReportStatus) String() string { return string(s) }

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusValidated:
		return true
	}
	return false
}

// EvidenceStatus is the moderation state of an active evidence item.
type EvidenceStatus string

const (
	EvidenceStatusPending  EvidenceStatus = "pending"
	EvidenceStatusVerified EvidenceStatus = "verified"
)

func (s EvidenceStatus) String() string { return string(s) }

func (s EvidenceStatus) IsValid() bool {
	switch s {
	case EvidenceStatusPending, EvidenceStatusVerified:
		return true
	}
	return false
}

// EvidenceKind classifies the submitted evidence file.
type EvidenceKind string

const (
	EvidenceKindScreenshot EvidenceKind = "screenshot"
	EvidenceKindChatLog    EvidenceKind = "chat_log"
	EvidenceKindAudio      EvidenceKind = "audio"
	EvidenceKindVideo      EvidenceKind = "video"
	EvidenceKindDocument   EvidenceKind = "document"
	EvidenceKindOther      EvidenceKind = "other"
)

func (k EvidenceKind) String() string { return string(k) }

func (k EvidenceKind) IsValid() bool {
	switch k {
	case EvidenceKindScreenshot, EvidenceKindChatLog, EvidenceKindAudio,
		EvidenceKindVideo, EvidenceKindDocument, EvidenceKindOther:
		return true
	}
	return false
}

// ThreatLevel is the assessed danger of a perpetrator.
type ThreatLevel string

const (
	ThreatLevelUnderReview ThreatLevel = "under_review"
	ThreatLevelSuspected   ThreatLevel = "suspected"
	ThreatLevelMalicious   ThreatLevel = "malicious"
	ThreatLevelCleared     ThreatLevel = "cleared"
)

func (l ThreatLevel) String() string { return string(l) }

func (l ThreatLevel) IsValid() bool {
	switch l {
	case ThreatLevelUnderReview, ThreatLevelSuspected, ThreatLevelMalicious, ThreatLevelCleared:
		return true
	}
	return false
}

// AccountStatus is the state of a victim's account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusFlagged   AccountStatus = "flagged"
	AccountStatusSuspended AccountStatus = "suspended"
)

func (s AccountStatus) String() string { return string(s) }

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusFlagged, AccountStatusSuspended:
		return true
	}
	return false
}

// IdentifierKind says what a perpetrator's natural key is.
type IdentifierKind string

const (
	IdentifierKindPhone    IdentifierKind = "phone"
	IdentifierKindEmail    IdentifierKind = "email"
	IdentifierKindUsername IdentifierKind = "username"
	IdentifierKindURL      IdentifierKind = "url"
	IdentifierKindOther    IdentifierKind = "other"
)

func (k IdentifierKind) String() string { return string(k) }

func (k IdentifierKind) IsValid() bool {
	switch k {
	case IdentifierKindPhone, IdentifierKindEmail, IdentifierKindUsername,
		IdentifierKindURL, IdentifierKindOther:
		return true
	}
	return false
}

// EscalationTrigger names the rule that raised a perpetrator to Malicious.
type EscalationTrigger string

const (
	EscalationTriggerDistinctVictims EscalationTrigger = "distinct_victims"
	EscalationTriggerEvidencePattern EscalationTrigger = "evidence_pattern"
)

func (t EscalationTrigger) String() string { return string(t) }
