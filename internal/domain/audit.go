package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdminID is the opaque administrator identifier handed over by the identity
// store. The engine never interprets it beyond attribution.
type AdminID string

func (id AdminID) String() string { return string(id) }

// IsValid reports whether id is non-blank and fits the audit column.
func (id AdminID) IsValid() bool {
	trimmed := strings.TrimSpace(string(id))
	return trimmed != "" && len(trimmed) <= 128
}

// AdminIDPtr returns a pointer to id, for optional admin columns.
func AdminIDPtr(id AdminID) *AdminID { return &id }

// Actor attributes an audit entry. It is never empty: rule-triggered changes
// use SystemActor, admin changes use AdminActor.
type Actor string

// SystemActor attributes changes made by automatic escalation rules.
const SystemActor Actor = "system"

const adminActorPrefix = "admin:"

// AdminActor attributes a change to the given administrator.
func AdminActor(id AdminID) Actor {
	return Actor(adminActorPrefix + strings.TrimSpace(string(id)))
}

func (a Actor) String() string { return string(a) }

// IsSystem reports whether the change was made by an automatic rule.
func (a Actor) IsSystem() bool { return a == SystemActor }

// AdminID returns the administrator behind a, if any.
func (a Actor) AdminID() (AdminID, bool) {
	rest, ok := strings.CutPrefix(string(a), adminActorPrefix)
	if !ok || rest == "" {
		return "", false
	}
	return AdminID(rest), true
}

func (a Actor) IsValid() bool {
	if a.IsSystem() {
		return true
	}
	_, ok := a.AdminID()
	return ok
}

// ThreatLevelLogEntry records one change of a perpetrator's threat level.
// Entries are immutable once written.
type ThreatLevelLogEntry struct {
	ID            uuid.UUID
	PerpetratorID uuid.UUID
	OldLevel      ThreatLevel
	NewLevel      ThreatLevel
	Actor         Actor
	ChangedAt     time.Time
}

// AccountStatusLogEntry records one change of a victim's account status.
type AccountStatusLogEntry struct {
	ID        uuid.UUID
	VictimID  uuid.UUID
	OldStatus AccountStatus
	NewStatus AccountStatus
	Actor     Actor
	ChangedAt time.Time
}
