package escalation

import (
	"time"

	"github.com/heartmarshall/incident-desk/internal/domain"
)

// Rules holds the escalation thresholds. A perpetrator escalates when the
// count reaches its threshold; a victim is flagged only when the count
// exceeds its threshold.
type Rules struct {
	PerpetratorWindow          time.Duration
	PerpetratorVictimThreshold int
	VictimWindowMonths         int
	VictimReportThreshold      int
	EvidencePatternThreshold   int
}

// DefaultRules returns the production thresholds: 3 distinct victims in 7
// days, more than 5 reports in one calendar month, 3 verified evidence.
func DefaultRules() Rules {
	return Rules{
		PerpetratorWindow:          7 * 24 * time.Hour,
		PerpetratorVictimThreshold: 3,
		VictimWindowMonths:         1,
		VictimReportThreshold:      5,
		EvidencePatternThreshold:   3,
	}
}

// PerpetratorWindowStart returns the exclusive lower bound of the window
// ending at now.
func (r Rules) PerpetratorWindowStart(now time.Time) time.Time {
	return now.Add(-r.PerpetratorWindow)
}

// VictimWindowStart returns the exclusive lower bound of the calendar-month
// window ending at now.
func (r Rules) VictimWindowStart(now time.Time) time.Time {
	return now.AddDate(0, -r.VictimWindowMonths, 0)
}

// PerpetratorEscalates reports whether distinctVictims warrants raising a
// perpetrator currently at level to Malicious.
func (r Rules) PerpetratorEscalates(distinctVictims int, level domain.ThreatLevel) bool {
	return level != domain.ThreatLevelMalicious && distinctVictims >= r.PerpetratorVictimThreshold
}

// EvidenceEscalates reports whether verified evidence warrants raising a
// perpetrator currently at level to Malicious.
func (r Rules) EvidenceEscalates(verified int, level domain.ThreatLevel) bool {
	return level != domain.ThreatLevelMalicious && verified >= r.EvidencePatternThreshold
}

// VictimFlags reports whether reports warrants flagging a victim whose
// account currently has status. Only active accounts are flagged.
func (r Rules) VictimFlags(reports int, status domain.AccountStatus) bool {
	return status == domain.AccountStatusActive && reports > r.VictimReportThreshold
}
