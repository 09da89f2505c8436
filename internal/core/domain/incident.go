package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the outcome of classifying one incident text.
type Verdict struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
}

// Action is the follow-up recommended for an incident.
type Action string

const (
	ActionEscalate    Action = "Escalate immediately"
	ActionInvestigate Action = "Investigate within 30 minutes"
	ActionNone        Action = "No action required"
)

// ActionFor derives the follow-up action from a severity.
func ActionFor(sev Severity) Action {
	switch sev {
	case SeverityCritical:
		return ActionEscalate
	case SeverityHigh:
		return ActionInvestigate
	default:
		return ActionNone
	}
}

// Incident is an ingested and classified incident report.
type Incident struct {
	ID        uuid.UUID `json:"id"         db:"id"`
	Message   string    `json:"message"    db:"message"`
	Category  Category  `json:"category"   db:"category"`
	Severity  Severity  `json:"severity"   db:"severity"`
	Action    Action    `json:"action"     db:"action"`
	Language  string    `json:"language"   db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SeverityStats counts incidents per severity.
type SeverityStats struct {
	Total    int64 `json:"total"`
	Critical int64 `json:"critical"`
	High     int64 `json:"high"`
	Medium   int64 `json:"medium"`
	Low      int64 `json:"low"`
}

// Add increments the counter for sev by n. Unknown severities only count
// toward Total.
func (s *SeverityStats) Add(sev Severity, n int64) {
	s.Total += n
	switch sev {
	case SeverityCritical:
		s.Critical += n
	case SeverityHigh:
		s.High += n
	case SeverityMedium:
		s.Medium += n
	case SeverityLow:
		s.Low += n
	}
}
