package domain

// Category is an incident classification label such as "database" or "auth".
type Category string

// Severity is the urgency attached to a category.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// DefaultSeverity is returned for categories missing from a SeverityTable.
const DefaultSeverity = SeverityLow

// Severities lists the known severities from most to least urgent.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank orders severities; higher is more urgent. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// SeverityTable maps each trained category to its severity.
type SeverityTable map[Category]Severity

// DefaultSeverityTable returns a fresh copy of the built-in category table.
func DefaultSeverityTable() SeverityTable {
	return SeverityTable{
		"database": SeverityHigh,
		"auth":     SeverityMedium,
		"api":      SeverityHigh,
		"infra":    SeverityCritical,
		"storage":  SeverityMedium,
		"security": SeverityCritical,
	}
}

// Resolve returns the severity configured for category, or DefaultSeverity.
func (t SeverityTable) Resolve(category Category) Severity {
	if sev, ok := t[category]; ok {
		return sev
	}
	return DefaultSeverity
}

// Clone returns an independent copy of the table.
func (t SeverityTable) Clone() SeverityTable {
	out := make(SeverityTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
