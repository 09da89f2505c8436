package storage

import (
	"context"
	"time"

	"github.com/vietddude/triage/internal/core/domain"
)

// ListFilter narrows an incident listing.
type ListFilter struct {
	// Limit caps the number of rows; callers must pass a positive value.
	Limit int
	// Severity keeps only incidents of this severity when non-empty.
	Severity domain.Severity
}

// IncidentRepository handles incident storage operations
type IncidentRepository interface {
	// Save stores a classified incident
	Save(ctx context.Context, inc *domain.Incident) error

	// List returns incidents newest first
	List(ctx context.Context, filter ListFilter) ([]*domain.Incident, error)

	// CountBySeverity aggregates stored incidents per severity
	CountBySeverity(ctx context.Context) (domain.SeverityStats, error)

	// DeleteOlderThan removes incidents created before cutoff and returns how many were removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatsRecorder keeps running severity counters outside the incident table
type StatsRecorder interface {
	// Record increments the counter for sev
	Record(ctx context.Context, sev domain.Severity) error

	// Counts returns the current counters
	Counts(ctx context.Context) (domain.SeverityStats, error)
}
