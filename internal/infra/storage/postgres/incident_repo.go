package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/infra/storage"
)

// IncidentRepo implements storage.IncidentRepository using PostgreSQL.
type IncidentRepo struct {
	db *DB
}

// NewIncidentRepo creates a new PostgreSQL incident repository.
func NewIncidentRepo(db *DB) *IncidentRepo {
	return &IncidentRepo{db: db}
}

var _ storage.IncidentRepository = (*IncidentRepo)(nil)

// Save inserts an incident.
func (r *IncidentRepo) Save(ctx context.Context, inc *domain.Incident) error {
	query := `
		INSERT INTO incidents (id, message, category, severity, action, language, created_at)
		VALUES (:id, :message, :category, :severity, :action, :language, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, inc); err != nil {
		return fmt.Errorf("failed to save incident: %w", err)
	}
	return nil
}

// List returns incidents newest first.
func (r *IncidentRepo) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Incident, error) {
	query := `
		SELECT id, message, category, severity, action, language, created_at
		FROM incidents
		WHERE ($1::text = '' OR severity = $1)
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	var incidents []*domain.Incident
	if err := r.db.SelectContext(ctx, &incidents, query, string(filter.Severity), filter.Limit); err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return incidents, nil
}

// CountBySeverity aggregates stored incidents per severity.
func (r *IncidentRepo) CountBySeverity(ctx context.Context) (domain.SeverityStats, error) {
	query := `SELECT severity, COUNT(*) AS count FROM incidents GROUP BY severity`

	var rows []struct {
		Severity domain.Severity `db:"severity"`
		Count    int64           `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return domain.SeverityStats{}, fmt.Errorf("failed to count incidents: %w", err)
	}

	var stats domain.SeverityStats
	for _, row := range rows {
		stats.Add(row.Severity, row.Count)
	}
	return stats, nil
}

// DeleteOlderThan removes incidents created before cutoff.
func (r *IncidentRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune incidents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
