package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/triage/internal/infra/storage"
	"github.com/vietddude/triage/internal/metrics"
)

// Pruner deletes incidents older than the retention period.
type Pruner struct {
	retention time.Duration
	repo      storage.IncidentRepository
	now       func() time.Time
}

// NewPruner creates a new Pruner worker. A retention of zero disables it.
func NewPruner(retention time.Duration, repo storage.IncidentRepository) *Pruner {
	return &Pruner{
		retention: retention,
		repo:      repo,
		now:       time.Now,
	}
}

// Interval returns how often the pruner runs: 10% of retention, within [1m, 1h].
func (p *Pruner) Interval() time.Duration {
	interval := min(p.retention/10, 1*time.Hour)
	return max(interval, 1*time.Minute)
}

// Start runs the pruner loop until ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	slog.Info("Retention pruner started", "retention", p.retention, "interval", p.Interval())

	// Initial prune
	p.PruneOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce deletes expired incidents and returns how many were removed.
func (p *Pruner) PruneOnce(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.retention)

	n, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to prune incidents", "cutoff", cutoff, "error", err)
		return 0
	}
	if n > 0 {
		metrics.IncidentsPruned.Add(float64(n))
		slog.Info("Pruned incidents", "count", n, "cutoff", cutoff)
	}
	return n
}
