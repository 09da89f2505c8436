package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/infra/storage"
)

// IncidentRepo keeps incidents in process memory. Contents are lost on restart.
type IncidentRepo struct {
	incidents []*domain.Incident
	mu        sync.RWMutex
}

func NewIncidentRepo() *IncidentRepo {
	return &IncidentRepo{}
}

var _ storage.IncidentRepository = (*IncidentRepo)(nil)

func (r *IncidentRepo) Save(ctx context.Context, inc *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inc
	r.incidents = append(r.incidents, &cp)
	return nil
}

func (r *IncidentRepo) List(ctx context.Context, filter storage.ListFilter) ([]*domain.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Incident, 0, len(r.incidents))
	for _, inc := range r.incidents {
		if filter.Severity != "" && inc.Severity != filter.Severity {
			continue
		}
		cp := *inc
		out = append(out, &cp)
	}

	// newest first; insertion order breaks ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *IncidentRepo) CountBySeverity(ctx context.Context) (domain.SeverityStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.SeverityStats
	for _, inc := range r.incidents {
		stats.Add(inc.Severity, 1)
	}
	return stats, nil
}

func (r *IncidentRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.incidents[:0]
	var removed int64
	for _, inc := range r.incidents {
		if inc.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, inc)
	}
	// drop references held past the new length
	for i := len(kept); i < len(r.incidents); i++ {
		r.incidents[i] = nil
	}
	r.incidents = kept
	return removed, nil
}

// StatsRecorder is an in-process severity counter.
type StatsRecorder struct {
	stats domain.SeverityStats
	mu    sync.Mutex
}

func NewStatsRecorder() *StatsRecorder {
	return &StatsRecorder{}
}

var _ storage.StatsRecorder = (*StatsRecorder)(nil)

func (s *StatsRecorder) Record(ctx context.Context, sev domain.Severity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Add(sev, 1)
	return nil
}

func (s *StatsRecorder) Counts(ctx context.Context) (domain.SeverityStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, nil
}
