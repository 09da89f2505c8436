package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/infra/storage"
	"github.com/vietddude/triage/internal/infra/storage/memory"
)

type errRepo struct {
	storage.IncidentRepository
}

func (errRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestPrunerInterval(t *testing.T) {
	tests := []struct {
		retention time.Duration
		want      time.Duration
	}{
		{5 * time.Minute, time.Minute},
		{30 * time.Minute, 3 * time.Minute},
		{24 * time.Hour, time.Hour},
	}
	for _, tt := range tests {
		p := NewPruner(tt.retention, nil)
		if got := p.Interval(); got != tt.want {
			t.Errorf("Interval(%v) = %v, want %v", tt.retention, got, tt.want)
		}
	}
}

func TestPruneOnce(t *testing.T) {
	repo := memory.NewIncidentRepo()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for _, age := range []time.Duration{2 * time.Hour, 30 * time.Minute, 0} {
		inc := &domain.Incident{ID: uuid.New(), Severity: domain.SeverityLow, CreatedAt: now.Add(-age)}
		if err := repo.Save(ctx, inc); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	p := NewPruner(time.Hour, repo)
	p.now = func() time.Time { return now }

	if n := p.PruneOnce(ctx); n != 1 {
		t.Errorf("Expected 1 pruned incident, got %d", n)
	}
	stats, _ := repo.CountBySeverity(ctx)
	if stats.Total != 2 {
		t.Errorf("Expected 2 remaining incidents, got %d", stats.Total)
	}
}

func TestPruneOnceRepositoryError(t *testing.T) {
	p := NewPruner(time.Hour, errRepo{})
	if n := p.PruneOnce(context.Background()); n != 0 {
		t.Errorf("Expected 0 on error, got %d", n)
	}
}

func TestStartDisabledReturnsImmediately(t *testing.T) {
	p := NewPruner(0, nil)

	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return with retention disabled")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	p := NewPruner(time.Hour, memory.NewIncidentRepo())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
