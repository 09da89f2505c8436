// Package ingest classifies incident reports and keeps them in storage.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/infra/storage"
	"github.com/vietddude/triage/internal/metrics"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var (
	ErrEmptyMessage    = errors.New("message required")
	ErrInvalidSeverity = errors.New("unknown severity")
)

// Predictor classifies a text.
type Predictor interface {
	Predict(text string) domain.Verdict
}

// Filter narrows List. Zero values mean the defaults.
type Filter struct {
	Limit    int
	Severity domain.Severity
}

// Service ingests, lists and summarizes incidents.
type Service struct {
	predictor Predictor
	repo      storage.IncidentRepository
	stats     storage.StatsRecorder // optional
	now       func() time.Time
}

// NewService wires a Service. stats may be nil, in which case counters are
// derived from the repository.
func NewService(predictor Predictor, repo storage.IncidentRepository, stats storage.StatsRecorder) *Service {
	return &Service{
		predictor: predictor,
		repo:      repo,
		stats:     stats,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Ingest classifies message and stores the resulting incident.
func (s *Service) Ingest(ctx context.Context, message string) (*domain.Incident, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	verdict := s.predictor.Predict(message)
	inc := &domain.Incident{
		ID:        uuid.New(),
		Message:   message,
		Category:  verdict.Category,
		Severity:  verdict.Severity,
		Action:    domain.ActionFor(verdict.Severity),
		Language:  detectLanguage(message),
		CreatedAt: s.now(),
	}

	if err := s.repo.Save(ctx, inc); err != nil {
		return nil, fmt.Errorf("failed to store incident: %w", err)
	}
	metrics.IncidentsIngested.WithLabelValues(string(inc.Severity)).Inc()

	if s.stats != nil {
		// the incident is stored; a lost counter bump is not worth failing the request
		if err := s.stats.Record(ctx, inc.Severity); err != nil {
			slog.Warn("Failed to record severity counter", "severity", inc.Severity, "error", err)
		}
	}

	slog.Debug("Incident ingested",
		"id", inc.ID,
		"category", inc.Category,
		"severity", inc.Severity,
		"length", len(message),
	)
	return inc, nil
}

// List returns stored incidents newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*domain.Incident, error) {
	if f.Severity != "" && !f.Severity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeverity, f.Severity)
	}

	incidents, err := s.repo.List(ctx, storage.ListFilter{
		Limit:    clampLimit(f.Limit),
		Severity: f.Severity,
	})
	if err != nil {
		return nil, err
	}
	if incidents == nil {
		incidents = []*domain.Incident{}
	}
	return incidents, nil
}

// Stats returns per-severity counters.
func (s *Service) Stats(ctx context.Context) (domain.SeverityStats, error) {
	if s.stats != nil {
		return s.stats.Counts(ctx)
	}
	return s.repo.CountBySeverity(ctx)
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

// detectLanguage returns the ISO 639-1 code of text, or "" when detection is unreliable.
func detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
