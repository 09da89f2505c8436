package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/triage/internal/core/domain"
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Health(ctx context.Context) error
}

// ModelInfo exposes the trained model for reporting.
type ModelInfo interface {
	Categories() []domain.Category
	VocabularySize() int
	TrainedAt() time.Time
}

const checkTimeout = 2 * time.Second

// Monitor aggregates health status from various system components.
type Monitor struct {
	model      ModelInfo
	pingers    map[string]Pinger
	cacheTTL   time.Duration
	lastCheck  time.Time
	lastReport *HealthReport
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. Unreachable pingers degrade the
// system; a missing model makes it critical.
func NewMonitor(model ModelInfo, pingers map[string]Pinger) *Monitor {
	return &Monitor{
		model:    model,
		pingers:  pingers,
		cacheTTL: 10 * time.Second,
	}
}

// CheckHealth performs a health check for all components.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit checks to avoid hammering dependencies
	if m.lastReport != nil && time.Since(m.lastCheck) < m.cacheTTL {
		return *m.lastReport
	}

	report := HealthReport{
		SystemStatus: StatusHealthy,
		Components:   make(map[string]ComponentHealth, len(m.pingers)+1),
	}

	report.Components["model"] = m.checkModel()
	for name, p := range m.pingers {
		report.Components[name] = checkPinger(ctx, name, p)
	}

	// worst case wins
	for _, c := range report.Components {
		if c.Status.worse(report.SystemStatus) {
			report.SystemStatus = c.Status
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = &report
	return report
}

func (m *Monitor) checkModel() ComponentHealth {
	if m.model == nil {
		return ComponentHealth{Name: "model", Status: StatusCritical, Error: "model not trained"}
	}
	return ComponentHealth{
		Name:   "model",
		Status: StatusHealthy,
		Details: map[string]any{
			"categories": m.model.Categories(),
			"vocabulary": m.model.VocabularySize(),
			"trained_at": m.model.TrainedAt().UTC().Format(time.RFC3339),
		},
	}
}

func checkPinger(ctx context.Context, name string, p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	if err := p.Health(ctx); err != nil {
		return ComponentHealth{Name: name, Status: StatusDegraded, Error: err.Error()}
	}
	return ComponentHealth{
		Name:    name,
		Status:  StatusHealthy,
		Details: map[string]any{"latency_ms": time.Since(start).Milliseconds()},
	}
}
