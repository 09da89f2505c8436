package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/triage/internal/core/config"
	"github.com/vietddude/triage/internal/health"
	redisclient "github.com/vietddude/triage/internal/infra/redis"
	"github.com/vietddude/triage/internal/infra/storage"
	"github.com/vietddude/triage/internal/infra/storage/memory"
	"github.com/vietddude/triage/internal/infra/storage/postgres"
)

// Stores bundles the storage backends selected by configuration.
type Stores struct {
	Incidents storage.IncidentRepository
	// Stats is nil when Redis is not configured; counts then come from Incidents.
	Stats storage.StatsRecorder
	DB    *postgres.DB
	Redis *redisclient.Client
}

// OpenStores connects PostgreSQL (falling back to memory) and Redis when configured.
func OpenStores(ctx context.Context, cfg *config.AppConfig) (*Stores, error) {
	s := &Stores{}

	if cfg.Database.Enabled() {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		s.DB = db
		s.Incidents = postgres.NewIncidentRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		s.Incidents = memory.NewIncidentRepo()
		slog.Info("Using Memory storage")
	}

	if cfg.Redis.Enabled() {
		rc, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		s.Redis = rc
		s.Stats = rc
		slog.Info("Using Redis severity counters")
	}

	return s, nil
}

// OpenDB connects to PostgreSQL for maintenance commands, which need a real database.
func OpenDB(ctx context.Context, cfg *config.AppConfig) (*postgres.DB, error) {
	if !cfg.Database.Enabled() {
		return nil, fmt.Errorf("database.url is not configured")
	}
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	return db, nil
}

// Pingers returns the reachable dependencies for health checks.
func (s *Stores) Pingers() map[string]health.Pinger {
	p := make(map[string]health.Pinger)
	if s.DB != nil {
		p["database"] = s.DB
	}
	if s.Redis != nil {
		p["redis"] = s.Redis
	}
	return p
}

// Close releases every open connection.
func (s *Stores) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			slog.Warn("Failed to close Redis", "error", err)
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
}
