package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/triage/internal/api"
	"github.com/vietddude/triage/internal/core/config"
	"github.com/vietddude/triage/internal/core/corpus"
	"github.com/vietddude/triage/internal/core/worker"
	"github.com/vietddude/triage/internal/engine"
	"github.com/vietddude/triage/internal/health"
	"github.com/vietddude/triage/internal/ingest"
	"github.com/vietddude/triage/internal/rpc"
)

// Service is the main application struct that owns the model, storage and
// listeners.
type Service struct {
	cfg        *config.AppConfig
	engine     *engine.Engine
	stores     *Stores
	monitor    *health.Monitor
	httpServer *api.Server
	grpcServer *rpc.Server
	pruner     *worker.Pruner
	cancel     context.CancelFunc
	log        *slog.Logger
}

// NewService trains the model and connects storage. Nothing listens yet.
func NewService(ctx context.Context, cfg *config.AppConfig, debug bool) (*Service, error) {
	// 1. Train the model; any failure here is fatal
	eng, err := TrainEngine(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}

	// 2. Initialize Storage
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 3. Wire services
	incidents := ingest.NewService(eng, stores.Incidents, stores.Stats)
	monitor := health.NewMonitor(eng, stores.Pingers())

	httpServer := api.NewServer(cfg.Server, api.Deps{
		Predictor: eng,
		Incidents: incidents,
		Monitor:   monitor,
	}, debug)

	var grpcServer *rpc.Server
	if cfg.GRPC.Port > 0 {
		grpcServer = rpc.NewServer(cfg.GRPC.Port, eng)
	}

	return &Service{
		cfg:        cfg,
		engine:     eng,
		stores:     stores,
		monitor:    monitor,
		httpServer: httpServer,
		grpcServer: grpcServer,
		pruner:     worker.NewPruner(cfg.Storage.Retention, stores.Incidents),
		log:        slog.Default().With("component", "control"),
	}, nil
}

// Start opens the listeners and background workers.
func (s *Service) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	// Start DB Metrics Collector
	if s.stores.DB != nil {
		s.stores.DB.StartMetricsCollector(ctx)
	}

	// Start Pruner
	go s.pruner.Start(ctx)

	if err := s.httpServer.Start(); err != nil {
		s.cancel()
		return err
	}

	if s.grpcServer != nil {
		if err := s.grpcServer.Start(); err != nil {
			s.cancel()
			return err
		}
	}

	s.log.Info("Service started",
		"http", s.cfg.Server.Addr(),
		"grpc_port", s.cfg.GRPC.Port,
		"categories", s.engine.Categories(),
	)
	return nil
}

// Stop shuts the listeners down and releases storage.
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("Stopping service...")

	if s.cancel != nil {
		s.cancel()
	}

	var firstErr error
	if s.grpcServer != nil {
		if err := s.grpcServer.Stop(ctx); err != nil {
			s.log.Warn("Failed to stop gRPC server", "error", err)
			firstErr = err
		}
	}
	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn("Failed to stop HTTP server", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	s.stores.Close()
	return firstErr
}

// HTTPServer exposes the HTTP server, mainly for its bound address.
func (s *Service) HTTPServer() *api.Server {
	return s.httpServer
}

// LoadCorpus reads the corpus at path, or returns the built-in one when path is empty.
func LoadCorpus(path string) (corpus.Corpus, error) {
	if path == "" {
		return corpus.Default(), nil
	}
	c, err := corpus.LoadFile(path)
	if err != nil {
		return corpus.Corpus{}, err
	}
	slog.Info("Loaded corpus from file", "path", path, "samples", len(c.Samples))
	return c, nil
}

// TrainEngine loads the configured corpus and fits the engine on it.
func TrainEngine(ctx context.Context, cfg config.ModelConfig) (*engine.Engine, error) {
	c, err := LoadCorpus(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	eng, err := engine.Train(ctx, c, engine.Options{C: cfg.C, MaxIterations: cfg.MaxIterations})
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}
	return eng, nil
}
