package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Server serves triage.v1.Predictor and the standard health service.
type Server struct {
	grpc   *grpc.Server
	health *grpchealth.Server
	port   int
}

// NewServer creates a gRPC server listening on port once started.
func NewServer(port int, predictor Predictor) *Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLoggingInterceptor))
	s.RegisterService(&ServiceDesc, &predictorService{predictor: predictor})

	hs := grpchealth.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{grpc: s, health: hs, port: port}
}

// Start binds the port and serves in the background.
func (s *Server) Start() error {
	address := fmt.Sprintf("0.0.0.0:%d", s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	go func() {
		if err := s.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err)
		}
	}()
	return nil
}

// Serve blocks serving on lis.
func (s *Server) Serve(lis net.Listener) error {
	slog.Info("gRPC server listening", "addr", lis.Addr().String())
	for name := range s.grpc.GetServiceInfo() {
		slog.Debug("gRPC exposed service", "name", name)
	}
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop drains in-flight calls, forcing the stop when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.grpc.Stop()
		return ctx.Err()
	}
}

func unaryLoggingInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	slog.Info("gRPC request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"latency", time.Since(start),
	)
	return resp, err
}
