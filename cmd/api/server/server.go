package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-console/internal/config"
)

// ServiceName is the name reported by the gRPC health service.
const ServiceName = "user-console"

// Server runs the console HTTP server next to a gRPC health endpoint.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
	GRPC   *grpc.Server
	Health *health.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler http.Handler) *Server {
	hs := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		GRPC:   grpcServer,
		Health: hs,
	}
}

// Start listens on the configured ports and serves until shutdown.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	httpLis, err := lc.Listen(context.Background(), "tcp", ":"+s.Config.App.HTTPPort)
	if err != nil {
		return fmt.Errorf("failed to listen on HTTP port: %w", err)
	}
	grpcLis, err := lc.Listen(context.Background(), "tcp", ":"+s.Config.App.GRPCPort)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	return s.Serve(httpLis, grpcLis)
}

// Serve serves both listeners until Shutdown is called. When one server
// fails the other is stopped.
func (s *Server) Serve(httpLis, grpcLis net.Listener) error {
	var g errgroup.Group

	g.Go(func() error {
		s.Logger.Info("gRPC health server running", zap.String("address", grpcLis.Addr().String()))
		if err := s.GRPC.Serve(grpcLis); err != nil {
			_ = s.HTTP.Close()
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("console HTTP server running",
			zap.String("address", httpLis.Addr().String()),
			zap.String("swagger", "/swagger/index.html"),
		)
		if err := s.HTTP.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.GRPC.Stop()
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	s.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.Health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return g.Wait()
}

// Shutdown marks the service as not serving and stops both servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Health.Shutdown()

	var errs []error
	s.Logger.Info("shutting down HTTP server...")
	if err := s.HTTP.Shutdown(ctx); err != nil {
		s.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	s.Logger.Info("shutting down gRPC server...")
	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.GRPC.Stop()
		errs = append(errs, fmt.Errorf("gRPC shutdown: %w", ctx.Err()))
	}

	return errors.Join(errs...)
}
