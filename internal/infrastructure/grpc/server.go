package grpc

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/reeljournal/reeljournal/internal/infrastructure/grpc/interceptors"
)

// Server is the gRPC endpoint. It carries the standard health service so
// orchestrators can probe the journal without HTTP.
type Server struct {
	srv         *grpc.Server
	health      *health.Server
	serviceName string
	logger      *zap.Logger
}

// NewServer creates a gRPC server with logging, recovery and error
// translation on every call.
func NewServer(serviceName string, logger *zap.Logger) *Server {
	logger = logger.Named("grpc")

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryRecoveryInterceptor(logger),
			interceptors.UnaryLoggingInterceptor(logger),
			interceptors.UnaryErrorInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(logger),
			interceptors.StreamLoggingInterceptor(logger),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{srv: srv, health: hs, serviceName: serviceName, logger: logger}
	s.SetServing(false)
	return s
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// SetServing flips the health status of the server and of the named service.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(s.serviceName, st)
}

// WatchReadiness runs check every interval and reports the result as the
// health status until ctx is done.
func (s *Server) WatchReadiness(ctx context.Context, check func(context.Context) error, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := false
	for {
		err := check(ctx)
		if ok := err == nil; ok != serving {
			serving = ok
			s.SetServing(ok)
			if ok {
				s.logger.Info("readiness check passing")
			} else {
				s.logger.Warn("readiness check failing", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop marks the server not serving and drains in-flight calls, forcing
// the stop when ctx expires first.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
	}
}
