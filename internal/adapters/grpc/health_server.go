package grpc

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-checked service
const ServiceName = "portbattle"

// PingFunc reports whether the backing store is reachable
type PingFunc func(ctx context.Context) error

// HealthServer serves the standard gRPC health protocol. The portbattle
// service is SERVING while the store answers pings.
type HealthServer struct {
	listener net.Listener
	server   *gogrpc.Server
	health   *health.Server
	ping     PingFunc
	interval time.Duration
	done     chan struct{}
}

// NewHealthServer binds address and starts NOT_SERVING until the first ping
func NewHealthServer(address string, ping PingFunc, interval time.Duration) (*HealthServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	server := gogrpc.NewServer()
	grpc_health_v1.RegisterHealthServer(server, hs)

	return &HealthServer{
		listener: listener,
		server:   server,
		health:   hs,
		ping:     ping,
		interval: interval,
		done:     make(chan struct{}),
	}, nil
}

// Addr is the bound listener address
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Start serves until ctx is cancelled, then stops gracefully
func (s *HealthServer) Start(ctx context.Context) error {
	log.Printf("gRPC health server listening on %s", s.Addr())

	go s.watch(ctx)

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.health.Shutdown()
		s.server.GracefulStop()
		<-s.done
		return nil
	}
}

func (s *HealthServer) watch(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *HealthServer) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := s.ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("health: store ping failed: %v", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
}
