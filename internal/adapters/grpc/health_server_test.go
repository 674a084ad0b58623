package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func startHealth(t *testing.T, ping PingFunc) (grpc_health_v1.HealthClient, context.CancelFunc) {
	t.Helper()

	srv, err := NewHealthServer("127.0.0.1:0", ping, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = srv.Start(ctx)
		close(stopped)
	}()

	conn, err := gogrpc.NewClient(srv.Addr(), gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	return grpc_health_v1.NewHealthClient(conn), func() {
		cancel()
		<-stopped
		conn.Close()
	}
}

func statusOf(client grpc_health_v1.HealthClient) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestHealthServer_FollowsStorePing(t *testing.T) {
	var failing atomic.Bool
	client, stop := startHealth(t, func(context.Context) error {
		if failing.Load() {
			return errors.New("connection refused")
		}
		return nil
	})
	defer stop()

	assert.Eventually(t, func() bool {
		return statusOf(client) == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	failing.Store(true)
	assert.Eventually(t, func() bool {
		return statusOf(client) == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}
