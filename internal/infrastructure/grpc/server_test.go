package grpc_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	journalgrpc "github.com/reeljournal/reeljournal/internal/infrastructure/grpc"
)

func startServer(t *testing.T) (*journalgrpc.Server, healthpb.HealthClient) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := journalgrpc.NewServer("journal", zaptest.NewLogger(t))
	go func() { _ = server.Serve(lis) }()

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Stop(ctx)
	})

	return server, healthpb.NewHealthClient(conn)
}

func healthStatus(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestServer_HealthStatus(t *testing.T) {
	server, client := startServer(t)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, healthStatus(t, client, "journal"))

	server.SetServing(true)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthStatus(t, client, "journal"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthStatus(t, client, ""))
}

func TestServer_WatchReadiness(t *testing.T) {
	server, client := startServer(t)

	var failing atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.WatchReadiness(ctx, func(context.Context) error {
		if failing.Load() {
			return errors.New("database down")
		}
		return nil
	}, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return healthStatus(t, client, "journal") == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	failing.Store(true)

	assert.Eventually(t, func() bool {
		return healthStatus(t, client, "journal") == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)
}
