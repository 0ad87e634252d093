package grpc

import (
	"catalog/domain"
	"catalog/infra/memory"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func startServer(t *testing.T, reader CatalogReader) (*Server, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	server := NewServerWithListener(lis)
	RegisterCatalogServer(server.GetGRPCServer(), NewCatalogService(reader))
	server.SetServing(true)

	go func() {
		_ = server.Start()
	}()
	t.Cleanup(server.GracefulStop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return server, conn
}

func seed(t *testing.T) *memory.Repository {
	t.Helper()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := memory.NewRepository(memory.WithClock(func() time.Time { return fixed }))

	name := "Books"
	cat, err := repo.CreateCategory(t.Context(), &name)
	require.NoError(t, err)

	_, err = repo.CreateItem(t.Context(), domain.Item{
		Name:       "Dune",
		Price:      decimal.RequireFromString("9.99"),
		CategoryID: cat.ID,
	})
	require.NoError(t, err)

	return repo
}

func TestCatalogService_GetItem(t *testing.T) {
	_, conn := startServer(t, seed(t))

	out := new(structpb.Struct)
	err := conn.Invoke(t.Context(), GetItemFullMethod, wrapperspb.Int64(1), out)
	require.NoError(t, err)

	fields := out.AsMap()
	assert.Equal(t, float64(1), fields["id"])
	assert.Equal(t, "Dune", fields["name"])
	assert.Equal(t, 9.99, fields["price"])
	assert.Equal(t, float64(1), fields["category_id"])
	assert.Equal(t, "2026-01-02T03:04:05Z", fields["created_at"])
}

func TestCatalogService_GetCategory(t *testing.T) {
	_, conn := startServer(t, seed(t))

	out := new(structpb.Struct)
	err := conn.Invoke(t.Context(), GetCategoryFullMethod, wrapperspb.Int64(1), out)
	require.NoError(t, err)

	assert.Equal(t, "Books", out.AsMap()["name"])
}

func TestCatalogService_Errors(t *testing.T) {
	_, conn := startServer(t, seed(t))

	tests := []struct {
		name   string
		method string
		id     int64
		code   codes.Code
	}{
		{"MissingItem", GetItemFullMethod, 42, codes.NotFound},
		{"MissingCategory", GetCategoryFullMethod, 42, codes.NotFound},
		{"ZeroID", GetItemFullMethod, 0, codes.InvalidArgument},
		{"NegativeID", GetCategoryFullMethod, -1, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conn.Invoke(t.Context(), tt.method, wrapperspb.Int64(tt.id), new(structpb.Struct))
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

type failingReader struct{}

func (failingReader) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	return domain.Item{}, errors.New("connection refused")
}

func (failingReader) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	panic("boom")
}

func TestCatalogService_InternalErrors(t *testing.T) {
	_, conn := startServer(t, failingReader{})

	err := conn.Invoke(t.Context(), GetItemFullMethod, wrapperspb.Int64(1), new(structpb.Struct))
	assert.Equal(t, codes.Internal, status.Code(err))

	// recovered by the interceptor chain
	err = conn.Invoke(t.Context(), GetCategoryFullMethod, wrapperspb.Int64(1), new(structpb.Struct))
	assert.Equal(t, codes.Internal, status.Code(err))
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestServer_Health(t *testing.T) {
	server, conn := startServer(t, seed(t))
	client := grpc_health_v1.NewHealthClient(conn)

	resp, err := client.Check(t.Context(), &grpc_health_v1.HealthCheckRequest{Service: CatalogServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		server.WatchHealth(ctx, &stubPinger{err: errors.New("down")}, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		resp, err := client.Check(t.Context(), &grpc_health_v1.HealthCheckRequest{})
		return err == nil && resp.GetStatus() == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
