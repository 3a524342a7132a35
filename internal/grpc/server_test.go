package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"
	"catalog-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type brokenReader struct{}

func (brokenReader) GetByID(context.Context, int64) (domain.ContentResponse, error) {
	return domain.ContentResponse{}, errors.New("connection refused")
}

func (brokenReader) Exists(context.Context, int64) (bool, error) {
	return false, errors.New("connection refused")
}

// startServer serves reader over an in-memory listener and returns a connected client.
func startServer(t *testing.T, reader ContentReader) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterContentInterServiceServer(srv, NewServer(reader, testLogger()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := NewClient("passthrough:///bufnet", testLogger(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seededService(t *testing.T) (*service.ContentService, domain.ContentResponse) {
	t.Helper()
	svc := service.NewContentService(store.NewMemoryContentStore(testLogger()), testLogger())
	rating := 8.7
	created, err := svc.Create(context.Background(), domain.CreateContentRequest{
		Title:       "The Matrix",
		ContentType: domain.ContentTypeMovie,
		Genre:       "Sci-Fi",
		ReleaseYear: 1999,
		Rating:      &rating,
	})
	require.NoError(t, err)
	return svc, created
}

func TestGetContentInfo(t *testing.T) {
	svc, created := seededService(t)
	client := startServer(t, svc)

	info, found, err := client.GetContentInfo(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, info.ID)
	assert.Equal(t, "The Matrix", info.Title)
	assert.Equal(t, "MOVIE", info.ContentType)
	assert.Equal(t, "Sci-Fi", info.Genre)
	assert.Equal(t, 1999, info.ReleaseYear)
	require.NotNil(t, info.Rating)
	assert.InDelta(t, 8.7, *info.Rating, 1e-9)

	_, found, err = client.GetContentInfo(context.Background(), created.ID+100)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetContentInfo_NoRating(t *testing.T) {
	svc := service.NewContentService(store.NewMemoryContentStore(testLogger()), testLogger())
	created, err := svc.Create(context.Background(), domain.CreateContentRequest{
		Title:       "Planet Earth",
		ContentType: domain.ContentTypeDocumentary,
		Genre:       "Nature",
		ReleaseYear: 2006,
	})
	require.NoError(t, err)
	client := startServer(t, svc)

	info, found, err := client.GetContentInfo(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, info.Rating)
}

func TestCheckContentExists(t *testing.T) {
	svc, created := seededService(t)
	client := startServer(t, svc)

	exists, err := client.CheckContentExists(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.CheckContentExists(context.Background(), created.ID+1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvalidID(t *testing.T) {
	svc, _ := seededService(t)
	client := startServer(t, svc)

	_, _, err := client.GetContentInfo(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(errors.Unwrap(err)))

	_, err = client.CheckContentExists(context.Background(), -4)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(errors.Unwrap(err)))
}

func TestServer_InternalErrors(t *testing.T) {
	s := NewServer(brokenReader{}, testLogger())

	_, err := s.GetContentInfo(context.Background(), wrapperspb.Int64(1))
	assert.Equal(t, codes.Internal, status.Code(err))

	_, err = s.CheckContentExists(context.Background(), wrapperspb.Int64(1))
	assert.Equal(t, codes.Internal, status.Code(err))
}
