// catalog-service/internal/grpc/client.go
package grpc

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ContentInfo is the client-side view of a GetContentInfo reply.
type ContentInfo struct {
	ID          int64
	Title       string
	ContentType string
	Genre       string
	ReleaseYear int
	Rating      *float64
}

// Client calls ContentInterService on a remote catalog.
type Client struct {
	conn   *grpc.ClientConn
	logger *slog.Logger
}

// NewClient prepares a client for addr. Extra dial options are appended to
// the insecure transport default.
func NewClient(addr string, logger *slog.Logger, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client for %s: %w", addr, err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// GetContentInfo fetches a summary. found is false when the id is unknown.
func (c *Client) GetContentInfo(ctx context.Context, id int64) (info ContentInfo, found bool, err error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getContentInfoMethod, wrapperspb.Int64(id), out); err != nil {
		if status.Code(err) == codes.NotFound {
			return ContentInfo{}, false, nil
		}
		c.logger.ErrorContext(ctx, "gRPC GetContentInfo failed", slog.Int64("content_id", id), slog.String("error", err.Error()))
		return ContentInfo{}, false, fmt.Errorf("get content info %d: %w", id, err)
	}

	fields := out.GetFields()
	info = ContentInfo{
		ID:          int64(fields["id"].GetNumberValue()),
		Title:       fields["title"].GetStringValue(),
		ContentType: fields["contentType"].GetStringValue(),
		Genre:       fields["genre"].GetStringValue(),
		ReleaseYear: int(fields["releaseYear"].GetNumberValue()),
	}
	if v, ok := fields["rating"]; ok {
		rating := v.GetNumberValue()
		info.Rating = &rating
	}
	return info, true, nil
}

// CheckContentExists asks the catalog whether id exists.
func (c *Client) CheckContentExists(ctx context.Context, id int64) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, checkContentExistsMethod, wrapperspb.Int64(id), out); err != nil {
		c.logger.ErrorContext(ctx, "gRPC CheckContentExists failed", slog.Int64("content_id", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("check content exists %d: %w", id, err)
	}
	return out.GetValue(), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
