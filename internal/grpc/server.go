// catalog-service/internal/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"log/slog"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ContentReader is the part of the content service exposed over gRPC.
type ContentReader interface {
	GetByID(ctx context.Context, id int64) (domain.ContentResponse, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Server implements ContentInterServiceServer.
type Server struct {
	content ContentReader
	logger  *slog.Logger
}

// NewServer creates a new gRPC server for the catalog.
func NewServer(content ContentReader, logger *slog.Logger) *Server {
	return &Server{
		content: content,
		logger:  logger,
	}
}

// contentInfo converts a record into the ContentInfo struct message.
func contentInfo(c domain.ContentResponse) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"id":          c.ID,
		"title":       c.Title,
		"contentType": string(c.ContentType),
		"genre":       c.Genre,
		"releaseYear": c.ReleaseYear,
	}
	if c.Rating != nil {
		fields["rating"] = *c.Rating
	}
	return structpb.NewStruct(fields)
}

// GetContentInfo returns a summary of one record.
func (s *Server) GetContentInfo(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC GetContentInfo called", slog.Int64("content_id", id))

	if id <= 0 {
		s.logger.WarnContext(ctx, "gRPC GetContentInfo called with invalid content_id", slog.Int64("content_id", id))
		return nil, status.Errorf(codes.InvalidArgument, "content_id must be positive")
	}

	c, err := s.content.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrContentNotFound) {
			return nil, status.Errorf(codes.NotFound, "content not found with ID %d", id)
		}
		s.logger.ErrorContext(ctx, "Failed to get content for GetContentInfo", slog.Int64("content_id", id), slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "failed to retrieve content details")
	}

	info, err := contentInfo(c)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode content details: %v", err)
	}
	return info, nil
}

// CheckContentExists reports whether a record exists. Non-positive ids never exist.
func (s *Server) CheckContentExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	id := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC CheckContentExists called", slog.Int64("content_id", id))

	if id <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "content_id must be positive")
	}

	exists, err := s.content.Exists(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check content existence", slog.Int64("content_id", id), slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "failed to check content existence")
	}
	return wrapperspb.Bool(exists), nil
}
