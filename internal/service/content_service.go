// catalog-service/internal/service/content_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
	"catalog-service/internal/store"
)

// ErrContentNotFound is returned by every lookup-by-id path when the id is unknown.
var ErrContentNotFound = errors.New("content not found")

// Repository is what ContentService needs from a store.
type Repository interface {
	FindByID(ctx context.Context, id int64) (domain.Content, bool, error)
	FindByTitle(ctx context.Context, title string) (domain.Content, bool, error)
	ListPage(ctx context.Context, page domain.PageRequest) ([]domain.Content, int64, error)
	SearchPage(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) ([]domain.Content, int64, error)
	Save(ctx context.Context, content domain.Content) (domain.Content, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// ContentService orchestrates catalog operations. Inputs are expected to be
// validated by the caller.
type ContentService struct {
	repo   Repository
	logger *slog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(repo Repository, logger *slog.Logger) *ContentService {
	return &ContentService{repo: repo, logger: logger}
}

func notFound(id int64) error {
	return fmt.Errorf("%w with id: %d", ErrContentNotFound, id)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrContentNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Create persists a new record; the store assigns id and timestamps.
func (s *ContentService) Create(ctx context.Context, in domain.CreateContentRequest) (resp domain.ContentResponse, err error) {
	defer func() { metrics.RecordOperation("create", outcome(err)) }()

	saved, err := s.repo.Save(ctx, domain.NewContent(in))
	if err != nil {
		return domain.ContentResponse{}, fmt.Errorf("create content: %w", err)
	}
	s.logger.InfoContext(ctx, "Content created", slog.Int64("contentID", saved.ID), slog.String("title", saved.Title))
	return domain.NewContentResponse(saved), nil
}

// GetByID returns the record with id or ErrContentNotFound.
func (s *ContentService) GetByID(ctx context.Context, id int64) (resp domain.ContentResponse, err error) {
	defer func() { metrics.RecordOperation("get", outcome(err)) }()

	c, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ContentResponse{}, fmt.Errorf("get content: %w", err)
	}
	if !found {
		return domain.ContentResponse{}, notFound(id)
	}
	return domain.NewContentResponse(c), nil
}

// GetByTitle returns the oldest record whose title equals title exactly.
func (s *ContentService) GetByTitle(ctx context.Context, title string) (resp domain.ContentResponse, err error) {
	defer func() { metrics.RecordOperation("get_by_title", outcome(err)) }()

	c, found, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		return domain.ContentResponse{}, fmt.Errorf("get content by title: %w", err)
	}
	if !found {
		return domain.ContentResponse{}, fmt.Errorf("%w with title: %q", ErrContentNotFound, title)
	}
	return domain.NewContentResponse(c), nil
}

// Exists reports whether a record with id exists.
func (s *ContentService) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check content existence: %w", err)
	}
	return exists, nil
}

// List returns one page of all records.
func (s *ContentService) List(ctx context.Context, page domain.PageRequest) (out domain.Page[domain.ContentResponse], err error) {
	defer func() { metrics.RecordOperation("list", outcome(err)) }()

	items, total, err := s.repo.ListPage(ctx, page)
	if err != nil {
		return domain.Page[domain.ContentResponse]{}, fmt.Errorf("list content: %w", err)
	}
	return domain.MapPage(domain.NewPage(items, total, page), domain.NewContentResponse), nil
}

// Update replaces every caller-controlled field of the record with id.
// The id and createdAt are kept; the store refreshes updatedAt.
func (s *ContentService) Update(ctx context.Context, id int64, in domain.CreateContentRequest) (resp domain.ContentResponse, err error) {
	defer func() { metrics.RecordOperation("update", outcome(err)) }()

	existing, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ContentResponse{}, fmt.Errorf("update content: %w", err)
	}
	if !found {
		return domain.ContentResponse{}, notFound(id)
	}

	updated, err := s.repo.Save(ctx, existing.WithInput(in))
	if err != nil {
		if errors.Is(err, store.ErrContentNotFound) {
			// deleted between the lookup and the write
			return domain.ContentResponse{}, notFound(id)
		}
		return domain.ContentResponse{}, fmt.Errorf("update content: %w", err)
	}
	s.logger.InfoContext(ctx, "Content updated", slog.Int64("contentID", id))
	return domain.NewContentResponse(updated), nil
}

// Delete removes the record with id. The existence check and the delete are
// separate store calls; a concurrent delete in between makes the second a no-op.
func (s *ContentService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { metrics.RecordOperation("delete", outcome(err)) }()

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if !exists {
		return notFound(id)
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	s.logger.InfoContext(ctx, "Content deleted", slog.Int64("contentID", id))
	return nil
}

// Search returns one page of the records matching filter.
func (s *ContentService) Search(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) (out domain.Page[domain.ContentResponse], err error) {
	defer func() { metrics.RecordOperation("search", outcome(err)) }()

	items, total, err := s.repo.SearchPage(ctx, filter, page)
	if err != nil {
		return domain.Page[domain.ContentResponse]{}, fmt.Errorf("search content: %w", err)
	}
	return domain.MapPage(domain.NewPage(items, total, page), domain.NewContentResponse), nil
}
