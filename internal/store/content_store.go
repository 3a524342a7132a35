// catalog-service/internal/store/content_store.go
package store

import (
	"context"
	"errors"

	"catalog-service/internal/domain"
)

var (
	// ErrContentNotFound is returned by Save when the row to update is gone.
	ErrContentNotFound = errors.New("content not found")
	// ErrConstraintViolation wraps storage-level integrity failures.
	ErrConstraintViolation = errors.New("content violates a storage constraint")
)

// ContentStore is the repository contract shared by the SQL and in-memory
// implementations. Lookups report a miss through the boolean, not an error.
type ContentStore interface {
	FindByID(ctx context.Context, id int64) (domain.Content, bool, error)
	FindByTitle(ctx context.Context, title string) (domain.Content, bool, error)
	ListPage(ctx context.Context, page domain.PageRequest) ([]domain.Content, int64, error)
	SearchPage(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) ([]domain.Content, int64, error)
	Save(ctx context.Context, content domain.Content) (domain.Content, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Ping(ctx context.Context) error
}
