// catalog-service/internal/store/memory_content_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-service/internal/domain"
)

// MemoryContentStore keeps records in a map guarded by a RWMutex. It honours
// the same contract as SQLContentStore and backs the "memory" driver.
type MemoryContentStore struct {
	mu      sync.RWMutex
	content map[int64]domain.Content
	nextID  int64
	logger  *slog.Logger
	now     func() time.Time
}

// NewMemoryContentStore creates an empty store.
func NewMemoryContentStore(logger *slog.Logger) *MemoryContentStore {
	return &MemoryContentStore{
		content: make(map[int64]domain.Content),
		logger:  logger,
		now:     time.Now,
	}
}

func (m *MemoryContentStore) FindByID(ctx context.Context, id int64) (domain.Content, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.content[id]
	return c.Clone(), ok, nil
}

func (m *MemoryContentStore) FindByTitle(ctx context.Context, title string) (domain.Content, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		found domain.Content
		ok    bool
	)
	for _, c := range m.content {
		if c.Title == title && (!ok || c.ID < found.ID) {
			found, ok = c, true
		}
	}
	return found.Clone(), ok, nil
}

func (m *MemoryContentStore) ListPage(ctx context.Context, page domain.PageRequest) ([]domain.Content, int64, error) {
	return m.SearchPage(ctx, domain.SearchFilter{}, page)
}

func (m *MemoryContentStore) SearchPage(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) ([]domain.Content, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.logger.DebugContext(ctx, "Searching in-memory content", slog.Any("filter", filter))

	var matched []domain.Content
	for _, c := range m.content {
		if matches(c, filter) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	totalCount := int64(len(matched))
	start := page.Offset()
	if start < 0 || start >= len(matched) {
		return []domain.Content{}, totalCount, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]domain.Content, 0, end-start)
	for _, c := range matched[start:end] {
		out = append(out, c.Clone())
	}
	return out, totalCount, nil
}

// matches mirrors the predicates built by searchConditions, including SQL's
// treatment of a NULL rating as failing a minRating bound.
func matches(c domain.Content, f domain.SearchFilter) bool {
	if f.Title != nil && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(*f.Title)) {
		return false
	}
	if f.ContentType != nil && c.ContentType != *f.ContentType {
		return false
	}
	if f.Genre != nil && c.Genre != *f.Genre {
		return false
	}
	if f.MinYear != nil && c.ReleaseYear < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && c.ReleaseYear > *f.MaxYear {
		return false
	}
	if f.MinRating != nil && (c.Rating == nil || *c.Rating < *f.MinRating) {
		return false
	}
	return true
}

func (m *MemoryContentStore) Save(ctx context.Context, c domain.Content) (domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
		c.CreatedAt = now
		c.UpdatedAt = now
		m.content[c.ID] = c.Clone()
		m.logger.DebugContext(ctx, "Content created in memory", slog.Int64("contentID", c.ID))
		return c, nil
	}

	existing, ok := m.content[c.ID]
	if !ok {
		return domain.Content{}, fmt.Errorf("%w with id: %d", ErrContentNotFound, c.ID)
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = now
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	m.content[c.ID] = c.Clone()
	m.logger.DebugContext(ctx, "Content updated in memory", slog.Int64("contentID", c.ID))
	return c, nil
}

func (m *MemoryContentStore) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.content, id)
	return nil
}

func (m *MemoryContentStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.content[id]
	return ok, nil
}

func (m *MemoryContentStore) Ping(ctx context.Context) error {
	return nil
}
