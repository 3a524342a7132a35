package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"catalog-service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClock is a settable time source shared by a store under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type storeFactory func(t *testing.T, clock *testClock) ContentStore

func newMemoryStore(t *testing.T, clock *testClock) ContentStore {
	s := NewMemoryContentStore(discardLogger())
	s.now = clock.Now
	return s
}

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "catalog.db") + "?_time_format=sqlite"
	db, err := sqlx.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, discardLogger()))
	return db
}

func newSQLiteStore(t *testing.T, clock *testClock) ContentStore {
	s, err := NewSQLContentStore(openSQLite(t), discardLogger())
	require.NoError(t, err)
	s.now = clock.Now
	return s
}

var factories = map[string]storeFactory{
	"memory": newMemoryStore,
	"sqlite": newSQLiteStore,
}

func intPtr(v int) *int                                { return &v }
func floatPtr(v float64) *float64                      { return &v }
func strPtr(v string) *string                          { return &v }
func typePtr(t domain.ContentType) *domain.ContentType { return &t }

func matrix() domain.Content {
	return domain.Content{
		Title:           "The Matrix",
		Description:     "A hacker learns about the true nature of reality",
		ContentType:     domain.ContentTypeMovie,
		Genre:           "Sci-Fi",
		ReleaseYear:     1999,
		Rating:          floatPtr(8.7),
		DurationMinutes: intPtr(136),
	}
}

func record(title string, ct domain.ContentType, genre string, year int, rating *float64) domain.Content {
	return domain.Content{
		Title:       title,
		Description: title + " description",
		ContentType: ct,
		Genre:       genre,
		ReleaseYear: year,
		Rating:      rating,
	}
}

func seed(t *testing.T, s ContentStore, records ...domain.Content) []domain.Content {
	t.Helper()
	out := make([]domain.Content, 0, len(records))
	for _, r := range records {
		saved, err := s.Save(context.Background(), r)
		require.NoError(t, err)
		out = append(out, saved)
	}
	return out
}

func TestContentStore_SaveAndFind(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := newTestClock()
			s := factory(t, clock)

			saved, err := s.Save(ctx, matrix())
			require.NoError(t, err)
			assert.NotZero(t, saved.ID)
			assert.True(t, saved.CreatedAt.Equal(clock.Now()))
			assert.True(t, saved.CreatedAt.Equal(saved.UpdatedAt))

			got, found, err := s.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, saved.ID, got.ID)
			assert.Equal(t, "The Matrix", got.Title)
			assert.Equal(t, domain.ContentTypeMovie, got.ContentType)
			assert.Equal(t, "Sci-Fi", got.Genre)
			assert.Equal(t, 1999, got.ReleaseYear)
			require.NotNil(t, got.Rating)
			assert.InDelta(t, 8.7, *got.Rating, 1e-9)
			require.NotNil(t, got.DurationMinutes)
			assert.Equal(t, 136, *got.DurationMinutes)
			assert.Nil(t, got.TotalEpisodes)
			assert.True(t, got.CreatedAt.Equal(saved.CreatedAt))
			assert.True(t, got.UpdatedAt.Equal(saved.UpdatedAt))

			second, err := s.Save(ctx, matrix())
			require.NoError(t, err)
			assert.Greater(t, second.ID, saved.ID, "duplicate titles are allowed and get fresh ids")
		})
	}
}

func TestContentStore_FindMisses(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t, newTestClock())

			_, found, err := s.FindByID(ctx, 999)
			require.NoError(t, err)
			assert.False(t, found)

			_, found, err = s.FindByTitle(ctx, "Nope")
			require.NoError(t, err)
			assert.False(t, found)

			exists, err := s.ExistsByID(ctx, 999)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestContentStore_FindByTitle(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t, newTestClock())
			saved := seed(t, s, matrix(), record("Cosmos", domain.ContentTypeDocumentary, "Science", 1980, nil), matrix())

			got, found, err := s.FindByTitle(ctx, "The Matrix")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, saved[0].ID, got.ID)

			_, found, err = s.FindByTitle(ctx, "the matrix")
			require.NoError(t, err)
			assert.False(t, found, "title lookup is exact")
		})
	}
}

func TestContentStore_Update(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := newTestClock()
			s := factory(t, clock)
			saved := seed(t, s, matrix())[0]

			clock.Advance(time.Hour)
			changed := saved
			changed.Title = "The Matrix Reloaded"
			changed.ReleaseYear = 2003
			changed.Rating = nil
			changed.TotalEpisodes = intPtr(0)

			updated, err := s.Save(ctx, changed)
			require.NoError(t, err)
			assert.Equal(t, saved.ID, updated.ID)
			assert.True(t, updated.UpdatedAt.Equal(clock.Now()))

			got, found, err := s.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "The Matrix Reloaded", got.Title)
			assert.Equal(t, 2003, got.ReleaseYear)
			assert.Nil(t, got.Rating)
			require.NotNil(t, got.TotalEpisodes)
			assert.Equal(t, 0, *got.TotalEpisodes)
			assert.True(t, got.CreatedAt.Equal(saved.CreatedAt), "created_at is never rewritten")
			assert.True(t, got.UpdatedAt.After(got.CreatedAt))
		})
	}
}

func TestContentStore_UpdateMissingRow(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			c := matrix()
			c.ID = 404
			c.CreatedAt = time.Now().UTC()
			_, err := factory(t, newTestClock()).Save(context.Background(), c)
			assert.True(t, errors.Is(err, ErrContentNotFound))
		})
	}
}

func TestContentStore_Delete(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t, newTestClock())
			saved := seed(t, s, matrix())[0]

			exists, err := s.ExistsByID(ctx, saved.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			require.NoError(t, s.DeleteByID(ctx, saved.ID))
			exists, err = s.ExistsByID(ctx, saved.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, s.DeleteByID(ctx, saved.ID), "deleting a missing id is a no-op")
		})
	}
}

func TestContentStore_ListPage(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t, newTestClock())
			var records []domain.Content
			for i := 0; i < 5; i++ {
				records = append(records, record("Title", domain.ContentTypeMovie, "Drama", 2000+i, nil))
			}
			saved := seed(t, s, records...)

			items, total, err := s.ListPage(ctx, domain.PageRequest{Number: 0, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)
			require.Len(t, items, 2)
			assert.Equal(t, saved[0].ID, items[0].ID)
			assert.Equal(t, saved[1].ID, items[1].ID)

			items, total, err = s.ListPage(ctx, domain.PageRequest{Number: 2, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)
			require.Len(t, items, 1)
			assert.Equal(t, saved[4].ID, items[0].ID)

			items, total, err = s.ListPage(ctx, domain.PageRequest{Number: 10, Size: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)
			assert.Empty(t, items)
			assert.NotNil(t, items)
		})
	}
}

func searchFixture(t *testing.T, s ContentStore) map[string]domain.Content {
	saved := seed(t, s,
		matrix(),
		record("Breaking Bad", domain.ContentTypeSeries, "Drama", 2008, floatPtr(9.5)),
		record("Planet Earth", domain.ContentTypeDocumentary, "Nature", 2006, floatPtr(9.4)),
		record("Inception", domain.ContentTypeMovie, "Sci-Fi", 2010, floatPtr(8.8)),
		record("Gladiator", domain.ContentTypeMovie, "Action", 2000, nil),
		record("Dune", domain.ContentTypeMovie, "Sci-Fi", 2021, floatPtr(8.0)),
		record("100% Wolf", domain.ContentTypeMovie, "Animation", 2020, floatPtr(5.0)),
		record("ÉCOLE DES FEMMES", domain.ContentTypeMovie, "Comedy", 1992, nil),
	)
	out := make(map[string]domain.Content, len(saved))
	for _, c := range saved {
		out[c.Title] = c
	}
	return out
}

func titles(items []domain.Content) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.Title)
	}
	return out
}

func TestContentStore_SearchPage(t *testing.T) {
	all := domain.PageRequest{Number: 0, Size: 100}

	cases := []struct {
		name   string
		filter domain.SearchFilter
		want   []string
	}{
		{
			name:   "no filter matches everything",
			filter: domain.SearchFilter{},
			want:   []string{"The Matrix", "Breaking Bad", "Planet Earth", "Inception", "Gladiator", "Dune", "100% Wolf", "ÉCOLE DES FEMMES"},
		},
		{
			name:   "title is a case-insensitive substring",
			filter: domain.SearchFilter{Title: strPtr("IN")},
			want:   []string{"Breaking Bad", "Inception"},
		},
		{
			name:   "empty title matches everything",
			filter: domain.SearchFilter{Title: strPtr("")},
			want:   []string{"The Matrix", "Breaking Bad", "Planet Earth", "Inception", "Gladiator", "Dune", "100% Wolf", "ÉCOLE DES FEMMES"},
		},
		{
			name:   "title folding covers non-ascii letters",
			filter: domain.SearchFilter{Title: strPtr("école")},
			want:   []string{"ÉCOLE DES FEMMES"},
		},
		{
			name:   "ascii part of a non-ascii title",
			filter: domain.SearchFilter{Title: strPtr("DES FEMMES")},
			want:   []string{"ÉCOLE DES FEMMES"},
		},
		{
			name:   "like wildcards in the title are literal",
			filter: domain.SearchFilter{Title: strPtr("0% w")},
			want:   []string{"100% Wolf"},
		},
		{
			name:   "underscore is literal",
			filter: domain.SearchFilter{Title: strPtr("_")},
			want:   []string{},
		},
		{
			name:   "content type exact",
			filter: domain.SearchFilter{ContentType: typePtr(domain.ContentTypeSeries)},
			want:   []string{"Breaking Bad"},
		},
		{
			name:   "genre exact and case-sensitive",
			filter: domain.SearchFilter{Genre: strPtr("sci-fi")},
			want:   []string{},
		},
		{
			name:   "empty genre excludes everything",
			filter: domain.SearchFilter{Genre: strPtr("")},
			want:   []string{},
		},
		{
			name:   "year bounds are inclusive",
			filter: domain.SearchFilter{MinYear: intPtr(2000), MaxYear: intPtr(2010)},
			want:   []string{"Breaking Bad", "Planet Earth", "Inception", "Gladiator"},
		},
		{
			name:   "min rating is inclusive and skips unrated",
			filter: domain.SearchFilter{MinRating: floatPtr(8.8)},
			want:   []string{"Breaking Bad", "Planet Earth", "Inception"},
		},
		{
			name:   "conjunction",
			filter: domain.SearchFilter{ContentType: typePtr(domain.ContentTypeMovie), Genre: strPtr("Sci-Fi"), MinYear: intPtr(2000)},
			want:   []string{"Inception", "Dune"},
		},
		{
			name:   "min year zero still participates",
			filter: domain.SearchFilter{MaxYear: intPtr(0)},
			want:   []string{},
		},
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, newTestClock())
			searchFixture(t, s)

			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					items, total, err := s.SearchPage(context.Background(), tc.filter, all)
					require.NoError(t, err)
					assert.Equal(t, tc.want, titles(items))
					assert.Equal(t, int64(len(tc.want)), total)
				})
			}
		})
	}
}

func TestContentStore_PageBeyondRange(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, newTestClock())
			seed(t, s, matrix())

			items, total, err := s.ListPage(context.Background(), domain.PageRequest{Number: math.MaxInt/20 + 1, Size: 20})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)
			assert.Empty(t, items)
		})
	}
}

func TestContentStore_SearchWithoutFilterMatchesList(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t, newTestClock())
			searchFixture(t, s)
			page := domain.PageRequest{Number: 1, Size: 3}

			listed, listTotal, err := s.ListPage(ctx, page)
			require.NoError(t, err)
			searched, searchTotal, err := s.SearchPage(ctx, domain.SearchFilter{}, page)
			require.NoError(t, err)

			assert.Equal(t, listTotal, searchTotal)
			assert.Equal(t, titles(listed), titles(searched))
		})
	}
}

func TestContentStore_SearchMatrixScenario(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, newTestClock())
			saved := seed(t, s, matrix())[0]

			items, total, err := s.SearchPage(context.Background(), domain.SearchFilter{
				ContentType: typePtr(domain.ContentTypeMovie),
				MinRating:   floatPtr(8.0),
			}, domain.PageRequest{Number: 0, Size: 20})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)
			require.Len(t, items, 1)
			assert.Equal(t, saved.ID, items[0].ID)
		})
	}
}

func TestMemoryContentStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, newTestClock())
	saved := seed(t, s, matrix())[0]

	*saved.Rating = 1.0
	got, _, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.7, *got.Rating)
}
