// catalog-service/internal/store/sql_content_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"catalog-service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const contentColumns = `id, title, description, content_type, genre, release_year, rating, duration_minutes, total_episodes, created_at, updated_at`

// SQLContentStore implements ContentStore on top of sqlx. Queries are written
// with '?' placeholders and rebound for the connected driver, so the same
// code serves Postgres (lib/pq) and SQLite (modernc.org/sqlite).
type SQLContentStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLContentStore creates a new SQLContentStore.
func NewSQLContentStore(db *sqlx.DB, logger *slog.Logger) (*SQLContentStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &SQLContentStore{db: db, logger: logger, now: time.Now}, nil
}

// timestamp is truncated to the precision every supported backend keeps.
func (s *SQLContentStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// FindByID loads one record. A missing row is reported as found=false.
func (s *SQLContentStore) FindByID(ctx context.Context, id int64) (domain.Content, bool, error) {
	query := s.db.Rebind(`SELECT ` + contentColumns + ` FROM content WHERE id = ?`)
	var c domain.Content

	s.logger.DebugContext(ctx, "Executing FindByID content query", slog.Int64("contentID", id))
	if err := s.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, false, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get content by ID from DB", slog.Int64("contentID", id), slog.String("error", err.Error()))
		return domain.Content{}, false, fmt.Errorf("failed to get content by ID: %w", err)
	}
	return normalize(c), true, nil
}

// FindByTitle performs an exact, case-sensitive title lookup. Titles are not
// unique; the oldest matching record wins.
func (s *SQLContentStore) FindByTitle(ctx context.Context, title string) (domain.Content, bool, error) {
	query := s.db.Rebind(`SELECT ` + contentColumns + ` FROM content WHERE title = ? ORDER BY id ASC LIMIT 1`)
	var c domain.Content

	s.logger.DebugContext(ctx, "Executing FindByTitle content query", slog.String("title", title))
	if err := s.db.GetContext(ctx, &c, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Content{}, false, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get content by title from DB", slog.String("title", title), slog.String("error", err.Error()))
		return domain.Content{}, false, fmt.Errorf("failed to get content by title: %w", err)
	}
	return normalize(c), true, nil
}

// ListPage returns one page of every record ordered by id.
func (s *SQLContentStore) ListPage(ctx context.Context, page domain.PageRequest) ([]domain.Content, int64, error) {
	return s.SearchPage(ctx, domain.SearchFilter{}, page)
}

// SearchPage returns one page of the records matching every present filter
// field, ordered by id, plus the number of matching records overall.
func (s *SQLContentStore) SearchPage(ctx context.Context, filter domain.SearchFilter, page domain.PageRequest) ([]domain.Content, int64, error) {
	conditions, args := searchConditions(filter, lowerFunc(s.db.DriverName()))

	countQuery := `SELECT COUNT(*) FROM content WHERE 1=1`
	selectQuery := `SELECT ` + contentColumns + ` FROM content WHERE 1=1`
	if len(conditions) > 0 {
		conditionStr := " AND " + strings.Join(conditions, " AND ")
		countQuery += conditionStr
		selectQuery += conditionStr
	}

	var totalCount int64
	countQuery = s.db.Rebind(countQuery)
	s.logger.DebugContext(ctx, "Executing content count query", slog.String("query", countQuery), slog.Any("args", args))
	if err := s.db.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count content in DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count content: %w", err)
	}
	if totalCount == 0 {
		return []domain.Content{}, 0, nil
	}

	selectQuery += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, page.Size, page.Offset())
	selectQuery = s.db.Rebind(selectQuery)

	var rows []domain.Content
	s.logger.DebugContext(ctx, "Executing content select query", slog.String("query", selectQuery), slog.Any("args", args))
	if err := s.db.SelectContext(ctx, &rows, selectQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list content from DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list content: %w", err)
	}
	for i := range rows {
		rows[i] = normalize(rows[i])
	}
	if rows == nil {
		rows = []domain.Content{}
	}
	return rows, totalCount, nil
}

// searchConditions turns the present filter fields into SQL predicates.
// Unset fields contribute nothing. lower is the SQL function that folds the
// title column the same way strings.ToLower folds the argument.
func searchConditions(filter domain.SearchFilter, lower string) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Title != nil {
		conditions = append(conditions, lower+`(title) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(*filter.Title))+"%")
	}
	if filter.ContentType != nil {
		conditions = append(conditions, "content_type = ?")
		args = append(args, string(*filter.ContentType))
	}
	if filter.Genre != nil {
		conditions = append(conditions, "genre = ?")
		args = append(args, *filter.Genre)
	}
	if filter.MinYear != nil {
		conditions = append(conditions, "release_year >= ?")
		args = append(args, *filter.MinYear)
	}
	if filter.MaxYear != nil {
		conditions = append(conditions, "release_year <= ?")
		args = append(args, *filter.MaxYear)
	}
	if filter.MinRating != nil {
		conditions = append(conditions, "rating >= ?")
		args = append(args, *filter.MinRating)
	}
	return conditions, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Save inserts content without an id and assigns id and both timestamps.
// Content with an id overwrites every mutable column of the existing row and
// refreshes updated_at; created_at is never written on update.
func (s *SQLContentStore) Save(ctx context.Context, content domain.Content) (domain.Content, error) {
	if content.ID == 0 {
		return s.insert(ctx, content)
	}
	return s.update(ctx, content)
}

func (s *SQLContentStore) insert(ctx context.Context, c domain.Content) (domain.Content, error) {
	query := s.db.Rebind(`INSERT INTO content (title, description, content_type, genre, release_year, rating, duration_minutes, total_episodes, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	now := s.timestamp()
	c.CreatedAt = now
	c.UpdatedAt = now

	s.logger.DebugContext(ctx, "Executing insert content query", slog.String("title", c.Title))
	err := s.db.QueryRowxContext(ctx, query,
		c.Title, c.Description, string(c.ContentType), c.Genre, c.ReleaseYear,
		nullFloat(c.Rating), nullInt(c.DurationMinutes), nullInt(c.TotalEpisodes),
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return domain.Content{}, s.writeError(ctx, "insert", err)
	}
	s.logger.InfoContext(ctx, "Content created successfully in DB", slog.Int64("contentID", c.ID))
	return c, nil
}

func (s *SQLContentStore) update(ctx context.Context, c domain.Content) (domain.Content, error) {
	query := s.db.Rebind(`UPDATE content SET title = ?, description = ?, content_type = ?, genre = ?, release_year = ?,
              rating = ?, duration_minutes = ?, total_episodes = ?, updated_at = ? WHERE id = ?`)

	c.UpdatedAt = s.timestamp()
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}

	s.logger.DebugContext(ctx, "Executing update content query", slog.Int64("contentID", c.ID))
	result, err := s.db.ExecContext(ctx, query,
		c.Title, c.Description, string(c.ContentType), c.Genre, c.ReleaseYear,
		nullFloat(c.Rating), nullInt(c.DurationMinutes), nullInt(c.TotalEpisodes),
		c.UpdatedAt, c.ID,
	)
	if err != nil {
		return domain.Content{}, s.writeError(ctx, "update", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Content{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No content found to update in DB", slog.Int64("contentID", c.ID))
		return domain.Content{}, fmt.Errorf("%w with id: %d", ErrContentNotFound, c.ID)
	}
	s.logger.InfoContext(ctx, "Content updated successfully in DB", slog.Int64("contentID", c.ID))
	return c, nil
}

// writeError logs a failed write and tags Postgres integrity violations
// (SQLSTATE class 23) with ErrConstraintViolation.
func (s *SQLContentStore) writeError(ctx context.Context, op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		s.logger.WarnContext(ctx, "Content rejected by DB constraint",
			slog.String("op", op),
			slog.String("constraint", pqErr.Constraint),
			slog.String("error", pqErr.Error()))
		return fmt.Errorf("failed to %s content: %w: %s", op, ErrConstraintViolation, pqErr.Message)
	}
	s.logger.ErrorContext(ctx, "Failed to write content to DB", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Errorf("failed to %s content: %w", op, err)
}

// DeleteByID removes the row if present. Deleting a missing id is a no-op.
func (s *SQLContentStore) DeleteByID(ctx context.Context, id int64) error {
	query := s.db.Rebind(`DELETE FROM content WHERE id = ?`)

	s.logger.DebugContext(ctx, "Executing delete content query", slog.Int64("contentID", id))
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete content from DB", slog.Int64("contentID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

// ExistsByID reports whether a row with id exists.
func (s *SQLContentStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := s.db.Rebind(`SELECT EXISTS (SELECT 1 FROM content WHERE id = ?)`)
	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check content existence in DB", slog.Int64("contentID", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check content existence: %w", err)
	}
	return exists, nil
}

// Ping checks that the database is reachable.
func (s *SQLContentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// normalize pins scanned timestamps to UTC; drivers differ in the location
// they attach.
func normalize(c domain.Content) domain.Content {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c
}
