// catalog-service/internal/store/migrate.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS content (
		id               BIGSERIAL PRIMARY KEY,
		title            VARCHAR(255)  NOT NULL,
		description      VARCHAR(1000) NOT NULL,
		content_type     VARCHAR(32)   NOT NULL,
		genre            VARCHAR(100)  NOT NULL,
		release_year     INTEGER       NOT NULL CHECK (release_year BETWEEN 1900 AND 2100),
		rating           NUMERIC(3,1)  CHECK (rating BETWEEN 0 AND 10),
		duration_minutes INTEGER       CHECK (duration_minutes >= 0),
		total_episodes   INTEGER       CHECK (total_episodes >= 0),
		created_at       TIMESTAMPTZ   NOT NULL,
		updated_at       TIMESTAMPTZ   NOT NULL,
		CHECK (created_at <= updated_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_type ON content (content_type)`,
	`CREATE INDEX IF NOT EXISTS idx_content_genre ON content (genre)`,
	`CREATE INDEX IF NOT EXISTS idx_content_rating ON content (rating)`,
}

// SQLite ignores VARCHAR lengths, so they are spelled out as CHECKs.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS content (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		title            VARCHAR(255)  NOT NULL CHECK (length(title) <= 255),
		description      VARCHAR(1000) NOT NULL CHECK (length(description) <= 1000),
		content_type     VARCHAR(32)   NOT NULL,
		genre            VARCHAR(100)  NOT NULL CHECK (length(genre) <= 100),
		release_year     INTEGER       NOT NULL CHECK (release_year BETWEEN 1900 AND 2100),
		rating           NUMERIC(3,1)  CHECK (rating BETWEEN 0 AND 10),
		duration_minutes INTEGER       CHECK (duration_minutes >= 0),
		total_episodes   INTEGER       CHECK (total_episodes >= 0),
		created_at       TIMESTAMP     NOT NULL,
		updated_at       TIMESTAMP     NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_type ON content (content_type)`,
	`CREATE INDEX IF NOT EXISTS idx_content_genre ON content (genre)`,
	`CREATE INDEX IF NOT EXISTS idx_content_rating ON content (rating)`,
}

// Migrate creates the content table and its indexes when they are missing.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	var statements []string
	switch db.DriverName() {
	case "postgres":
		statements = postgresSchema
	case "sqlite":
		statements = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	logger.InfoContext(ctx, "Content schema is up to date", slog.String("driver", db.DriverName()))
	return nil
}
