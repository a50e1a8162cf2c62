package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the wiki tables when they do not exist yet. The
// (page_id, taxonomy) primary key on the tagging table is what enforces
// "one term per taxonomy per page" at the storage level.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id       BIGSERIAL PRIMARY KEY,
				taxonomy TEXT NOT NULL,
				slug     TEXT NOT NULL,
				name     TEXT NOT NULL,
				public   BOOLEAN NOT NULL DEFAULT TRUE,
				UNIQUE (taxonomy, slug)
			)`, tables.Terms),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id             BIGSERIAL PRIMARY KEY,
				title          TEXT NOT NULL,
				slug           TEXT NOT NULL,
				content        TEXT NOT NULL DEFAULT '',
				content_format TEXT NOT NULL DEFAULT 'html',
				menu_order     INTEGER NOT NULL DEFAULT 0,
				parent         BIGINT NOT NULL DEFAULT 0,
				status         TEXT NOT NULL DEFAULT 'publish',
				modified       TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, tables.Pages),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				page_id  BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				term_id  BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				taxonomy TEXT NOT NULL,
				PRIMARY KEY (page_id, taxonomy)
			)`, tables.PageTerms, tables.Pages, tables.Terms),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent, menu_order)`,
			tables.Pages, tables.Pages),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_term_idx ON %s (term_id)`,
			tables.PageTerms, tables.PageTerms),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
