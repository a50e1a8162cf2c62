package wiki

import (
	"context"
	"fmt"
	"log/slog"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"
	"wikipress/internal/repository/postgres"
)

// PostgresTermRepository implements the TermRepository interface
type PostgresTermRepository struct {
	config *postgres.RepositoryConfig
	logger *slog.Logger
}

// NewTermRepository creates a new term repository
func NewTermRepository(config *postgres.RepositoryConfig) wikirepo.TermRepository {
	return &PostgresTermRepository{
		config: config,
		logger: config.Logger,
	}
}

// List returns all terms in a taxonomy with their published page counts,
// ordered by name.
func (r *PostgresTermRepository) List(ctx context.Context, taxonomy string) ([]models.Term, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.taxonomy, t.slug, t.name, t.public,
		       COUNT(p.id) AS count
		FROM %s t
		LEFT JOIN %s pt ON pt.term_id = t.id
		LEFT JOIN %s p ON p.id = pt.page_id AND p.status = 'publish'
		WHERE t.taxonomy = $1
		GROUP BY t.id
		ORDER BY t.name ASC
	`, r.config.Tables.Terms, r.config.Tables.PageTerms, r.config.Tables.Pages)

	rows, err := r.config.Pool.Query(ctx, query, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var terms []models.Term
	for rows.Next() {
		var t models.Term
		if err := rows.Scan(&t.ID, &t.Taxonomy, &t.Slug, &t.Name, &t.Public, &t.Count); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// GetBySlug retrieves a term by taxonomy and slug
func (r *PostgresTermRepository) GetBySlug(ctx context.Context, taxonomy, slug string) (*models.Term, error) {
	query := fmt.Sprintf(`
		SELECT id, taxonomy, slug, name, public
		FROM %s
		WHERE taxonomy = $1 AND slug = $2
	`, r.config.Tables.Terms)

	var t models.Term
	err := r.config.Pool.QueryRow(ctx, query, taxonomy, slug).
		Scan(&t.ID, &t.Taxonomy, &t.Slug, &t.Name, &t.Public)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("term %s/%s: %w", taxonomy, slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get term: %w", err)
	}
	return &t, nil
}

// Create inserts a term and fills in its assigned ID.
func (r *PostgresTermRepository) Create(ctx context.Context, t *models.Term) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (taxonomy, slug, name, public)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.config.Tables.Terms)

	err := r.config.Pool.QueryRow(ctx, query, t.Taxonomy, t.Slug, t.Name, t.Public).Scan(&t.ID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("term %s/%s already exists: %w", t.Taxonomy, t.Slug, err)
		}
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a term
func (r *PostgresTermRepository) Update(ctx context.Context, t *models.Term) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET slug = $2, name = $3, public = $4
		WHERE id = $1
	`, r.config.Tables.Terms)

	tag, err := r.config.Pool.Exec(ctx, query, t.ID, t.Slug, t.Name, t.Public)
	if err != nil {
		return fmt.Errorf("update term: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("term %d: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// TagPage assigns a term to a page, replacing any existing term from the same
// taxonomy. The upsert keys on (page_id, taxonomy) so a page carries at most
// one project and one section.
func (r *PostgresTermRepository) TagPage(ctx context.Context, pageID, termID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, term_id, taxonomy)
		SELECT $1, id, taxonomy FROM %s WHERE id = $2
		ON CONFLICT (page_id, taxonomy) DO UPDATE SET term_id = EXCLUDED.term_id
	`, r.config.Tables.PageTerms, r.config.Tables.Terms)

	tag, err := r.config.Pool.Exec(ctx, query, pageID, termID)
	if err != nil {
		return fmt.Errorf("tag page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("term %d: %w", termID, domain.ErrNotFound)
	}
	return nil
}

// PageTerm returns the term tagged on a page for the given taxonomy, or
// ErrNotFound when the page carries no term in that taxonomy.
func (r *PostgresTermRepository) PageTerm(ctx context.Context, pageID int64, taxonomy string) (*models.Term, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.taxonomy, t.slug, t.name, t.public
		FROM %s t
		JOIN %s pt ON pt.term_id = t.id
		WHERE pt.page_id = $1 AND pt.taxonomy = $2
	`, r.config.Tables.Terms, r.config.Tables.PageTerms)

	var t models.Term
	err := r.config.Pool.QueryRow(ctx, query, pageID, taxonomy).
		Scan(&t.ID, &t.Taxonomy, &t.Slug, &t.Name, &t.Public)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %d %s term: %w", pageID, taxonomy, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("page term: %w", err)
	}
	return &t, nil
}

// HasPages reports whether any published page is tagged with both the project
// and section terms.
func (r *PostgresTermRepository) HasPages(ctx context.Context, projectID, sectionID int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s p
			JOIN %s ptp ON ptp.page_id = p.id AND ptp.taxonomy = 'project' AND ptp.term_id = $1
			JOIN %s pts ON pts.page_id = p.id AND pts.taxonomy = 'section' AND pts.term_id = $2
			WHERE p.status = 'publish'
		)
	`, r.config.Tables.Pages, r.config.Tables.PageTerms, r.config.Tables.PageTerms)

	var exists bool
	if err := r.config.Pool.QueryRow(ctx, query, projectID, sectionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has pages: %w", err)
	}
	return exists, nil
}
