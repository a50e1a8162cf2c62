package wiki

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"
	"wikipress/internal/repository/postgres"
)

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	config *postgres.RepositoryConfig
	logger *slog.Logger
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *postgres.RepositoryConfig) wikirepo.PageRepository {
	return &PostgresPageRepository{
		config: config,
		logger: config.Logger,
	}
}

const pageColumns = "id, title, slug, content, content_format, menu_order, parent, status, modified"

func (r *PostgresPageRepository) scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	var p models.Page
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Content,
		&p.Format,
		&p.MenuOrder,
		&p.Parent,
		&p.Status,
		&p.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a page and fills in its assigned ID.
func (r *PostgresPageRepository) Create(ctx context.Context, p *models.Page) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, slug, content, content_format, menu_order, parent, status, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, r.config.Tables.Pages)

	err := r.config.Pool.QueryRow(ctx, query,
		p.Title,
		p.Slug,
		p.Content,
		p.Format,
		p.MenuOrder,
		p.Parent,
		p.Status,
		p.Modified,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

// GetByID retrieves a page by ID
func (r *PostgresPageRepository) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, pageColumns, r.config.Tables.Pages)

	p, err := r.scanPage(r.config.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

// Update persists all fields of an existing page
func (r *PostgresPageRepository) Update(ctx context.Context, p *models.Page) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, slug = $3, content = $4, content_format = $5,
		    menu_order = $6, parent = $7, status = $8, modified = $9
		WHERE id = $1
	`, r.config.Tables.Pages)

	tag, err := r.config.Pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Content,
		p.Format,
		p.MenuOrder,
		p.Parent,
		p.Status,
		p.Modified,
	)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("page %d: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete permanently removes a page; taxonomy tags cascade.
func (r *PostgresPageRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.config.Tables.Pages)

	tag, err := r.config.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Query lists pages matching q ordered by menu_order, id. Taxonomy filters
// join the tagging table; the private-project exclusion is a NOT IN subquery
// so it applies before LIMIT/OFFSET.
func (r *PostgresPageRepository) Query(ctx context.Context, q *wikirepo.PageQuery) ([]models.Page, error) {
	if q == nil {
		q = &wikirepo.PageQuery{}
	}

	var (
		sb    strings.Builder
		joins []string
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.ProjectID != nil {
		joins = append(joins, fmt.Sprintf(
			"JOIN %s ptp ON ptp.page_id = p.id AND ptp.taxonomy = 'project' AND ptp.term_id = %s",
			r.config.Tables.PageTerms, arg(*q.ProjectID)))
	}
	if q.SectionID != nil {
		joins = append(joins, fmt.Sprintf(
			"JOIN %s pts ON pts.page_id = p.id AND pts.taxonomy = 'section' AND pts.term_id = %s",
			r.config.Tables.PageTerms, arg(*q.SectionID)))
	}
	if len(q.ExcludeProjectIDs) > 0 {
		where = append(where, fmt.Sprintf(
			"p.id NOT IN (SELECT page_id FROM %s WHERE taxonomy = 'project' AND term_id = ANY(%s))",
			r.config.Tables.PageTerms, arg(q.ExcludeProjectIDs)))
	}
	if q.Parent != nil {
		where = append(where, fmt.Sprintf("p.parent = %s", arg(*q.Parent)))
	}
	if q.Status != "" {
		where = append(where, fmt.Sprintf("p.status = %s", arg(q.Status)))
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		ph := arg(pattern)
		where = append(where, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s)", ph, ph))
	}

	fmt.Fprintf(&sb, "SELECT p.id, p.title, p.slug, p.content, p.content_format, p.menu_order, p.parent, p.status, p.modified FROM %s p", r.config.Tables.Pages)
	for _, j := range joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY p.menu_order ASC, p.id ASC")
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %s", arg(q.Limit))
	}
	if q.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %s", arg(q.Offset))
	}

	rows, err := r.config.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := r.scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	return pages, nil
}

// escapeLike escapes LIKE metacharacters so user queries match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
