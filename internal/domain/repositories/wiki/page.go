package wiki

import (
	"context"

	"wikipress/internal/domain/models/wiki"
)

// PageQuery filters a flat page listing. Results are always ordered by
// menu_order ascending, ties broken by id ascending (natural storage order).
type PageQuery struct {
	// ProjectID restricts to pages tagged with this project term.
	ProjectID *int64

	// SectionID restricts to pages tagged with this section term.
	SectionID *int64

	// ExcludeProjectIDs drops pages tagged with any of these project terms.
	// Applied in the query, before pagination, so private projects never
	// consume result slots.
	ExcludeProjectIDs []int64

	// Parent restricts to direct children of a page (0 = root pages).
	Parent *int64

	// Search is a case-insensitive substring match on title or content.
	Search string

	// Status restricts to one page status; empty matches any.
	Status string

	// Limit/Offset paginate after filtering. Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// PageRepository defines data access operations for page records.
type PageRepository interface {
	// Create inserts a page and fills in its assigned ID.
	Create(ctx context.Context, p *wiki.Page) error

	// GetByID retrieves a page by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*wiki.Page, error)

	// Update persists all fields of an existing page.
	Update(ctx context.Context, p *wiki.Page) error

	// Delete permanently removes a page and its taxonomy tags.
	Delete(ctx context.Context, id int64) error

	// Query lists pages matching q in menu_order, id order.
	Query(ctx context.Context, q *PageQuery) ([]wiki.Page, error)
}
