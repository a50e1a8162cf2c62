package wiki

import (
	"context"

	"wikipress/internal/domain/models/wiki"
)

// TermRepository defines data access operations for taxonomy terms and the
// page-term tagging relation.
type TermRepository interface {
	// List returns all terms of a taxonomy ordered by name, with the
	// number of published tagged pages filled into Count.
	List(ctx context.Context, taxonomy string) ([]wiki.Term, error)

	// GetBySlug retrieves one term. Returns domain.ErrNotFound if absent.
	GetBySlug(ctx context.Context, taxonomy, slug string) (*wiki.Term, error)

	// Create inserts a term and fills in its assigned ID.
	Create(ctx context.Context, t *wiki.Term) error

	// Update persists a term's name and public flag.
	Update(ctx context.Context, t *wiki.Term) error

	// TagPage assigns the page's single term in the term's taxonomy,
	// replacing any previous tag in that taxonomy.
	TagPage(ctx context.Context, pageID int64, termID int64) error

	// PageTerm returns the page's term in a taxonomy, or domain.ErrNotFound
	// for untagged pages.
	PageTerm(ctx context.Context, pageID int64, taxonomy string) (*wiki.Term, error)

	// HasPages reports whether at least one page is tagged with both the
	// project and the section term (the section-in-project probe).
	HasPages(ctx context.Context, projectID, sectionID int64) (bool, error)
}
