package wiki

import (
	"context"
	"errors"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
)

// projectVisible decides whether a caller may see a project term. Editors see
// everything; otherwise the project must be public (the default). A nil term
// means the page is untagged, which is visible - there is no project to hide
// behind.
func projectVisible(t *models.Term, caller models.Caller) bool {
	if caller.Editor {
		return true
	}
	return t == nil || t.Public
}

// pageVisible derives page visibility from the page's project tag.
func (s *service) pageVisible(ctx context.Context, pageID int64, caller models.Caller) (bool, error) {
	if caller.Editor {
		return true, nil
	}
	t, err := s.terms.PageTerm(ctx, pageID, models.TaxonomyProject)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return t.Public, nil
}

// privateProjectIDs returns the project terms a caller must not see, for use
// as a store-level exclusion filter. Nil for editors.
func (s *service) privateProjectIDs(ctx context.Context, caller models.Caller) ([]int64, error) {
	if caller.Editor {
		return nil, nil
	}
	terms, err := s.terms.List(ctx, models.TaxonomyProject)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, t := range terms {
		if !t.Public {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}
