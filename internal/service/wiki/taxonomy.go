package wiki

import (
	"context"
	"errors"
	"strings"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// ensureTerm resolves a term by slugified reference, creating it on first use.
// New project terms default to public.
func (s *service) ensureTerm(ctx context.Context, taxonomy, ref string) (*models.Term, error) {
	slug := slugify(ref)
	t, err := s.terms.GetBySlug(ctx, taxonomy, slug)
	if err == nil {
		return t, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	t = &models.Term{
		Taxonomy: taxonomy,
		Slug:     slug,
		Name:     strings.TrimSpace(ref),
		Public:   true,
	}
	if err := s.terms.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("term created",
		"taxonomy", taxonomy,
		"slug", slug,
	)
	return t, nil
}

// applyTaxonomies tags a page with its project and section, auto-creating
// terms referenced for the first time. Empty references leave existing tags
// untouched.
func (s *service) applyTaxonomies(ctx context.Context, pageID int64, project, section string) error {
	if project != "" {
		t, err := s.ensureTerm(ctx, models.TaxonomyProject, project)
		if err != nil {
			return err
		}
		if err := s.terms.TagPage(ctx, pageID, t.ID); err != nil {
			return err
		}
	}
	if section != "" {
		t, err := s.ensureTerm(ctx, models.TaxonomySection, section)
		if err != nil {
			return err
		}
		if err := s.terms.TagPage(ctx, pageID, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// pageTerms fetches the page's effective project and section slugs; either
// may be nil for untagged pages.
func (s *service) pageTerms(ctx context.Context, pageID int64) (project, section *string, err error) {
	if t, err := s.terms.PageTerm(ctx, pageID, models.TaxonomyProject); err == nil {
		project = &t.Slug
	} else if !isNotFound(err) {
		return nil, nil, err
	}
	if t, err := s.terms.PageTerm(ctx, pageID, models.TaxonomySection); err == nil {
		section = &t.Slug
	} else if !isNotFound(err) {
		return nil, nil, err
	}
	return project, section, nil
}
