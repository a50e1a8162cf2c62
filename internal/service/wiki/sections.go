package wiki

import (
	"context"

	models "wikipress/internal/domain/models/wiki"
)

// ListSections lists section terms. With a project slug, only sections that
// actually hold pages of that project are returned; an unknown or invisible
// project fails silently to an empty set.
func (s *service) ListSections(ctx context.Context, caller models.Caller, projectSlug string) ([]models.SectionInfo, error) {
	terms, err := s.terms.List(ctx, models.TaxonomySection)
	if err != nil {
		return nil, err
	}

	var project *models.Term
	if projectSlug != "" {
		project, err = s.terms.GetBySlug(ctx, models.TaxonomyProject, projectSlug)
		if err != nil {
			if isNotFound(err) {
				return []models.SectionInfo{}, nil
			}
			return nil, err
		}
		if !projectVisible(project, caller) {
			return []models.SectionInfo{}, nil
		}
	}

	sections := make([]models.SectionInfo, 0, len(terms))
	for i := range terms {
		t := &terms[i]
		if project != nil {
			ok, err := s.terms.HasPages(ctx, project.ID, t.ID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		sections = append(sections, models.SectionInfo{
			ID:   t.ID,
			Slug: t.Slug,
			Name: t.Name,
		})
	}
	return sections, nil
}
