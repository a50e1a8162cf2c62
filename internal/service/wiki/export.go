package wiki

import (
	"context"
	"fmt"
	"time"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
)

// ExportProject snapshots a project's complete tree - every section, every
// published page with content, order and depth preserved - as the portable
// interchange document.
func (s *service) ExportProject(ctx context.Context, caller models.Caller, slug string) (*models.ExportDocument, error) {
	project, err := s.terms.GetBySlug(ctx, models.TaxonomyProject, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("project %s: %w", slug, domain.ErrNotFound)
		}
		return nil, err
	}
	if !projectVisible(project, caller) {
		return nil, fmt.Errorf("project %s: %w", slug, domain.ErrNotFound)
	}

	sections, err := s.ListSections(ctx, caller, slug)
	if err != nil {
		return nil, err
	}

	exportSections := make([]models.ExportSection, 0, len(sections))
	for _, section := range sections {
		pages, err := s.sectionPages(ctx, project.ID, section.ID)
		if err != nil {
			return nil, err
		}
		exportSections = append(exportSections, models.ExportSection{
			Slug:  section.Slug,
			Name:  section.Name,
			Pages: buildExportTree(pages),
		})
	}

	s.logger.Info("project exported",
		"project", slug,
		"sections", len(exportSections),
	)

	return &models.ExportDocument{
		FormatVersion: models.FormatVersion,
		ExportedAt:    time.Now().UTC(),
		Project: models.ExportProject{
			Slug: project.Slug,
			Name: project.Name,
		},
		Sections: exportSections,
	}, nil
}

// buildExportTree nests a flat, ordered page list into export nodes carrying
// full content. Same parent indexing as the navigation tree builder.
func buildExportTree(pages []models.Page) []models.ExportPage {
	byParent := make(map[int64][]*models.Page, len(pages))
	for i := range pages {
		p := &pages[i]
		byParent[p.Parent] = append(byParent[p.Parent], p)
	}

	var build func(parent int64) []models.ExportPage
	build = func(parent int64) []models.ExportPage {
		group := byParent[parent]
		nodes := make([]models.ExportPage, 0, len(group))
		for _, p := range group {
			format := p.Format
			if format == "" {
				format = models.FormatHTML
			}
			nodes = append(nodes, models.ExportPage{
				Title:         p.Title,
				Slug:          p.Slug,
				MenuOrder:     p.MenuOrder,
				Content:       p.Content,
				ContentFormat: format,
				Children:      build(p.ID),
			})
		}
		return nodes
	}
	return build(0)
}
