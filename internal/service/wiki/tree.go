package wiki

import (
	"context"
	"fmt"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"
)

// GetTree returns the project's navigation forest, one entry per section that
// has pages in the project. Fails NotFound for absent or invisible projects.
func (s *service) GetTree(ctx context.Context, caller models.Caller, projectSlug string) ([]models.SectionTree, error) {
	project, err := s.terms.GetBySlug(ctx, models.TaxonomyProject, projectSlug)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("project %s: %w", projectSlug, domain.ErrNotFound)
		}
		return nil, err
	}
	if !projectVisible(project, caller) {
		return nil, fmt.Errorf("project %s: %w", projectSlug, domain.ErrNotFound)
	}

	sections, err := s.ListSections(ctx, caller, projectSlug)
	if err != nil {
		return nil, err
	}

	tree := make([]models.SectionTree, 0, len(sections))
	for _, section := range sections {
		pages, err := s.sectionPages(ctx, project.ID, section.ID)
		if err != nil {
			return nil, err
		}
		tree = append(tree, models.SectionTree{
			Section: section,
			Pages:   s.buildPageTree(pages, projectSlug),
		})
	}

	s.logger.Debug("project tree built",
		"project", projectSlug,
		"sections", len(tree),
	)
	return tree, nil
}

// sectionPages lists the published pages of one project+section, in
// menu_order, id order - the flat input every tree build starts from.
func (s *service) sectionPages(ctx context.Context, projectID, sectionID int64) ([]models.Page, error) {
	return s.pages.Query(ctx, &wikirepo.PageQuery{
		ProjectID: &projectID,
		SectionID: &sectionID,
		Status:    models.StatusPublish,
	})
}

// buildPageTree nests a flat, ordered page list by parent pointer. The list
// is indexed by parent once, so each level reuses the grouping instead of
// re-scanning the whole slice. Pages whose parent lies outside the list (a
// different section) start no subtree: sections partition their own forests.
func (s *service) buildPageTree(pages []models.Page, projectSlug string) []*models.PageNode {
	byParent := make(map[int64][]*models.Page, len(pages))
	for i := range pages {
		p := &pages[i]
		byParent[p.Parent] = append(byParent[p.Parent], p)
	}

	var build func(parent int64) []*models.PageNode
	build = func(parent int64) []*models.PageNode {
		group := byParent[parent]
		nodes := make([]*models.PageNode, 0, len(group))
		for _, p := range group {
			nodes = append(nodes, &models.PageNode{
				ID:        p.ID,
				Title:     p.Title,
				Slug:      p.Slug,
				MenuOrder: p.MenuOrder,
				URL:       s.pageURL(&projectSlug, p.Slug),
				Children:  build(p.ID),
			})
		}
		return nodes
	}
	return build(0)
}
