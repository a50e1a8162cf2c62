package wiki

import (
	"context"
	"fmt"
	"strings"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
)

// ListProjects returns project terms in storage order, filtered by visibility
// for non-editing callers.
func (s *service) ListProjects(ctx context.Context, caller models.Caller) ([]models.ProjectInfo, error) {
	terms, err := s.terms.List(ctx, models.TaxonomyProject)
	if err != nil {
		return nil, err
	}

	projects := make([]models.ProjectInfo, 0, len(terms))
	for i := range terms {
		t := &terms[i]
		if !projectVisible(t, caller) {
			continue
		}
		projects = append(projects, models.ProjectInfo{
			ID:     t.ID,
			Slug:   t.Slug,
			Name:   t.Name,
			Count:  t.Count,
			Public: t.Public,
		})
	}
	return projects, nil
}

// ProjectExists reports term existence regardless of visibility.
func (s *service) ProjectExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.terms.GetBySlug(ctx, models.TaxonomyProject, slug)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// UpdateProject changes a project's name or public flag.
func (s *service) UpdateProject(ctx context.Context, caller models.Caller, slug string, req *wikisvc.UpdateProjectRequest) (*models.ProjectInfo, error) {
	t, err := s.terms.GetBySlug(ctx, models.TaxonomyProject, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("project %s: %w", slug, domain.ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		t.Name = name
	}
	if req.Public != nil {
		t.Public = *req.Public
	}

	if err := s.terms.Update(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"slug", t.Slug,
		"public", t.Public,
	)

	return &models.ProjectInfo{
		ID:     t.ID,
		Slug:   t.Slug,
		Name:   t.Name,
		Count:  t.Count,
		Public: t.Public,
	}, nil
}
