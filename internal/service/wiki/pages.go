package wiki

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wikipress/internal/config"
	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// summarize builds the listing shape for a page, resolving its effective
// project and section tags.
func (s *service) summarize(ctx context.Context, p *models.Page) (models.PageSummary, error) {
	project, section, err := s.pageTerms(ctx, p.ID)
	if err != nil {
		return models.PageSummary{}, err
	}
	return models.PageSummary{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Parent:    p.Parent,
		MenuOrder: p.MenuOrder,
		URL:       s.pageURL(project, p.Slug),
		Project:   project,
		Section:   section,
	}, nil
}

func (s *service) detail(ctx context.Context, p *models.Page) (*models.PageDetail, error) {
	summary, err := s.summarize(ctx, p)
	if err != nil {
		return nil, err
	}
	format := p.Format
	if format == "" {
		format = models.FormatHTML
	}
	return &models.PageDetail{
		PageSummary:   summary,
		Content:       p.Content,
		ContentFormat: format,
		Modified:      p.Modified,
		Status:        p.Status,
	}, nil
}

// ListPages returns one page of published summaries ordered by menu_order.
// Private projects are excluded for non-editing callers inside the store
// query, before pagination.
func (s *service) ListPages(ctx context.Context, caller models.Caller, filter *wikisvc.PageFilter) ([]models.PageSummary, error) {
	if filter == nil {
		filter = &wikisvc.PageFilter{}
	}

	q := &wikirepo.PageQuery{
		Parent: filter.Parent,
		Search: filter.Search,
		Status: models.StatusPublish,
	}

	if filter.Project != "" {
		t, err := s.terms.GetBySlug(ctx, models.TaxonomyProject, filter.Project)
		if err != nil {
			if isNotFound(err) {
				return []models.PageSummary{}, nil
			}
			return nil, err
		}
		q.ProjectID = &t.ID
	}
	if filter.Section != "" {
		t, err := s.terms.GetBySlug(ctx, models.TaxonomySection, filter.Section)
		if err != nil {
			if isNotFound(err) {
				return []models.PageSummary{}, nil
			}
			return nil, err
		}
		q.SectionID = &t.ID
	}

	exclude, err := s.privateProjectIDs(ctx, caller)
	if err != nil {
		return nil, err
	}
	q.ExcludeProjectIDs = exclude

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = config.DefaultPageSize
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	q.Limit = perPage
	q.Offset = (page - 1) * perPage

	pages, err := s.pages.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PageSummary, 0, len(pages))
	for i := range pages {
		summary, err := s.summarize(ctx, &pages[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetPage returns the full record. Absent and invisible pages are
// indistinguishable: both fail NotFound.
func (s *service) GetPage(ctx context.Context, caller models.Caller, id int64) (*models.PageDetail, error) {
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	visible, err := s.pageVisible(ctx, p.ID, caller)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
	}
	return s.detail(ctx, p)
}

// CreatePage inserts a page, auto-creating referenced project/section terms.
// The content format is validated before the insert, so a rejected format
// never leaves a page record behind.
func (s *service) CreatePage(ctx context.Context, caller models.Caller, req *wikisvc.CreatePageRequest) (*models.PageDetail, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Status, validation.In(models.StatusPublish, models.StatusDraft)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.ContentFormat != "" && !models.ValidFormat(req.ContentFormat) {
		return nil, fmt.Errorf("%w: content_format must be %q or %q",
			domain.ErrInvalidFormat, models.FormatHTML, models.FormatMarkdown)
	}

	title := strings.TrimSpace(req.Title)
	slug := req.Slug
	if slug == "" {
		slug = slugify(title)
	} else {
		slug = slugify(slug)
	}
	status := req.Status
	if status == "" {
		status = models.StatusPublish
	}
	format := req.ContentFormat
	if format == "" {
		format = models.FormatHTML
	}

	content := req.Content
	if format == models.FormatHTML {
		content = s.sanitizer.Sanitize(content)
	}

	p := &models.Page{
		Title:     title,
		Slug:      slug,
		Content:   content,
		Format:    format,
		MenuOrder: req.MenuOrder,
		Parent:    req.Parent,
		Status:    status,
		Modified:  time.Now().UTC(),
	}
	if err := s.pages.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.applyTaxonomies(ctx, p.ID, req.Project, req.Section); err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"id", p.ID,
		"title", p.Title,
		"project", req.Project,
	)
	return s.detail(ctx, p)
}

// UpdatePage partially updates a page; nil request fields are untouched.
func (s *service) UpdatePage(ctx context.Context, caller models.Caller, id int64, req *wikisvc.UpdatePageRequest) (*models.PageDetail, error) {
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	if req.ContentFormat != nil {
		if !models.ValidFormat(*req.ContentFormat) {
			return nil, fmt.Errorf("%w: content_format must be %q or %q",
				domain.ErrInvalidFormat, models.FormatHTML, models.FormatMarkdown)
		}
		p.Format = *req.ContentFormat
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		p.Title = title
	}
	if req.Content != nil {
		content := *req.Content
		format := p.Format
		if format == "" {
			format = models.FormatHTML
		}
		if format == models.FormatHTML {
			content = s.sanitizer.Sanitize(content)
		}
		p.Content = content
	}
	if req.MenuOrder != nil {
		p.MenuOrder = *req.MenuOrder
	}
	if req.Parent != nil {
		p.Parent = *req.Parent
	}
	if req.Status != nil {
		if *req.Status != models.StatusPublish && *req.Status != models.StatusDraft {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *req.Status)
		}
		p.Status = *req.Status
	}
	p.Modified = time.Now().UTC()

	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}

	var project, section string
	if req.Project != nil {
		project = *req.Project
	}
	if req.Section != nil {
		section = *req.Section
	}
	if err := s.applyTaxonomies(ctx, p.ID, project, section); err != nil {
		return nil, err
	}

	s.logger.Info("page updated", "id", p.ID)
	return s.detail(ctx, p)
}

// DeletePage permanently removes a page. Not reversible.
func (s *service) DeletePage(ctx context.Context, caller models.Caller, id int64) error {
	if _, err := s.pages.GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
		}
		return err
	}
	if err := s.pages.Delete(ctx, id); err != nil {
		return fmt.Errorf("page %d: %w: %v", id, domain.ErrDeleteFailed, err)
	}
	s.logger.Info("page deleted", "id", id)
	return nil
}

// MovePage updates only positional fields. A new parent must exist and must
// not be the page itself or one of its descendants.
func (s *service) MovePage(ctx context.Context, caller models.Caller, id int64, req *wikisvc.MovePageRequest) (*models.PageDetail, error) {
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("page %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	if req.Parent != nil && *req.Parent != p.Parent {
		if err := s.checkMoveTarget(ctx, id, *req.Parent); err != nil {
			return nil, err
		}
		p.Parent = *req.Parent
	}
	if req.MenuOrder != nil {
		p.MenuOrder = *req.MenuOrder
	}
	p.Modified = time.Now().UTC()

	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("page moved",
		"id", p.ID,
		"parent", p.Parent,
		"menu_order", p.MenuOrder,
	)
	return s.detail(ctx, p)
}

// checkMoveTarget walks the ancestor chain of the proposed parent. Finding
// the moved page on that chain would create an unreachable cycle.
func (s *service) checkMoveTarget(ctx context.Context, id, parent int64) error {
	if parent == 0 {
		return nil
	}
	if parent == id {
		return fmt.Errorf("%w: page %d cannot be its own parent", domain.ErrInvalidMove, id)
	}
	for current := parent; current != 0; {
		ancestor, err := s.pages.GetByID(ctx, current)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: parent page %d does not exist", domain.ErrInvalidMove, current)
			}
			return err
		}
		if ancestor.Parent == id {
			return fmt.Errorf("%w: page %d is an ancestor of the target parent", domain.ErrInvalidMove, id)
		}
		current = ancestor.Parent
	}
	return nil
}
