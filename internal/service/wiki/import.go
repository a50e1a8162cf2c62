package wiki

import (
	"context"
	"fmt"
	"time"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ImportProject reconstructs a project tree from an export document.
//
// Replace mode permanently deletes every existing page of the target project
// before inserting anything - the caller confirms that out-of-band. Neither
// mode is transactional: a failure partway leaves partial state.
func (s *service) ImportProject(ctx context.Context, caller models.Caller, doc *models.ExportDocument, mode string) (*models.ImportResult, error) {
	if mode == "" {
		mode = models.ImportReplace
	}
	if mode != models.ImportReplace && mode != models.ImportMerge {
		return nil, fmt.Errorf("%w: mode must be %q or %q",
			domain.ErrValidation, models.ImportReplace, models.ImportMerge)
	}
	if err := validateImportDocument(doc); err != nil {
		return nil, err
	}

	projectSlug := slugify(doc.Project.Slug)
	project, err := s.ensureTerm(ctx, models.TaxonomyProject, doc.Project.Slug)
	if err != nil {
		return nil, err
	}
	// A fresh term slugifies its reference but keeps the reference as its
	// name; imports carry an explicit display name.
	if project.Name != doc.Project.Name {
		project.Name = doc.Project.Name
		if err := s.terms.Update(ctx, project); err != nil {
			return nil, err
		}
	}

	if mode == models.ImportReplace {
		if err := s.deleteProjectPages(ctx, project.ID); err != nil {
			return nil, err
		}
	}

	pagesCreated := 0
	for _, sectionDoc := range doc.Sections {
		ref := sectionDoc.Slug
		if ref == "" {
			ref = sectionDoc.Name
		}
		section, err := s.ensureTerm(ctx, models.TaxonomySection, ref)
		if err != nil {
			return nil, err
		}
		if sectionDoc.Name != "" && section.Name != sectionDoc.Name {
			section.Name = sectionDoc.Name
			if err := s.terms.Update(ctx, section); err != nil {
				return nil, err
			}
		}

		n, err := s.importPageTree(ctx, sectionDoc.Pages, 0, project.ID, section.ID)
		if err != nil {
			return nil, err
		}
		pagesCreated += n
	}

	s.logger.Info("project imported",
		"project", projectSlug,
		"mode", mode,
		"pages_created", pagesCreated,
	)

	return &models.ImportResult{
		Project:       projectSlug,
		SectionsCount: len(doc.Sections),
		PagesCreated:  pagesCreated,
		Mode:          mode,
	}, nil
}

// importPageTree creates pages depth-first, wiring each document's children
// to the freshly assigned parent id. Content is stored verbatim so exports
// round-trip losslessly.
func (s *service) importPageTree(ctx context.Context, docs []models.ExportPage, parent int64, projectID, sectionID int64) (int, error) {
	count := 0
	for _, doc := range docs {
		format := doc.ContentFormat
		if !models.ValidFormat(format) {
			format = models.FormatHTML
		}
		p := &models.Page{
			Title:     doc.Title,
			Slug:      slugify(doc.Slug),
			Content:   doc.Content,
			Format:    format,
			MenuOrder: doc.MenuOrder,
			Parent:    parent,
			Status:    models.StatusPublish,
			Modified:  time.Now().UTC(),
		}
		if err := s.pages.Create(ctx, p); err != nil {
			return count, err
		}
		if err := s.terms.TagPage(ctx, p.ID, projectID); err != nil {
			return count, err
		}
		if err := s.terms.TagPage(ctx, p.ID, sectionID); err != nil {
			return count, err
		}
		count++

		n, err := s.importPageTree(ctx, doc.Children, p.ID, projectID, sectionID)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

// deleteProjectPages removes every page tagged with the project, any status.
func (s *service) deleteProjectPages(ctx context.Context, projectID int64) error {
	pages, err := s.pages.Query(ctx, &wikirepo.PageQuery{ProjectID: &projectID})
	if err != nil {
		return err
	}
	for i := range pages {
		if err := s.pages.Delete(ctx, pages[i].ID); err != nil {
			return fmt.Errorf("page %d: %w: %v", pages[i].ID, domain.ErrDeleteFailed, err)
		}
	}
	return nil
}

func validateImportDocument(doc *models.ExportDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", domain.ErrInvalidData)
	}
	if err := validation.ValidateStruct(&doc.Project,
		validation.Field(&doc.Project.Slug, validation.Required),
		validation.Field(&doc.Project.Name, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
	}
	if doc.Sections == nil {
		return fmt.Errorf("%w: missing or invalid sections array", domain.ErrInvalidData)
	}
	return nil
}
