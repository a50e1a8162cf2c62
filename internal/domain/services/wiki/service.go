package wiki

import (
	"context"

	"wikipress/internal/domain/models/wiki"
)

// CreatePageRequest creates a page. Project and section terms referenced by
// name are auto-created when absent.
type CreatePageRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	ContentFormat string `json:"content_format"`
	Project       string `json:"project"`
	Section       string `json:"section"`
	Parent        int64  `json:"parent"`
	MenuOrder     int    `json:"menu_order"`
	Slug          string `json:"slug"`
	Status        string `json:"status"`
}

// UpdatePageRequest partially updates a page; nil fields are left untouched.
// Supplying Project or Section re-applies the taxonomy tag.
type UpdatePageRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	ContentFormat *string `json:"content_format"`
	MenuOrder     *int    `json:"menu_order"`
	Parent        *int64  `json:"parent"`
	Status        *string `json:"status"`
	Project       *string `json:"project"`
	Section       *string `json:"section"`
}

// MovePageRequest updates only positional fields.
type MovePageRequest struct {
	Parent    *int64 `json:"parent"`
	MenuOrder *int   `json:"menu_order"`
}

// UpdateProjectRequest changes a project's name or public flag.
type UpdateProjectRequest struct {
	Name   *string `json:"name"`
	Public *bool   `json:"public"`
}

// PageFilter filters ListPages. Page/PerPage default to 1/100.
type PageFilter struct {
	Project string
	Section string
	Parent  *int64
	Search  string
	Page    int
	PerPage int
}

// Service is the wiki domain service: every protocol façade is a thin mapping
// onto these operations. Write gating (edit capability) is the façades' job;
// the caller argument drives visibility only.
type Service interface {
	ListProjects(ctx context.Context, caller wiki.Caller) ([]wiki.ProjectInfo, error)

	// ProjectExists reports term existence regardless of visibility. Used by
	// the tool-call façade to validate its project scope up front.
	ProjectExists(ctx context.Context, slug string) (bool, error)

	UpdateProject(ctx context.Context, caller wiki.Caller, slug string, req *UpdateProjectRequest) (*wiki.ProjectInfo, error)

	// ListSections lists sections, restricted to those with at least one page
	// in the project when projectSlug is given. Unknown or invisible projects
	// yield an empty set, not an error.
	ListSections(ctx context.Context, caller wiki.Caller, projectSlug string) ([]wiki.SectionInfo, error)

	GetTree(ctx context.Context, caller wiki.Caller, projectSlug string) ([]wiki.SectionTree, error)

	ListPages(ctx context.Context, caller wiki.Caller, filter *PageFilter) ([]wiki.PageSummary, error)

	GetPage(ctx context.Context, caller wiki.Caller, id int64) (*wiki.PageDetail, error)

	CreatePage(ctx context.Context, caller wiki.Caller, req *CreatePageRequest) (*wiki.PageDetail, error)

	UpdatePage(ctx context.Context, caller wiki.Caller, id int64, req *UpdatePageRequest) (*wiki.PageDetail, error)

	DeletePage(ctx context.Context, caller wiki.Caller, id int64) error

	MovePage(ctx context.Context, caller wiki.Caller, id int64, req *MovePageRequest) (*wiki.PageDetail, error)

	// Search returns up to 20 matches with contextual excerpts.
	Search(ctx context.Context, caller wiki.Caller, query, projectSlug string) ([]wiki.SearchResult, error)

	ExportProject(ctx context.Context, caller wiki.Caller, slug string) (*wiki.ExportDocument, error)

	ImportProject(ctx context.Context, caller wiki.Caller, doc *wiki.ExportDocument, mode string) (*wiki.ImportResult, error)
}
