package handler

import (
	"log/slog"
	"net/http"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	service wikisvc.Service
	logger  *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service wikisvc.Service, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger,
	}
}

// ListProjects retrieves all projects visible to the caller
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	caller := httputil.CallerFrom(r.Context())

	projects, err := h.service.ListProjects(r.Context(), caller)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []models.ProjectInfo{}
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// UpdateProject renames a project or toggles its visibility
// PATCH /api/projects/{slug}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}

	var req wikisvc.UpdateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.service.UpdateProject(r.Context(), caller, r.PathValue("slug"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// GetTree retrieves the full section/page hierarchy of a project
// GET /api/projects/{slug}/tree
func (h *ProjectHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	caller := httputil.CallerFrom(r.Context())

	tree, err := h.service.GetTree(r.Context(), caller, r.PathValue("slug"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if tree == nil {
		tree = []models.SectionTree{}
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// ListProjectSections retrieves sections that hold pages in a project
// GET /api/projects/{slug}/sections
func (h *ProjectHandler) ListProjectSections(w http.ResponseWriter, r *http.Request) {
	h.listSections(w, r, r.PathValue("slug"))
}

// ListSections retrieves sections, optionally restricted to one project
// GET /api/sections?project=
func (h *ProjectHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	h.listSections(w, r, r.URL.Query().Get("project"))
}

func (h *ProjectHandler) listSections(w http.ResponseWriter, r *http.Request, projectSlug string) {
	caller := httputil.CallerFrom(r.Context())

	sections, err := h.service.ListSections(r.Context(), caller, projectSlug)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if sections == nil {
		sections = []models.SectionInfo{}
	}

	httputil.RespondJSON(w, http.StatusOK, sections)
}
