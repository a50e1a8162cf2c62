package handler

import (
	"log/slog"
	"net/http"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/httputil"
)

// ImportExportHandler handles project export and import requests
type ImportExportHandler struct {
	service wikisvc.Service
	logger  *slog.Logger
}

// NewImportExportHandler creates a new import/export handler
func NewImportExportHandler(service wikisvc.Service, logger *slog.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		service: service,
		logger:  logger,
	}
}

// ExportProject returns a project's full content as a portable document
// GET /api/projects/{slug}/export
func (h *ImportExportHandler) ExportProject(w http.ResponseWriter, r *http.Request) {
	caller := httputil.CallerFrom(r.Context())

	doc, err := h.service.ExportProject(r.Context(), caller, r.PathValue("slug"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ImportDocument loads an export document into the project named inside it
// POST /api/import?mode=replace|merge
func (h *ImportExportHandler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}

	var doc models.ExportDocument
	if err := httputil.ParseJSON(w, r, &doc); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.ImportProject(r.Context(), caller, &doc, r.URL.Query().Get("mode"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ImportProject loads an export document into a project
// POST /api/projects/{slug}/import?mode=replace|merge
func (h *ImportExportHandler) ImportProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}

	var doc models.ExportDocument
	if err := httputil.ParseJSON(w, r, &doc); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The path slug wins over whatever slug the document carries, so a
	// document exported from one project can be imported into another.
	doc.Project.Slug = r.PathValue("slug")

	result, err := h.service.ImportProject(r.Context(), caller, &doc, r.URL.Query().Get("mode"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
