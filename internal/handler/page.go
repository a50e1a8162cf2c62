package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/httputil"
)

// PageHandler handles page HTTP requests
type PageHandler struct {
	service wikisvc.Service
	logger  *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(service wikisvc.Service, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service: service,
		logger:  logger,
	}
}

// ListPages retrieves a flat page listing with optional filters
// GET /api/pages?project=&section=&parent=&search=&page=&per_page=
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	caller := httputil.CallerFrom(r.Context())
	q := r.URL.Query()

	filter := &wikisvc.PageFilter{
		Project: q.Get("project"),
		Section: q.Get("section"),
		Search:  q.Get("search"),
	}
	if v := q.Get("parent"); v != "" {
		parent, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid parent")
			return
		}
		filter.Parent = &parent
	}
	if v := q.Get("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("per_page"); v != "" {
		filter.PerPage, _ = strconv.Atoi(v)
	}

	pages, err := h.service.ListPages(r.Context(), caller, filter)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if pages == nil {
		pages = []models.PageSummary{}
	}

	httputil.RespondJSON(w, http.StatusOK, pages)
}

// GetPage retrieves a single page with content
// GET /api/pages/{id}
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pageID(w, r)
	if !ok {
		return
	}
	caller := httputil.CallerFrom(r.Context())

	page, err := h.service.GetPage(r.Context(), caller, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreatePage creates a new page
// POST /api/pages
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}

	var req wikisvc.CreatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	page, err := h.service.CreatePage(r.Context(), caller, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, page)
}

// UpdatePage partially updates a page
// PATCH /api/pages/{id}
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}
	id, ok := pageID(w, r)
	if !ok {
		return
	}

	var req wikisvc.UpdatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	page, err := h.service.UpdatePage(r.Context(), caller, id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// DeletePage permanently deletes a page
// DELETE /api/pages/{id}
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}
	id, ok := pageID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePage(r.Context(), caller, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"deleted": true,
		"id":      id,
	})
}

// MovePage repositions a page in the tree
// PATCH /api/pages/{id}/move
func (h *PageHandler) MovePage(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireEditor(w, r)
	if !ok {
		return
	}
	id, ok := pageID(w, r)
	if !ok {
		return
	}

	var req wikisvc.MovePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	page, err := h.service.MovePage(r.Context(), caller, id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}
