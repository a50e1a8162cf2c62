package handler

import (
	"log/slog"
	"net/http"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/httputil"
)

// SearchHandler handles content search requests
type SearchHandler struct {
	service wikisvc.Service
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service wikisvc.Service, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// Search finds pages matching a query, optionally scoped to a project
// GET /api/search?q=&project=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller := httputil.CallerFrom(r.Context())

	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	results, err := h.service.Search(r.Context(), caller, query, r.URL.Query().Get("project"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
