package handler

import (
	"log/slog"
	"net/http"

	"wikipress/internal/httputil"
	"wikipress/internal/markdown"
)

// MarkdownHandler previews markdown content as HTML
type MarkdownHandler struct {
	renderer *markdown.Renderer
	logger   *slog.Logger
}

// NewMarkdownHandler creates a new markdown preview handler
func NewMarkdownHandler(renderer *markdown.Renderer, logger *slog.Logger) *MarkdownHandler {
	return &MarkdownHandler{
		renderer: renderer,
		logger:   logger,
	}
}

type renderRequest struct {
	Content string `json:"content"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

// Render converts markdown to HTML for editor previews
// POST /api/render-markdown
func (h *MarkdownHandler) Render(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireEditor(w, r); !ok {
		return
	}

	var req renderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	html, err := h.renderer.Render(req.Content)
	if err != nil {
		h.logger.Error("markdown render failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to render markdown")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, renderResponse{HTML: html})
}
