package wiki

import (
	"fmt"
	"log/slog"
	"strings"

	wikirepo "wikipress/internal/domain/repositories/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"

	"github.com/microcosm-cc/bluemonday"
)

// service implements the wiki domain Service interface on top of the content
// store adapters. It holds no mutable state between calls.
type service struct {
	pages     wikirepo.PageRepository
	terms     wikirepo.TermRepository
	sanitizer *bluemonday.Policy
	baseURL   string
	logger    *slog.Logger
}

// NewService creates the wiki domain service. baseURL is prepended to
// generated page URLs.
func NewService(
	pages wikirepo.PageRepository,
	terms wikirepo.TermRepository,
	baseURL string,
	logger *slog.Logger,
) wikisvc.Service {
	return &service{
		pages:     pages,
		terms:     terms,
		sanitizer: bluemonday.UGCPolicy(),
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// pageURL builds the public permalink for a page slug under a project.
func (s *service) pageURL(projectSlug *string, pageSlug string) string {
	if projectSlug != nil && *projectSlug != "" {
		return fmt.Sprintf("%s/wiki/%s/%s", s.baseURL, *projectSlug, pageSlug)
	}
	return fmt.Sprintf("%s/wiki/%s", s.baseURL, pageSlug)
}
