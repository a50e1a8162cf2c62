package wiki

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"wikipress/internal/config"
	models "wikipress/internal/domain/models/wiki"
	wikirepo "wikipress/internal/domain/repositories/wiki"
)

var (
	blockStrip = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagStrip   = regexp.MustCompile(`<[^>]*>`)
)

// Search returns up to 20 published matches with excerpts. Private projects
// are excluded in the store query, same as ListPages, so the result cap is
// never consumed by pages the caller cannot see.
func (s *service) Search(ctx context.Context, caller models.Caller, query, projectSlug string) ([]models.SearchResult, error) {
	q := &wikirepo.PageQuery{
		Search: query,
		Status: models.StatusPublish,
		Limit:  config.MaxSearchResults,
	}

	if projectSlug != "" {
		t, err := s.terms.GetBySlug(ctx, models.TaxonomyProject, projectSlug)
		if err != nil {
			if isNotFound(err) {
				return []models.SearchResult{}, nil
			}
			return nil, err
		}
		q.ProjectID = &t.ID
	}

	exclude, err := s.privateProjectIDs(ctx, caller)
	if err != nil {
		return nil, err
	}
	q.ExcludeProjectIDs = exclude

	pages, err := s.pages.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(pages))
	for i := range pages {
		summary, err := s.summarize(ctx, &pages[i])
		if err != nil {
			return nil, err
		}
		results = append(results, models.SearchResult{
			PageSummary: summary,
			Excerpt:     excerpt(pages[i].Content, query),
		})
	}
	return results, nil
}

// excerpt produces the search context: a window of stripped content starting
// shortly before the first case-insensitive match, or a word-trimmed lead
// when the match is only in the title.
func excerpt(content, query string) string {
	text := strings.TrimSpace(stripTags(content))
	pos := -1
	if query != "" {
		pos = strings.Index(strings.ToLower(text), strings.ToLower(query))
	}
	if pos < 0 {
		return trimWords(text, config.ExcerptWords)
	}

	start := pos - config.ExcerptLead
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := start + config.ExcerptWindow
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}
	return "..." + text[start:end] + "..."
}

// stripTags removes script/style blocks, then all remaining markup.
func stripTags(html string) string {
	html = blockStrip.ReplaceAllString(html, "")
	return tagStrip.ReplaceAllString(html, "")
}

// trimWords returns the first n whitespace-separated words of text, with a
// trailing ellipsis when anything was cut.
func trimWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
