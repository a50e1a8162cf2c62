package wiki

import "time"

// Content formats a page can declare. Unset defaults to HTML.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Page statuses. Listings only ever return published pages.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// ValidFormat reports whether f is an accepted content format.
func ValidFormat(f string) bool {
	return f == FormatHTML || f == FormatMarkdown
}

// Page is a wiki content node as the store persists it. Parent 0 means root.
// A page with empty content and at least one child acts as a folder node.
type Page struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Content   string    `json:"content" db:"content"`
	Format    string    `json:"content_format" db:"content_format"`
	MenuOrder int       `json:"menu_order" db:"menu_order"`
	Parent    int64     `json:"parent" db:"parent"`
	Status    string    `json:"status" db:"status"`
	Modified  time.Time `json:"modified" db:"modified"`
}

// PageSummary is the listing shape: positional metadata plus the page's
// effective project and section slugs (nil for untagged legacy pages).
type PageSummary struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Parent    int64   `json:"parent"`
	MenuOrder int     `json:"menu_order"`
	URL       string  `json:"url"`
	Project   *string `json:"project"`
	Section   *string `json:"section"`
}

// PageDetail is a summary plus the full content fields.
type PageDetail struct {
	PageSummary
	Content       string    `json:"content"`
	ContentFormat string    `json:"content_format"`
	Modified      time.Time `json:"modified"`
	Status        string    `json:"status"`
}

// SearchResult is a summary with a contextual excerpt around the first match.
type SearchResult struct {
	PageSummary
	Excerpt string `json:"excerpt"`
}
