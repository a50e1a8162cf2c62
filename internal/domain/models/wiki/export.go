package wiki

import "time"

// FormatVersion identifies the export document layout. Bump on any breaking
// change to the shape below; importers check nothing else about provenance.
const FormatVersion = "1.0"

// Import modes.
const (
	ImportReplace = "replace"
	ImportMerge   = "merge"
)

// ExportDocument is the portable, lossless snapshot of one project: the
// authoritative interchange format.
type ExportDocument struct {
	FormatVersion string          `json:"format_version"`
	ExportedAt    time.Time       `json:"exported_at"`
	Project       ExportProject   `json:"project"`
	Sections      []ExportSection `json:"sections"`
}

// ExportProject is the project header of an export document.
type ExportProject struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ExportSection carries one section and its full page tree with content.
type ExportSection struct {
	Slug  string       `json:"slug"`
	Name  string       `json:"name"`
	Pages []ExportPage `json:"pages"`
}

// ExportPage is a tree node with content; children preserve depth and order.
// Page identities are not exported - import assigns fresh ids.
type ExportPage struct {
	Title         string       `json:"title"`
	Slug          string       `json:"slug"`
	MenuOrder     int          `json:"menu_order"`
	Content       string       `json:"content"`
	ContentFormat string       `json:"content_format"`
	Children      []ExportPage `json:"children"`
}

// ImportResult summarizes what an import created.
type ImportResult struct {
	Project       string `json:"project"`
	SectionsCount int    `json:"sections_count"`
	PagesCreated  int    `json:"pages_created"`
	Mode          string `json:"mode"`
}
