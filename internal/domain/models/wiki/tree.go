package wiki

// ProjectInfo is the listing shape for a project term.
type ProjectInfo struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Public bool   `json:"public"`
}

// SectionInfo is the listing shape for a section term.
type SectionInfo struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PageNode is one node of a navigation tree. Children are ordered by
// menu_order ascending, ties broken by id.
type PageNode struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	MenuOrder int         `json:"menu_order"`
	URL       string      `json:"url"`
	Children  []*PageNode `json:"children"`
}

// SectionTree pairs a section with its page forest. A project tree is one
// SectionTree per section that has pages in the project.
type SectionTree struct {
	Section SectionInfo `json:"section"`
	Pages   []*PageNode `json:"pages"`
}
