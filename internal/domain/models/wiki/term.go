package wiki

// Taxonomies a page can be tagged with. A page carries at most one term per
// taxonomy; its effective project/section membership is that single tag.
const (
	TaxonomyProject = "project"
	TaxonomySection = "section"
)

// Term is a taxonomy term (a project or a section). Public only applies to
// project terms and defaults to true; sections have no visibility of their own.
type Term struct {
	ID       int64  `json:"id" db:"id"`
	Taxonomy string `json:"taxonomy" db:"taxonomy"`
	Slug     string `json:"slug" db:"slug"`
	Name     string `json:"name" db:"name"`
	Public   bool   `json:"public" db:"public"`
	Count    int    `json:"count"`
}
