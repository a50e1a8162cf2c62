package postgres

import "fmt"

// TableNames holds dynamically prefixed table names. The prefix separates
// dev/test/prod data in a shared database. Interpolating the prefix into SQL
// is safe: it happens before the statement reaches the database.
type TableNames struct {
	Pages     string
	Terms     string
	PageTerms string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Pages:     fmt.Sprintf("%spages", prefix),
		Terms:     fmt.Sprintf("%sterms", prefix),
		PageTerms: fmt.Sprintf("%spage_terms", prefix),
	}
}
