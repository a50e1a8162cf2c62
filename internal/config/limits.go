package config

const (
	// MaxTitleLength is the maximum length for page titles and term names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxSearchResults caps search hits per query. Fixed, not configurable
	// per call.
	MaxSearchResults = 20

	// DefaultPageSize is the page listing size when per_page is omitted.
	DefaultPageSize = 100

	// ExcerptWindow is the number of bytes of stripped content returned
	// around a search match.
	ExcerptWindow = 200

	// ExcerptLead is how many bytes before the match the excerpt window
	// starts (clamped to the start of the content).
	ExcerptLead = 80

	// ExcerptWords is the fallback word count when the query does not occur
	// in the stripped content.
	ExcerptWords = 30
)
