package domain

// LanguageMap maps language names to byte counts for a single repository.
// An empty map is a valid result for repositories without detectable source.
type LanguageMap map[string]int64

// AggregatedLanguage is one language's byte total across all sampled repositories
type AggregatedLanguage struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}
