package domain

// NoPrimaryLanguage is the sentinel shown when no language data exists
const NoPrimaryLanguage = "—"

// Summary is the aggregated result of one summarization workflow.
// It is the complete contract exposed to presentation consumers.
type Summary struct {
	Profile *Profile `json:"profile"`

	// TopRepos is the display list: up to 20 repositories ranked by stars
	TopRepos []Repository `json:"top_repos"`

	// Languages is ordered by descending byte total, stable on ties
	Languages []AggregatedLanguage `json:"languages"`

	Totals          RepoTotals `json:"totals"`
	PrimaryLanguage string     `json:"primary_language"`
	LanguageCount   int        `json:"language_count"`

	// RecentCommits approximates commit activity from the public event log.
	// The event log has bounded retention, so this is never a lifetime total.
	RecentCommits int `json:"recent_commits"`

	// Generation correlates this result to the request that produced it.
	// Callers discard summaries whose generation is no longer current.
	Generation uint64 `json:"-"`
}
