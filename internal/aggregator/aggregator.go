package aggregator

import (
	"sort"

	"github.com/kurihiro0119/github-profile-summarizer/internal/domain"
)

// AggregateLanguages sums byte counts per language across all input maps and
// returns the totals ordered by descending byte count. Ties keep the order in
// which a language was first encountered. The total bytes in the output always
// equal the total bytes in the input.
func AggregateLanguages(languageMaps []domain.LanguageMap) []domain.AggregatedLanguage {
	totals := make(map[string]int64)
	var order []string

	for _, langMap := range languageMaps {
		// Walk each map in a deterministic order so tie-breaking is stable
		// across runs even though Go map iteration is randomized.
		names := make([]string, 0, len(langMap))
		for name := range langMap {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if _, seen := totals[name]; !seen {
				order = append(order, name)
			}
			totals[name] += langMap[name]
		}
	}

	aggregated := make([]domain.AggregatedLanguage, 0, len(order))
	for _, name := range order {
		aggregated = append(aggregated, domain.AggregatedLanguage{
			Name:  name,
			Bytes: totals[name],
		})
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].Bytes > aggregated[j].Bytes
	})

	return aggregated
}

// RepositoryTotals sums star and fork counts over a repository list.
// An empty list yields all zeros.
func RepositoryTotals(repos []domain.Repository) domain.RepoTotals {
	totals := domain.RepoTotals{RepoCount: len(repos)}
	for _, repo := range repos {
		totals.TotalStars += repo.Stars
		totals.TotalForks += repo.Forks
	}
	return totals
}

// LanguageCardinality returns the number of distinct languages present
func LanguageCardinality(aggregated []domain.AggregatedLanguage) int {
	return len(aggregated)
}

// PrimaryLanguage returns the highest-byte language, or the sentinel when no
// language data exists
func PrimaryLanguage(aggregated []domain.AggregatedLanguage) string {
	if len(aggregated) == 0 {
		return domain.NoPrimaryLanguage
	}
	return aggregated[0].Name
}

// TopByStars returns up to n repositories ranked by descending star count.
// The input slice is left untouched; ties keep the source order.
func TopByStars(repos []domain.Repository, n int) []domain.Repository {
	ranked := make([]domain.Repository, len(repos))
	copy(ranked, repos)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stars > ranked[j].Stars
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
