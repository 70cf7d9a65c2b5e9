package fetcher

import (
	"context"

	"github.com/kurihiro0119/github-profile-summarizer/internal/domain"
)

// Fetcher defines the cache-aware operations for retrieving GitHub data
type Fetcher interface {
	// Profile retrieves the public profile of a user
	Profile(ctx context.Context, username string) (*domain.Profile, error)

	// Repositories retrieves the first page (up to 100) of a user's
	// repositories ordered by most recent update. Accounts with more
	// repositories are deliberately truncated.
	Repositories(ctx context.Context, username string) ([]domain.Repository, error)

	// Languages retrieves the language byte breakdown for one repository.
	// An empty map is a valid result, not a failure.
	Languages(ctx context.Context, owner, repo string) (domain.LanguageMap, error)

	// RecentCommitCount walks up to maxPages pages of the user's public
	// event log and sums commit counts on push events. The event log has
	// bounded retention, so this is an approximation of recent activity
	// and never a lifetime total.
	RecentCommitCount(ctx context.Context, username string, maxPages int) (int, error)
}
