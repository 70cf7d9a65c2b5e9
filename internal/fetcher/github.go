package fetcher

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v55/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/kurihiro0119/github-profile-summarizer/internal/cache"
	"github.com/kurihiro0119/github-profile-summarizer/internal/domain"
	apperrors "github.com/kurihiro0119/github-profile-summarizer/internal/errors"
)

const (
	reposPerPage  = 100
	eventsPerPage = 100
)

// githubFetcher implements Fetcher using the GitHub REST API
type githubFetcher struct {
	client *github.Client
	store  *cache.Cache
	pacer  *Pacer
	logger zerolog.Logger
}

// NewGitHubFetcher creates a fetcher backed by the GitHub API. The token is
// optional: when empty, requests are unauthenticated and subject to the
// stricter anonymous rate limits.
func NewGitHubFetcher(token string, store *cache.Cache, logger zerolog.Logger) Fetcher {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = 30 * time.Second

	return NewGitHubFetcherWithClient(github.NewClient(httpClient), store, logger)
}

// NewGitHubFetcherWithClient creates a fetcher around an existing client.
// Tests use this to point the fetcher at a local API double.
func NewGitHubFetcherWithClient(client *github.Client, store *cache.Cache, logger zerolog.Logger) Fetcher {
	return &githubFetcher{
		client: client,
		store:  store,
		pacer:  NewPacer(logger),
		logger: logger,
	}
}

// Profile retrieves the public profile of a user
func (f *githubFetcher) Profile(ctx context.Context, username string) (*domain.Profile, error) {
	if cached, ok := f.store.Get(cache.KindProfile, username); ok {
		return cached.(*domain.Profile), nil
	}

	if err := f.pacer.Wait(ctx); err != nil {
		return nil, apperrors.NewTransportError("request cancelled", err)
	}

	user, resp, err := f.client.Users.Get(ctx, username)
	if err != nil {
		return nil, classifyError(err)
	}
	f.pacer.UpdateFromResponse(resp)

	profile := &domain.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Bio:         user.GetBio(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		Location:    user.GetLocation(),
		Company:     user.GetCompany(),
		Blog:        user.GetBlog(),
		HTMLURL:     user.GetHTMLURL(),
	}

	f.store.Put(cache.KindProfile, username, profile)
	return profile, nil
}

// Repositories retrieves the first page of a user's repositories, most
// recently updated first. A single page of up to 100 items is an accepted
// truncation for very large accounts.
func (f *githubFetcher) Repositories(ctx context.Context, username string) ([]domain.Repository, error) {
	if cached, ok := f.store.Get(cache.KindRepos, username); ok {
		return cached.([]domain.Repository), nil
	}

	if err := f.pacer.Wait(ctx); err != nil {
		return nil, apperrors.NewTransportError("request cancelled", err)
	}

	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}

	repos, resp, err := f.client.Repositories.List(ctx, username, opts)
	if err != nil {
		return nil, classifyError(err)
	}
	f.pacer.UpdateFromResponse(resp)

	result := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, domain.Repository{
			ID:        repo.GetID(),
			Name:      repo.GetName(),
			HTMLURL:   repo.GetHTMLURL(),
			Stars:     repo.GetStargazersCount(),
			Forks:     repo.GetForksCount(),
			Language:  repo.GetLanguage(),
			UpdatedAt: repo.GetUpdatedAt().Time,
		})
	}

	f.store.Put(cache.KindRepos, username, result)
	return result, nil
}

// Languages retrieves the language byte breakdown for one repository
func (f *githubFetcher) Languages(ctx context.Context, owner, repo string) (domain.LanguageMap, error) {
	key := owner + "/" + repo
	if cached, ok := f.store.Get(cache.KindLanguages, key); ok {
		return cached.(domain.LanguageMap), nil
	}

	if err := f.pacer.Wait(ctx); err != nil {
		return nil, apperrors.NewTransportError("request cancelled", err)
	}

	languages, resp, err := f.client.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, classifyError(err)
	}
	f.pacer.UpdateFromResponse(resp)

	langMap := make(domain.LanguageMap, len(languages))
	for name, bytes := range languages {
		langMap[name] = int64(bytes)
	}

	f.store.Put(cache.KindLanguages, key, langMap)
	return langMap, nil
}

// RecentCommitCount walks the user's public event log page by page, summing
// commit counts on push events, until maxPages pages or an empty page.
func (f *githubFetcher) RecentCommitCount(ctx context.Context, username string, maxPages int) (int, error) {
	if cached, ok := f.store.Get(cache.KindEvents, username); ok {
		return cached.(int), nil
	}

	commits := 0
	for page := 1; page <= maxPages; page++ {
		if err := f.pacer.Wait(ctx); err != nil {
			return 0, apperrors.NewTransportError("request cancelled", err)
		}

		opts := &github.ListOptions{PerPage: eventsPerPage, Page: page}
		events, resp, err := f.client.Activity.ListEventsPerformedByUser(ctx, username, true, opts)
		if err != nil {
			return 0, classifyError(err)
		}
		f.pacer.UpdateFromResponse(resp)

		if len(events) == 0 {
			break
		}

		for _, event := range events {
			if event.GetType() != "PushEvent" {
				continue
			}
			payload, err := event.ParsePayload()
			if err != nil {
				f.logger.Debug().Err(err).Str("user", username).Msg("skipping unparseable push event")
				continue
			}
			if push, ok := payload.(*github.PushEvent); ok {
				commits += len(push.Commits)
			}
		}
	}

	f.store.Put(cache.KindEvents, username, commits)
	return commits, nil
}

// classifyError maps go-github failures onto the closed error taxonomy so
// callers never inspect transport-specific error shapes.
func classifyError(err error) *apperrors.AppError {
	switch e := err.(type) {
	case *github.RateLimitError, *github.AbuseRateLimitError:
		return apperrors.NewRateLimitedError("API rate limit exceeded. Add a GitHub token.")
	case *github.ErrorResponse:
		if e.Response != nil {
			switch e.Response.StatusCode {
			case http.StatusNotFound:
				return apperrors.NewNotFoundError("User not found.")
			case http.StatusUnauthorized:
				return apperrors.NewUnauthorizedError("Bad credentials (invalid token).")
			case http.StatusForbidden:
				if strings.Contains(strings.ToLower(e.Message), "rate limit") {
					return apperrors.NewRateLimitedError("API rate limit exceeded. Add a GitHub token.")
				}
			}
		}
		message := e.Message
		if message == "" {
			message = "GitHub API error."
		}
		return apperrors.NewUpstreamError(message, err)
	default:
		return apperrors.NewTransportError("GitHub is unreachable.", err)
	}
}
