package fetcher_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v55/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-profile-summarizer/internal/cache"
	apperrors "github.com/kurihiro0119/github-profile-summarizer/internal/errors"
	"github.com/kurihiro0119/github-profile-summarizer/internal/fetcher"
)

// newTestFetcher points a fetcher at a local API double
func newTestFetcher(t *testing.T, handler http.Handler) (fetcher.Fetcher, *cache.Cache, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	store := cache.New()
	return fetcher.NewGitHubFetcherWithClient(client, store, zerolog.Nop()), store, server
}

func TestProfile(t *testing.T) {
	t.Run("fetches_and_caches", func(t *testing.T) {
		requests := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprint(w, `{"login":"octo","name":"Octo Cat","followers":10,"following":3,"public_repos":2,"html_url":"https://github.com/octo"}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		profile, err := f.Profile(context.Background(), "octo")
		require.NoError(t, err)
		assert.Equal(t, "octo", profile.Login)
		assert.Equal(t, "Octo Cat", profile.Name)
		assert.Equal(t, 10, profile.Followers)
		assert.Equal(t, 2, profile.PublicRepos)

		// Second fetch must be served from cache
		again, err := f.Profile(context.Background(), "octo")
		require.NoError(t, err)
		assert.Equal(t, profile, again)
		assert.Equal(t, 1, requests)
	})

	t.Run("unknown_user_is_not_found", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.Profile(context.Background(), "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))

		appErr := err.(*apperrors.AppError)
		assert.Equal(t, "User not found.", appErr.Message)
	})

	t.Run("bad_credentials_are_unauthorized", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Bad credentials"}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.Profile(context.Background(), "octo")
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("rate_limit_is_classified", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded for 127.0.0.1."}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.Profile(context.Background(), "octo")
		require.Error(t, err)
		assert.True(t, apperrors.IsRateLimited(err))
	})

	t.Run("server_failure_is_upstream_error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"message":"upstream exploded"}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.Profile(context.Background(), "octo")
		require.Error(t, err)

		appErr := err.(*apperrors.AppError)
		assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
		assert.Equal(t, "upstream exploded", appErr.Message)
	})

	t.Run("unreachable_host_is_transport_error", func(t *testing.T) {
		f, _, server := newTestFetcher(t, http.NewServeMux())
		server.Close()

		_, err := f.Profile(context.Background(), "octo")
		require.Error(t, err)
		assert.True(t, apperrors.IsTransport(err))
	})

	t.Run("failure_is_not_cached", func(t *testing.T) {
		requests := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
			requests++
			if requests == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message":"flaky"}`)
				return
			}
			fmt.Fprint(w, `{"login":"octo"}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.Profile(context.Background(), "octo")
		require.Error(t, err)

		// A retry after failure must re-attempt the network call
		profile, err := f.Profile(context.Background(), "octo")
		require.NoError(t, err)
		assert.Equal(t, "octo", profile.Login)
		assert.Equal(t, 2, requests)
	})
}

func TestRepositories(t *testing.T) {
	t.Run("takes_only_the_first_page", func(t *testing.T) {
		pagesServed := map[string]int{}
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			pagesServed[page]++

			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))

			// Advertise a next page; the fetcher must not follow it
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, r.URL.Path))
			fmt.Fprint(w, `[
				{"id":1,"name":"a","stargazers_count":5,"forks_count":1,"language":"Go","updated_at":"2024-05-01T10:00:00Z"},
				{"id":2,"name":"b","stargazers_count":2,"forks_count":0,"updated_at":"2024-04-01T10:00:00Z"}
			]`)
		})

		f, _, _ := newTestFetcher(t, mux)

		repos, err := f.Repositories(context.Background(), "octo")
		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "a", repos[0].Name)
		assert.Equal(t, 5, repos[0].Stars)
		assert.Equal(t, "Go", repos[0].Language)
		assert.Empty(t, repos[1].Language)

		assert.Len(t, pagesServed, 1)
	})

	t.Run("caches_per_username", func(t *testing.T) {
		requests := map[string]int{}
		mux := http.NewServeMux()
		mux.HandleFunc("/users/alice/repos", func(w http.ResponseWriter, r *http.Request) {
			requests["alice"]++
			fmt.Fprint(w, `[{"id":1,"name":"a"}]`)
		})
		mux.HandleFunc("/users/bob/repos", func(w http.ResponseWriter, r *http.Request) {
			requests["bob"]++
			fmt.Fprint(w, `[{"id":2,"name":"b"}]`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.Repositories(context.Background(), "alice")
		require.NoError(t, err)
		_, err = f.Repositories(context.Background(), "bob")
		require.NoError(t, err)

		// Fetching bob must not evict alice
		repos, err := f.Repositories(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "a", repos[0].Name)
		assert.Equal(t, 1, requests["alice"])
		assert.Equal(t, 1, requests["bob"])
	})
}

func TestLanguages(t *testing.T) {
	t.Run("returns_byte_counts", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octo/a/languages", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"Go":100,"HTML":20}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		langMap, err := f.Languages(context.Background(), "octo", "a")
		require.NoError(t, err)
		assert.Equal(t, int64(100), langMap["Go"])
		assert.Equal(t, int64(20), langMap["HTML"])
	})

	t.Run("empty_breakdown_is_success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octo/empty/languages", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		})

		f, _, _ := newTestFetcher(t, mux)

		langMap, err := f.Languages(context.Background(), "octo", "empty")
		require.NoError(t, err)
		assert.Empty(t, langMap)
	})
}

func TestRecentCommitCount(t *testing.T) {
	pushEvent := func(commits int) string {
		shas := ""
		for i := 0; i < commits; i++ {
			if i > 0 {
				shas += ","
			}
			shas += fmt.Sprintf(`{"sha":"c%d"}`, i)
		}
		return fmt.Sprintf(`{"type":"PushEvent","payload":{"commits":[%s]}}`, shas)
	}

	t.Run("sums_push_commits_across_pages", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("page") {
			case "", "1":
				fmt.Fprintf(w, `[%s,{"type":"WatchEvent","payload":{}},%s]`, pushEvent(2), pushEvent(3))
			case "2":
				fmt.Fprintf(w, `[%s]`, pushEvent(1))
			default:
				fmt.Fprint(w, `[]`)
			}
		})

		f, _, _ := newTestFetcher(t, mux)

		commits, err := f.RecentCommitCount(context.Background(), "octo", 3)
		require.NoError(t, err)
		assert.Equal(t, 6, commits)
	})

	t.Run("stops_at_empty_page", func(t *testing.T) {
		pages := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
			pages++
			if pages == 1 {
				fmt.Fprintf(w, `[%s]`, pushEvent(4))
				return
			}
			fmt.Fprint(w, `[]`)
		})

		f, _, _ := newTestFetcher(t, mux)

		commits, err := f.RecentCommitCount(context.Background(), "octo", 3)
		require.NoError(t, err)
		assert.Equal(t, 4, commits)
		assert.Equal(t, 2, pages)
	})

	t.Run("respects_the_page_budget", func(t *testing.T) {
		pages := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
			pages++
			fmt.Fprintf(w, `[%s]`, pushEvent(1))
		})

		f, _, _ := newTestFetcher(t, mux)

		commits, err := f.RecentCommitCount(context.Background(), "octo", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, commits)
		assert.Equal(t, 3, pages)
	})

	t.Run("caches_the_computed_count", func(t *testing.T) {
		pages := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
			pages++
			fmt.Fprint(w, `[]`)
		})

		f, _, _ := newTestFetcher(t, mux)

		_, err := f.RecentCommitCount(context.Background(), "octo", 3)
		require.NoError(t, err)
		_, err = f.RecentCommitCount(context.Background(), "octo", 3)
		require.NoError(t, err)
		assert.Equal(t, 1, pages)
	})
}
