package summarizer

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/kurihiro0119/github-profile-summarizer/internal/aggregator"
	"github.com/kurihiro0119/github-profile-summarizer/internal/domain"
	"github.com/kurihiro0119/github-profile-summarizer/internal/fetcher"
)

// topReposForDisplay bounds the star-ranked repository list in the summary
const topReposForDisplay = 20

// Options configures a summarization service
type Options struct {
	// MaxReposForLanguageSampling bounds the per-repository language
	// fan-out. Zero means the default of 50.
	MaxReposForLanguageSampling int

	// EventPages bounds the activity-log walk. Zero means the default of 3.
	EventPages int
}

// Service orchestrates the summarization workflow: profile, repositories,
// sequential per-repository language sampling, then recent activity. Profile
// and repository failures abort the workflow; language and activity failures
// are recovered locally so a usable partial result survives them.
type Service struct {
	fetcher    fetcher.Fetcher
	maxRepos   int
	eventPages int
	logger     zerolog.Logger
	generation atomic.Uint64
}

// New creates a summarization service
func New(f fetcher.Fetcher, opts Options, logger zerolog.Logger) *Service {
	maxRepos := opts.MaxReposForLanguageSampling
	if maxRepos <= 0 {
		maxRepos = 50
	}
	eventPages := opts.EventPages
	if eventPages <= 0 {
		eventPages = 3
	}

	return &Service{
		fetcher:    f,
		maxRepos:   maxRepos,
		eventPages: eventPages,
		logger:     logger,
	}
}

// CurrentGeneration returns the generation of the most recent request.
// Callers compare it against Summary.Generation to discard results from a
// superseded request.
func (s *Service) CurrentGeneration() uint64 {
	return s.generation.Load()
}

// Summarize runs the full workflow for one username. Calls are issued one at
// a time, in order, to stay within the API's rate-limit expectations. On
// failure no partial data is returned: the error is the sole result.
func (s *Service) Summarize(ctx context.Context, username string) (*domain.Summary, error) {
	generation := s.generation.Add(1)
	log := s.logger.With().Str("user", username).Uint64("generation", generation).Logger()

	profile, err := s.fetcher.Profile(ctx, username)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg("profile fetched")

	repos, err := s.fetcher.Repositories(ctx, username)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("repos", len(repos)).Msg("repositories fetched")

	// Sample languages over the most recently updated repositories, which
	// is the order the listing endpoint returns. The star-ranked display
	// list is computed separately below.
	sample := repos
	if len(sample) > s.maxRepos {
		sample = sample[:s.maxRepos]
	}

	languageMaps := make([]domain.LanguageMap, 0, len(sample))
	for _, repo := range sample {
		langMap, err := s.fetcher.Languages(ctx, username, repo.Name)
		if err != nil {
			// One unreachable repository must not abort the whole
			// summarization; its bytes are simply absent.
			log.Warn().Err(err).Str("repo", repo.Name).Msg("skipping language fetch")
			continue
		}
		languageMaps = append(languageMaps, langMap)
	}

	commits, err := s.fetcher.RecentCommitCount(ctx, username, s.eventPages)
	if err != nil {
		// Profile, repository and language data are still useful;
		// fall back to zero instead of failing the workflow.
		log.Warn().Err(err).Msg("activity fetch failed, defaulting commit count to zero")
		commits = 0
	}

	languages := aggregator.AggregateLanguages(languageMaps)
	topRepos := aggregator.TopByStars(repos, topReposForDisplay)

	return &domain.Summary{
		Profile:         profile,
		TopRepos:        topRepos,
		Languages:       languages,
		Totals:          aggregator.RepositoryTotals(topRepos),
		PrimaryLanguage: aggregator.PrimaryLanguage(languages),
		LanguageCount:   aggregator.LanguageCardinality(languages),
		RecentCommits:   commits,
		Generation:      generation,
	}, nil
}
