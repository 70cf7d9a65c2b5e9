package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/github-profile-summarizer/internal/cache"
	"github.com/kurihiro0119/github-profile-summarizer/internal/config"
	"github.com/kurihiro0119/github-profile-summarizer/internal/domain"
	"github.com/kurihiro0119/github-profile-summarizer/internal/fetcher"
	"github.com/kurihiro0119/github-profile-summarizer/internal/summarizer"
)

var (
	outputJSON bool
	maxRepos   int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "github-summary [username]",
	Short: "Summarize a GitHub user's public profile",
	Long: `A CLI tool that summarizes a GitHub account: profile, repositories,
language distribution, and approximate recent commit activity.

Set GITHUB_TOKEN to raise the API rate limits. Without a token the
anonymous limits apply and large accounts may exhaust them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.Flags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.Flags().IntVar(&maxRepos, "max-repos", 0, "max repositories to sample for languages (default from MAX_REPOS)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log workflow progress")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSummarize(cmd *cobra.Command, args []string) error {
	username := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if maxRepos > 0 {
		cfg.MaxReposForLanguageSampling = maxRepos
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := zerolog.ErrorLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	store := cache.New()
	svc := summarizer.New(
		fetcher.NewGitHubFetcher(cfg.GitHubToken, store, logger),
		summarizer.Options{
			MaxReposForLanguageSampling: cfg.MaxReposForLanguageSampling,
			EventPages:                  cfg.EventPages,
		},
		logger,
	)

	summary, err := svc.Summarize(context.Background(), username)
	if err != nil {
		return err
	}

	if outputJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	renderSummary(summary)
	return nil
}

func renderSummary(summary *domain.Summary) {
	profile := summary.Profile

	fmt.Printf("\n%s", profile.Login)
	if profile.Name != "" {
		fmt.Printf(" (%s)", profile.Name)
	}
	fmt.Println()
	if profile.Bio != "" {
		fmt.Println(profile.Bio)
	}
	fmt.Println(profile.HTMLURL)
	fmt.Println()

	stats := tablewriter.NewWriter(os.Stdout)
	stats.SetHeader([]string{"Stat", "Value"})
	stats.Append([]string{"Public Repos", fmt.Sprintf("%d", profile.PublicRepos)})
	stats.Append([]string{"Followers", fmt.Sprintf("%d", profile.Followers)})
	stats.Append([]string{"Following", fmt.Sprintf("%d", profile.Following)})
	stats.Append([]string{"Primary Language", summary.PrimaryLanguage})
	stats.Append([]string{"Languages", fmt.Sprintf("%d", summary.LanguageCount)})
	stats.Append([]string{"Total Stars", fmt.Sprintf("%d", summary.Totals.TotalStars)})
	stats.Append([]string{"Total Forks", fmt.Sprintf("%d", summary.Totals.TotalForks)})
	stats.Append([]string{"Recent Commits", fmt.Sprintf("%d", summary.RecentCommits)})
	stats.Render()

	if len(summary.Languages) > 0 {
		fmt.Println("\nLanguages")
		langs := tablewriter.NewWriter(os.Stdout)
		langs.SetHeader([]string{"Language", "Bytes"})
		for _, lang := range summary.Languages {
			langs.Append([]string{lang.Name, fmt.Sprintf("%d", lang.Bytes)})
		}
		langs.Render()
	}

	if len(summary.TopRepos) > 0 {
		fmt.Println("\nTop Repositories")
		repos := tablewriter.NewWriter(os.Stdout)
		repos.SetHeader([]string{"Name", "Stars", "Forks", "Language", "Updated"})
		for _, repo := range summary.TopRepos {
			repos.Append([]string{
				repo.Name,
				fmt.Sprintf("%d", repo.Stars),
				fmt.Sprintf("%d", repo.Forks),
				repo.Language,
				repo.UpdatedAt.Format("2006-01-02"),
			})
		}
		repos.Render()
	}
}
