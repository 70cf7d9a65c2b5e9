package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/kurihiro0119/github-profile-summarizer/internal/api"
	"github.com/kurihiro0119/github-profile-summarizer/internal/cache"
	"github.com/kurihiro0119/github-profile-summarizer/internal/config"
	"github.com/kurihiro0119/github-profile-summarizer/internal/fetcher"
	"github.com/kurihiro0119/github-profile-summarizer/internal/summarizer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// The cache lives for the whole process: repeated lookups of the same
	// user never hit the GitHub API twice.
	store := cache.New()
	ghFetcher := fetcher.NewGitHubFetcher(cfg.GitHubToken, store, logger)

	svc := summarizer.New(ghFetcher, summarizer.Options{
		MaxReposForLanguageSampling: cfg.MaxReposForLanguageSampling,
		EventPages:                  cfg.EventPages,
	}, logger)

	// Initialize handler
	handler := api.NewHandler(svc)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	if cfg.GitHubToken == "" {
		fmt.Println("No GITHUB_TOKEN configured, using anonymous rate limits")
	}

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
