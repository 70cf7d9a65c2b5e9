package domain

import "time"

// Repository represents a GitHub repository
type Repository struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	HTMLURL   string    `json:"html_url"`
	Stars     int       `json:"stars"`
	Forks     int       `json:"forks"`
	Language  string    `json:"language,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RepoTotals holds the summed star/fork counts over a repository list
type RepoTotals struct {
	TotalStars int `json:"total_stars"`
	TotalForks int `json:"total_forks"`
	RepoCount  int `json:"repo_count"`
}
