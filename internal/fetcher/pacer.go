package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/google/go-github/v55/github"
	"github.com/rs/zerolog"
)

const lowRemainingThreshold = 10

// Pacer spaces out GitHub API calls and tracks the remaining rate-limit
// quota reported by responses. It never blocks until quota reset: an
// exhausted quota surfaces as a rate-limited error on the next call, which
// is terminal for that request.
type Pacer struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	minDelay  time.Duration
	lastCall  time.Time
	logger    zerolog.Logger
}

// NewPacer creates a new pacer
func NewPacer(logger zerolog.Logger) *Pacer {
	return &Pacer{
		remaining: 5000, // GitHub API default limit
		resetTime: time.Now().Add(time.Hour),
		minDelay:  100 * time.Millisecond, // Minimum delay between requests
		logger:    logger,
	}
}

// Wait enforces the minimum spacing between two consecutive API calls
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	wait := p.minDelay - time.Since(p.lastCall)
	if wait < 0 {
		wait = 0
	}
	p.lastCall = time.Now().Add(wait)
	p.mu.Unlock()

	if wait == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// UpdateFromResponse records the rate-limit state from an API response
func (p *Pacer) UpdateFromResponse(resp *github.Response) {
	if resp == nil || resp.Rate.Remaining < 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.remaining = resp.Rate.Remaining
	p.resetTime = resp.Rate.Reset.Time

	if p.remaining <= lowRemainingThreshold {
		p.logger.Warn().
			Int("remaining", p.remaining).
			Time("reset", p.resetTime).
			Msg("GitHub rate limit quota nearly exhausted")
	}
}

// Remaining returns the last-reported remaining quota and its reset time
func (p *Pacer) Remaining() (int, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining, p.resetTime
}
