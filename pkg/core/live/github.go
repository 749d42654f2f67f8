package live

import (
	"context"
	"errors"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GitHubPoller refreshes the contribution calendar and language breakdown.
type GitHubPoller struct {
	client   ports.GitHubClient
	username string
	cache    *Cache[domain.GitHubStats]
	backoff  *Backoff
	interval time.Duration
	logger   *zap.Logger
}

func NewGitHubPoller(client ports.GitHubClient, username string, interval time.Duration, cache *Cache[domain.GitHubStats], logger *zap.Logger) *GitHubPoller {
	if interval <= 0 {
		interval = time.Hour
	}
	return &GitHubPoller{
		client:   client,
		username: username,
		cache:    cache,
		backoff:  NewBackoff(DefaultInitialDelay, DefaultMaxDelay),
		interval: interval,
		logger:   logger.Named("github-poller"),
	}
}

func (p *GitHubPoller) Run(ctx context.Context) {
	run(ctx, p.Poll)
}

// Fetch loads contributions and languages concurrently.
func (p *GitHubPoller) Fetch(ctx context.Context) (domain.GitHubStats, error) {
	var stats domain.GitHubStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cal, err := p.client.Contributions(gctx, p.username)
		if err != nil {
			return err
		}
		stats.Contributions = cal
		return nil
	})
	g.Go(func() error {
		langs, err := p.client.Languages(gctx, p.username)
		if err != nil {
			return err
		}
		stats.Languages = langs
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.GitHubStats{}, err
	}
	return stats, nil
}

func (p *GitHubPoller) Poll(ctx context.Context) time.Duration {
	stats, err := p.Fetch(ctx)
	if err == nil {
		p.backoff.Success()
		p.cache.Set(stats)
		return p.interval
	}
	if ctx.Err() != nil {
		return 0
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		p.logger.Info("github integration not authorized")
		return p.interval
	}

	var retryAfter time.Duration
	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		retryAfter = rl.RetryAfter
	}
	delay := p.backoff.Failure(retryAfter)
	p.logger.Warn("github refresh failed", zap.Error(err), zap.Duration("retry_in", delay))
	return delay
}
