package live

import (
	"context"
	"errors"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

const (
	PlayingInterval = 10 * time.Second
	IdleInterval    = 30 * time.Second
)

// SpotifyPoller keeps the now-playing cache current. It polls faster while a
// track is playing and backs off on rate limits and network errors.
type SpotifyPoller struct {
	client  ports.SpotifyClient
	cache   *Cache[domain.NowPlaying]
	backoff *Backoff
	logger  *zap.Logger

	playing time.Duration
	idle    time.Duration
}

func NewSpotifyPoller(client ports.SpotifyClient, cache *Cache[domain.NowPlaying], logger *zap.Logger) *SpotifyPoller {
	return &SpotifyPoller{
		client:  client,
		cache:   cache,
		backoff: NewBackoff(DefaultInitialDelay, DefaultMaxDelay),
		logger:  logger.Named("spotify-poller"),
		playing: PlayingInterval,
		idle:    IdleInterval,
	}
}

// Run polls until ctx is cancelled.
func (p *SpotifyPoller) Run(ctx context.Context) {
	if _, _, ok := p.cache.Get(); !ok {
		p.cache.Set(domain.NowPlaying{State: domain.PlaybackLoading})
	}
	run(ctx, p.Poll)
}

// Poll performs one fetch, updates the cache and returns the delay before the next one.
func (p *SpotifyPoller) Poll(ctx context.Context) time.Duration {
	np, err := p.client.CurrentTrack(ctx)
	if err == nil {
		p.backoff.Success()
		p.cache.Set(*np)
		if np.IsPlaying {
			return p.playing
		}
		return p.idle
	}
	if ctx.Err() != nil {
		return 0
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		p.backoff.Success()
		p.cache.Set(domain.NowPlaying{State: domain.PlaybackUnauthorized})
		return p.idle
	}

	var retryAfter time.Duration
	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		retryAfter = rl.RetryAfter
	}
	delay := p.backoff.Failure(retryAfter)
	p.logger.Warn("now playing fetch failed",
		zap.Error(err),
		zap.Duration("retry_in", delay),
		zap.Int("failures", p.backoff.Failures()))

	// keep showing the last good value, only surface the error when there is none
	if prev, _, ok := p.cache.Get(); !ok || prev.State == domain.PlaybackLoading {
		p.cache.Set(domain.NowPlaying{State: domain.PlaybackError, Authorized: true})
	}
	return delay
}
