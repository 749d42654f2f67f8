package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/live"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

// IntegrationConfig wires the upstream clients. A nil client means the
// integration is not configured and reads as unauthorized.
type IntegrationConfig struct {
	Spotify        ports.SpotifyClient
	GitHub         ports.GitHubClient
	Movies         ports.MovieSearcher
	GitHubUsername string
	GitHubRefresh  time.Duration

	// Clock stamps cache writes. Nil means time.Now.
	Clock func() time.Time
}

// IntegrationService serves the banners from caches shared with the pollers.
type IntegrationService struct {
	cfg    IntegrationConfig
	logger *zap.Logger

	nowPlaying *live.Cache[domain.NowPlaying]
	stats      *live.Cache[domain.GitHubStats]

	spotifyPoller *live.SpotifyPoller
	githubPoller  *live.GitHubPoller

	// polling is set while Run is active. Without pollers, reads refetch once the cached value ages out.
	polling       atomic.Bool
	githubRefresh time.Duration
}

func NewIntegrationService(cfg IntegrationConfig, logger *zap.Logger) *IntegrationService {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	s := &IntegrationService{
		cfg:           cfg,
		logger:        logger.Named("integrations"),
		nowPlaying:    live.NewCacheWithClock[domain.NowPlaying](cfg.Clock),
		stats:         live.NewCacheWithClock[domain.GitHubStats](cfg.Clock),
		githubRefresh: cfg.GitHubRefresh,
	}
	if s.githubRefresh <= 0 {
		s.githubRefresh = time.Hour
	}
	if cfg.Spotify != nil {
		s.spotifyPoller = live.NewSpotifyPoller(cfg.Spotify, s.nowPlaying, logger)
	}
	if cfg.GitHub != nil {
		s.githubPoller = live.NewGitHubPoller(cfg.GitHub, cfg.GitHubUsername, cfg.GitHubRefresh, s.stats, logger)
	}
	return s
}

// Run starts the configured pollers and blocks until ctx is cancelled and they have stopped.
func (s *IntegrationService) Run(ctx context.Context) {
	s.polling.Store(true)
	defer s.polling.Store(false)

	var wg sync.WaitGroup
	if s.spotifyPoller != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.spotifyPoller.Run(ctx)
		}()
	}
	if s.githubPoller != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.githubPoller.Run(ctx)
		}()
	}
	s.logger.Info("pollers started",
		zap.Bool("spotify", s.spotifyPoller != nil),
		zap.Bool("github", s.githubPoller != nil))
	wg.Wait()
}

// NowPlaying answers from the cache. Spotify is only reached when nothing has been
// fetched yet, or when no poller runs and the value is older than its poll interval.
func (s *IntegrationService) NowPlaying(ctx context.Context) domain.NowPlaying {
	if s.spotifyPoller == nil {
		return domain.NowPlaying{State: domain.PlaybackUnauthorized}
	}
	if v, ok := s.cachedNowPlaying(); ok {
		return v
	}
	s.spotifyPoller.Poll(ctx)
	v, _, _ := s.nowPlaying.Get()
	return v
}

func (s *IntegrationService) cachedNowPlaying() (domain.NowPlaying, bool) {
	v, _, ok := s.nowPlaying.Get()
	if !ok || v.State == domain.PlaybackLoading {
		return v, false
	}
	if s.polling.Load() {
		return v, true
	}
	maxAge := live.IdleInterval
	if v.IsPlaying {
		maxAge = live.PlayingInterval
	}
	_, fresh := s.nowPlaying.Fresh(maxAge)
	return v, fresh
}

func (s *IntegrationService) RecentlyPlayed(ctx context.Context, limit int) ([]domain.PlayedTrack, error) {
	if s.cfg.Spotify == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.cfg.Spotify.RecentlyPlayed(ctx, clampLimit(limit, 10, 50))
}

func (s *IntegrationService) Playlists(ctx context.Context, limit int) ([]domain.Playlist, error) {
	if s.cfg.Spotify == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.cfg.Spotify.Playlists(ctx, clampLimit(limit, 20, 50))
}

func (s *IntegrationService) GitHubStats(ctx context.Context) (domain.GitHubStats, error) {
	if s.githubPoller == nil {
		return domain.GitHubStats{}, domain.ErrUnauthorized
	}
	cached, _, ok := s.stats.Get()
	if ok && s.polling.Load() {
		return cached, nil
	}
	if v, fresh := s.stats.Fresh(s.githubRefresh); fresh {
		return v, nil
	}
	stats, err := s.githubPoller.Fetch(ctx)
	if err != nil {
		if ok && !errors.Is(err, domain.ErrUnauthorized) {
			s.logger.Warn("github refresh failed, serving cached stats", zap.Error(err))
			return cached, nil
		}
		return domain.GitHubStats{}, err
	}
	s.stats.Set(stats)
	return stats, nil
}

func (s *IntegrationService) SearchMovies(ctx context.Context, query string) ([]domain.MovieSearchResult, error) {
	if s.cfg.Movies == nil {
		return nil, domain.ErrUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "q"}
	}
	return s.cfg.Movies.SearchMovies(ctx, query)
}

func clampLimit(limit, def, maxLimit int) int {
	if limit < 1 {
		return def
	}
	return min(limit, maxLimit)
}
