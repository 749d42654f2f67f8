package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

// RecordRepository stores content records by collection. Lookups return nil, nil when nothing matches.
type RecordRepository interface {
	List(ctx context.Context, collection string, opts domain.ListOptions) ([]domain.StoredRecord, error)
	Count(ctx context.Context, collection string, filter map[string]string) (int64, error)
	Get(ctx context.Context, collection, id string) (*domain.StoredRecord, error)
	GetBySlug(ctx context.Context, collection, slug string) (*domain.StoredRecord, error)
	Create(ctx context.Context, rec *domain.StoredRecord) error
	Update(ctx context.Context, rec *domain.StoredRecord) error
	Delete(ctx context.Context, collection, id string) error
	UpdateSortOrder(ctx context.Context, collection, id string, order int) error
	Dump(ctx context.Context) ([]domain.StoredRecord, error) // For migration
}

// AnalyticsRepository stores page-view events and aggregates them.
type AnalyticsRepository interface {
	RecordEvent(ctx context.Context, event *domain.AnalyticsEvent) error
	ListEvents(ctx context.Context, q domain.AnalyticsQuery) ([]domain.AnalyticsEvent, error)
	// Summary may return domain.ErrAggregationUnsupported, callers then aggregate ListEvents themselves.
	Summary(ctx context.Context, q domain.AnalyticsQuery) (*domain.AnalyticsSummary, error)
}

// FileRepository is the index of uploaded files.
type FileRepository interface {
	RegisterFile(ctx context.Context, file *domain.StoredFile) error
	ListFiles(ctx context.Context, prefix string) ([]domain.StoredFile, error)
}

// SpotifyClient returns domain.ErrUnauthorized on 401/404 and *domain.RateLimitError on 429.
type SpotifyClient interface {
	CurrentTrack(ctx context.Context) (*domain.NowPlaying, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]domain.PlayedTrack, error)
	Playlists(ctx context.Context, limit int) ([]domain.Playlist, error)
}

// GitHubClient has the same error contract as SpotifyClient.
type GitHubClient interface {
	Contributions(ctx context.Context, username string) (domain.ContributionCalendar, error)
	Languages(ctx context.Context, username string) ([]domain.LanguageStat, error)
}

type MovieSearcher interface {
	SearchMovies(ctx context.Context, query string) ([]domain.MovieSearchResult, error)
}

// AnalyticsService never fails a read: errors collapse into an empty summary.
type AnalyticsService interface {
	RecordEvent(ctx context.Context, path, country, referrer, userAgent string) error
	Summary(ctx context.Context, q domain.AnalyticsQuery) *domain.AnalyticsSummary
}

// ContentService defines the record operations behind /api/collection.
type ContentService interface {
	ListPublic(ctx context.Context, collection string, opts domain.ListOptions) ([]any, int64)
	List(ctx context.Context, collection string, opts domain.ListOptions) ([]any, int64, error)
	Get(ctx context.Context, collection, idOrSlug string) (any, error)
	GetPublic(ctx context.Context, collection, idOrSlug string) (any, error)
	Create(ctx context.Context, collection string, data domain.Record) (any, error)
	Update(ctx context.Context, collection, id string, data domain.Record) (any, error)
	Delete(ctx context.Context, collection, id string) error
	ReorderSections(ctx context.Context, ids []string) error
	CommentThread(ctx context.Context, postID string) []*domain.Comment
}

// IntegrationService serves the banner endpoints from the shared caches.
type IntegrationService interface {
	NowPlaying(ctx context.Context) domain.NowPlaying
	RecentlyPlayed(ctx context.Context, limit int) ([]domain.PlayedTrack, error)
	Playlists(ctx context.Context, limit int) ([]domain.Playlist, error)
	GitHubStats(ctx context.Context) (domain.GitHubStats, error)
	SearchMovies(ctx context.Context, query string) ([]domain.MovieSearchResult, error)
}

type StorageService interface {
	Browse(ctx context.Context, prefix string) ([]domain.BrowseEntry, error)
	Register(ctx context.Context, file domain.StoredFile) (*domain.StoredFile, error)
}
