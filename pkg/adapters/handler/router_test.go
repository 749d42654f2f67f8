package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/mapper"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/services"
	"go.uber.org/zap"
)

const testSecret = "router-secret"

type fakeContent struct {
	listOpts  domain.ListOptions
	created   domain.Record
	reordered []string
	err       error
}

func (f *fakeContent) ListPublic(ctx context.Context, collection string, opts domain.ListOptions) ([]any, int64) {
	f.listOpts = opts
	if collection != domain.CollectionPosts {
		return []any{}, 0
	}
	return []any{domain.Post{ID: "p1", Title: "Hello"}}, 1
}

func (f *fakeContent) List(ctx context.Context, collection string, opts domain.ListOptions) ([]any, int64, error) {
	if !domain.IsKnownCollection(collection) {
		return nil, 0, fmt.Errorf("list %s: %w", collection, domain.ErrUnknownCollection)
	}
	return []any{}, 0, f.err
}

func (f *fakeContent) Get(ctx context.Context, collection, idOrSlug string) (any, error) {
	if idOrSlug != "hello" {
		return nil, fmt.Errorf("get %s/%s: %w", collection, idOrSlug, domain.ErrNotFound)
	}
	return domain.Post{ID: "p1", Title: "Hello", Slug: "hello"}, nil
}

func (f *fakeContent) GetPublic(ctx context.Context, collection, idOrSlug string) (any, error) {
	return f.Get(ctx, collection, idOrSlug)
}

func (f *fakeContent) Create(ctx context.Context, collection string, data domain.Record) (any, error) {
	if data["title"] == nil {
		return nil, &domain.ValidationError{Field: "title"}
	}
	f.created = data
	return data, nil
}

func (f *fakeContent) Update(ctx context.Context, collection, id string, data domain.Record) (any, error) {
	return data, f.err
}

func (f *fakeContent) Delete(ctx context.Context, collection, id string) error {
	return f.err
}

func (f *fakeContent) ReorderSections(ctx context.Context, ids []string) error {
	f.reordered = ids
	return f.err
}

func (f *fakeContent) CommentThread(ctx context.Context, postID string) []*domain.Comment {
	return []*domain.Comment{}
}

type fakeIntegrations struct {
	authorized bool
	rateLimit  bool
}

func (f *fakeIntegrations) NowPlaying(ctx context.Context) domain.NowPlaying {
	if !f.authorized {
		return domain.NowPlaying{State: domain.PlaybackUnauthorized}
	}
	return domain.NowPlaying{State: domain.PlaybackPlaying, Authorized: true, IsPlaying: true, Track: &domain.Track{Name: "Song"}}
}

func (f *fakeIntegrations) RecentlyPlayed(ctx context.Context, limit int) ([]domain.PlayedTrack, error) {
	if !f.authorized {
		return nil, domain.ErrUnauthorized
	}
	return []domain.PlayedTrack{{Track: domain.Track{Name: "Song"}}}, nil
}

func (f *fakeIntegrations) Playlists(ctx context.Context, limit int) ([]domain.Playlist, error) {
	if f.rateLimit {
		return nil, &domain.RateLimitError{RetryAfter: 30 * time.Second}
	}
	return []domain.Playlist{}, nil
}

func (f *fakeIntegrations) GitHubStats(ctx context.Context) (domain.GitHubStats, error) {
	if !f.authorized {
		return domain.GitHubStats{}, domain.ErrUnauthorized
	}
	return domain.GitHubStats{
		Contributions: domain.ContributionCalendar{Total: 3, Days: []domain.ContributionDay{{Date: "2026-01-01", Count: 3, Intensity: 2}}},
		Languages:     []domain.LanguageStat{{Name: "Go", Bytes: 100, Percentage: 100}},
	}, nil
}

func (f *fakeIntegrations) SearchMovies(ctx context.Context, query string) ([]domain.MovieSearchResult, error) {
	if query == "" {
		return nil, &domain.ValidationError{Field: "q"}
	}
	return []domain.MovieSearchResult{{Title: "Alien", Year: "1979"}}, nil
}

type fakeStorage struct{}

func (fakeStorage) Browse(ctx context.Context, prefix string) ([]domain.BrowseEntry, error) {
	return []domain.BrowseEntry{{Name: "posts", Path: "posts/", IsDir: true}}, nil
}

func (fakeStorage) Register(ctx context.Context, file domain.StoredFile) (*domain.StoredFile, error) {
	return &file, nil
}

type routerFixture struct {
	handler   http.Handler
	content   *fakeContent
	analytics *recordingAnalytics
}

func newRouterFixture(t *testing.T, integrations *fakeIntegrations) *routerFixture {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, FrontendURL: "http://localhost:3000/admin"}
	f := &routerFixture{content: &fakeContent{}, analytics: &recordingAnalytics{}}
	f.handler = NewRouter(cfg, Services{
		Content:      f.content,
		Analytics:    f.analytics,
		Integrations: integrations,
		Storage:      fakeStorage{},
	}, mapper.New("https://cdn.example.com/files"), zap.NewNop())
	return f
}

func (f *routerFixture) do(t *testing.T, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if admin {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: generateTestToken(t, testSecret, time.Now().Add(time.Minute))})
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestRouter_PublicCollection(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	rr := f.do(t, http.MethodGet, "/api/collection/posts?page=2&limit=10&tag=go&sort=-created", "", false)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 10, body["limit"])
	assert.Len(t, body["data"], 1)
	assert.Equal(t, domain.ListOptions{Filter: map[string]string{"tag": "go"}, Sort: "-created", Limit: 10, Offset: 10}, f.content.listOpts)

	rr = f.do(t, http.MethodGet, "/api/collection/posts/hello", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/collection/posts/missing", "", false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/collection/posts/p1/comments", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestRouter_AdminRequiresAuth(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	rr := f.do(t, http.MethodPost, "/api/v1/collection/posts", `{"title":"x"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, f.content.created)

	rr = f.do(t, http.MethodGet, "/api/v1/me", "", true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test@example.com", decodeBody(t, rr)["email"])
}

func TestRouter_AdminErrors(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"created", http.MethodPost, "/api/v1/collection/posts", `{"title":"Hello","slug":"hello"}`, http.StatusCreated},
		{"validation", http.MethodPost, "/api/v1/collection/posts", `{"slug":"hello"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/collection/posts", `{`, http.StatusBadRequest},
		{"unknown collection", http.MethodGet, "/api/v1/collection/widgets", "", http.StatusNotFound},
		{"deleted", http.MethodDelete, "/api/v1/collection/posts/p1", "", http.StatusNoContent},
		{"reorder", http.MethodPut, "/api/v1/sections/order", `{"ids":["b","a"]}`, http.StatusNoContent},
		{"movie search needs a query", http.MethodGet, "/api/v1/movies/search", "", http.StatusBadRequest},
		{"movie search", http.MethodGet, "/api/v1/movies/search?q=alien", "", http.StatusOK},
		{"register file", http.MethodPost, "/api/v1/storage/files", `{"path":"posts/p1/a.png","size":3}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.method, tt.path, tt.body, true)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
	assert.Equal(t, []string{"b", "a"}, f.content.reordered)
}

func TestRouter_StoreFailureIs500(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})
	f.content.err = fmt.Errorf("disk on fire")

	rr := f.do(t, http.MethodDelete, "/api/v1/collection/posts/p1", "", true)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk on fire")
}

func TestRouter_UnauthorizedIntegrations(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	for _, path := range []string{
		"/api/spotify/recently-played",
		"/api/github/languages",
		"/api/github/contributions",
	} {
		rr := f.do(t, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{"authorized":false}`, rr.Body.String(), path)
	}

	rr := f.do(t, http.MethodGet, "/api/spotify/current-track", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "unauthorized", decodeBody(t, rr)["state"])
}

func TestRouter_AuthorizedIntegrations(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{authorized: true, rateLimit: true})

	rr := f.do(t, http.MethodGet, "/api/github/contributions", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["authorized"])
	assert.EqualValues(t, 3, body["total"])

	rr = f.do(t, http.MethodGet, "/api/spotify/recently-played", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["tracks"], 1)

	rr = f.do(t, http.MethodGet, "/api/spotify/playlists", "", false)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "30", rr.Header().Get("Retry-After"))
}

func TestRouter_Analytics(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})
	f.analytics.summary = &domain.AnalyticsSummary{TotalViews: 7}

	rr := f.do(t, http.MethodGet, "/api/analytics/summary?days=7", "", false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 7, decodeBody(t, rr)["totalViews"])
	assert.False(t, f.analytics.lastQ.Since.IsZero())

	rr = f.do(t, http.MethodPost, "/api/analytics/events", `{"path":"/about","referrer":"https://google.com/"}`, false)
	assert.Equal(t, http.StatusAccepted, rr.Code)

	events := f.analytics.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "/about", events[0].Path)
}

func TestRouter_OnePageViewPerPage(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	// the home page loads several collections and reports itself once
	for _, name := range []string{"posts", "projects", "sections", "customization_settings"} {
		rr := f.do(t, http.MethodGet, "/api/collection/"+name, "", false)
		require.Equal(t, http.StatusOK, rr.Code, name)
	}
	rr := f.do(t, http.MethodGet, "/api/collection/posts/hello", "", false)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/analytics/events", `{"path":"/"}`, false)
	require.Equal(t, http.StatusAccepted, rr.Code)

	events := f.analytics.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "/", events[0].Path)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/events", strings.NewReader(`{"path":"/about"}`))
	req.Header.Set("DNT", "1")
	rr = httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Len(t, f.analytics.recorded(), 1)
}

func TestRouter_DraftsStayPrivate(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.NewSQLiteRepository(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	m := mapper.New("https://cdn.example.com/files")
	content := services.NewContentService(repo, m, zap.NewNop())
	_, err = content.Create(ctx, domain.CollectionPosts, domain.Record{"title": "Live", "slug": "live", "published": true})
	require.NoError(t, err)
	draft, err := content.Create(ctx, domain.CollectionPosts, domain.Record{"title": "Secret", "slug": "secret-draft", "published": false})
	require.NoError(t, err)
	draftID := draft.(domain.Post).ID

	cfg := &config.Config{JWTSecret: testSecret}
	f := &routerFixture{analytics: &recordingAnalytics{}}
	f.handler = NewRouter(cfg, Services{
		Content:      content,
		Analytics:    f.analytics,
		Integrations: &fakeIntegrations{},
		Storage:      fakeStorage{},
	}, m, zap.NewNop())

	for _, path := range []string{"/api/collection/posts/secret-draft", "/api/collection/posts/" + draftID} {
		rr := f.do(t, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.NotContains(t, rr.Body.String(), "Secret", path)
	}

	for _, query := range []string{"", "?published=false", "?published=true"} {
		rr := f.do(t, http.MethodGet, "/api/collection/posts"+query, "", false)
		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.EqualValues(t, 1, body["total"], query)
		assert.NotContains(t, rr.Body.String(), "Secret", query)
	}

	rr := f.do(t, http.MethodGet, "/api/collection/posts/live", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)

	// the admin API still sees the draft
	rr = f.do(t, http.MethodGet, "/api/v1/collection/posts/secret-draft", "", true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Secret", decodeBody(t, rr)["title"])
}

func TestRouter_Editor(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	rr := f.do(t, http.MethodPost, "/api/v1/editor/apply", `{"text":"hello world","selectionStart":6,"selectionEnd":11,"action":"bold"}`, true)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "hello **world**", body["text"])
	assert.EqualValues(t, 13, body["selectionStart"])
	assert.Equal(t, true, body["active"].(map[string]any)["bold"])

	rr = f.do(t, http.MethodPost, "/api/v1/editor/apply", `{"text":"x","action":"blink"}`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/v1/editor/preview", `{"text":"# Title\n\nbody"}`, true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["html"], "<h1")

	rr = f.do(t, http.MethodGet, "/api/editor/highlight.css", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/css; charset=utf-8", rr.Header().Get("Content-Type"))
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t, &fakeIntegrations{})

	rr := f.do(t, http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rr.Body.String())
}
