package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

const trackJSON = `{
	"id": "t1",
	"name": "Windowlicker",
	"duration_ms": 367000,
	"external_urls": {"spotify": "https://open.spotify.com/track/t1"},
	"album": {"name": "Windowlicker", "images": [{"url": "https://i.scdn.co/large.jpg"}, {"url": "https://i.scdn.co/small.jpg"}]},
	"artists": [{"name": "Aphex Twin"}]
}`

// newTestServer serves the token endpoint and the API under /v1. api handles API paths.
func newTestServer(t *testing.T, api http.HandlerFunc) (*Client, *atomic.Int32, string) {
	t.Helper()
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("refresh_token") != "refresh-me" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
			return
		}
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access-1","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		api(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(context.Background(), Options{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "refresh-me",
		TokenURL:     srv.URL + "/token",
		BaseURL:      srv.URL + "/v1",
	})
	return c, &tokenCalls, srv.URL
}

func TestCurrentTrack_Playing(t *testing.T) {
	c, tokenCalls, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/me/player/currently-playing", r.URL.Path)
		fmt.Fprintf(w, `{"is_playing": true, "progress_ms": 1200, "item": %s}`, trackJSON)
	})

	np, err := c.CurrentTrack(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PlaybackPlaying, np.State)
	assert.True(t, np.Authorized)
	assert.Equal(t, 1200, np.ProgressMs)
	require.NotNil(t, np.Track)
	assert.Equal(t, []string{"Aphex Twin"}, np.Track.Artists)
	assert.Equal(t, "https://i.scdn.co/large.jpg", np.Track.AlbumArt)

	_, err = c.CurrentTrack(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, tokenCalls.Load(), "access token is reused until it expires")
}

func TestCurrentTrack_NothingPlaying(t *testing.T) {
	c, _, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	np, err := c.CurrentTrack(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PlaybackIdle, np.State)
	assert.False(t, np.IsPlaying)
	assert.Nil(t, np.Track)
}

func TestCurrentTrack_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", http.StatusUnauthorized, nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		}},
		{"no player", http.StatusNotFound, nil, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		}},
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "12"}, func(t *testing.T, err error) {
			var rl *domain.RateLimitError
			require.True(t, errors.As(err, &rl))
			assert.Equal(t, 12*time.Second, rl.RetryAfter)
		}},
		{"server error", http.StatusInternalServerError, nil, func(t *testing.T, err error) {
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrUnauthorized)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			})
			_, err := c.CurrentTrack(context.Background())
			tt.check(t, err)
		})
	}
}

func TestRevokedRefreshTokenIsUnauthorized(t *testing.T) {
	_, _, srvURL := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API must not be called without a token")
	})
	c := New(context.Background(), Options{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "revoked",
		TokenURL:     srvURL + "/token",
		BaseURL:      srvURL + "/v1",
	})

	_, err := c.CurrentTrack(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRecentlyPlayedAndPlaylists(t *testing.T) {
	c, _, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/me/player/recently-played":
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			fmt.Fprintf(w, `{"items": [{"track": %s, "played_at": "2026-03-01T10:00:00Z"}]}`, trackJSON)
		case "/v1/me/playlists":
			fmt.Fprint(w, `{"items": [{"id": "pl", "name": "Focus", "external_urls": {"spotify": "https://open.spotify.com/playlist/pl"}, "images": [], "tracks": {"total": 42}}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	played, err := c.RecentlyPlayed(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, played, 1)
	assert.Equal(t, "Windowlicker", played[0].Track.Name)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), played[0].PlayedAt)

	playlists, err := c.Playlists(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, 42, playlists[0].Tracks)
	assert.Empty(t, playlists[0].ImageURL)
}
