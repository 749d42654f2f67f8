// Package spotify is a small Spotify Web API client authorized by a long-lived refresh token.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/upstream"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"golang.org/x/oauth2"
)

const (
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
	DefaultBaseURL  = "https://api.spotify.com/v1"
)

var errNoContent = errors.New("no content")

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Options struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	BaseURL      string
	Timeout      time.Duration
}

// New builds a client whose transport refreshes access tokens as they expire.
// ctx is used for token requests and should outlive the client.
func New(ctx context.Context, opts Options) *Client {
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	conf := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  opts.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: opts.RefreshToken})

	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = opts.Timeout
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(opts.BaseURL, "/")}
}

type apiImage struct {
	URL string `json:"url"`
}

type apiTrack struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationMs   int    `json:"duration_ms"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Album struct {
		Name   string     `json:"name"`
		Images []apiImage `json:"images"`
	} `json:"album"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

func (t *apiTrack) toDomain() domain.Track {
	track := domain.Track{
		ID:         t.ID,
		Name:       t.Name,
		Album:      t.Album.Name,
		URL:        t.ExternalURLs.Spotify,
		DurationMs: t.DurationMs,
		Artists:    make([]string, 0, len(t.Artists)),
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, a.Name)
	}
	if len(t.Album.Images) > 0 {
		track.AlbumArt = t.Album.Images[0].URL
	}
	return track
}

func (c *Client) CurrentTrack(ctx context.Context) (*domain.NowPlaying, error) {
	var body struct {
		IsPlaying  bool      `json:"is_playing"`
		ProgressMs int       `json:"progress_ms"`
		Item       *apiTrack `json:"item"`
	}
	err := c.get(ctx, "/me/player/currently-playing", nil, &body)
	if errors.Is(err, errNoContent) {
		return &domain.NowPlaying{State: domain.PlaybackIdle, Authorized: true}, nil
	}
	if err != nil {
		return nil, err
	}

	// item is null for ads and some podcast episodes
	if body.Item == nil || !body.IsPlaying {
		np := &domain.NowPlaying{State: domain.PlaybackIdle, Authorized: true}
		if body.Item != nil {
			track := body.Item.toDomain()
			np.Track = &track
		}
		return np, nil
	}

	track := body.Item.toDomain()
	return &domain.NowPlaying{
		State:      domain.PlaybackPlaying,
		Authorized: true,
		IsPlaying:  true,
		Track:      &track,
		ProgressMs: body.ProgressMs,
	}, nil
}

func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]domain.PlayedTrack, error) {
	var body struct {
		Items []struct {
			Track    apiTrack  `json:"track"`
			PlayedAt time.Time `json:"played_at"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/me/player/recently-played", limitQuery(limit), &body); err != nil {
		if errors.Is(err, errNoContent) {
			return []domain.PlayedTrack{}, nil
		}
		return nil, err
	}

	played := make([]domain.PlayedTrack, 0, len(body.Items))
	for _, item := range body.Items {
		played = append(played, domain.PlayedTrack{Track: item.Track.toDomain(), PlayedAt: item.PlayedAt})
	}
	return played, nil
}

func (c *Client) Playlists(ctx context.Context, limit int) ([]domain.Playlist, error) {
	var body struct {
		Items []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
			Images []apiImage `json:"images"`
			Tracks struct {
				Total int `json:"total"`
			} `json:"tracks"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/me/playlists", limitQuery(limit), &body); err != nil {
		if errors.Is(err, errNoContent) {
			return []domain.Playlist{}, nil
		}
		return nil, err
	}

	playlists := make([]domain.Playlist, 0, len(body.Items))
	for _, item := range body.Items {
		p := domain.Playlist{
			ID:     item.ID,
			Name:   item.Name,
			URL:    item.ExternalURLs.Spotify,
			Tracks: item.Tracks.Total,
		}
		if len(item.Images) > 0 {
			p.ImageURL = item.Images[0].URL
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

func limitQuery(limit int) map[string]string {
	if limit <= 0 {
		return nil
	}
	return map[string]string{"limit": strconv.Itoa(limit)}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("spotify: build request: %w", err)
	}
	if len(query) > 0 {
		q := req.URL.Query()
		for k, val := range query {
			q.Set(k, val)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// a rejected refresh token surfaces from the transport, not as a 401
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("spotify: token refresh: %v: %w", retrieveErr.ErrorCode, domain.ErrUnauthorized)
		}
		return fmt.Errorf("spotify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}
	if err := upstream.CheckStatus("spotify", resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("spotify: decode %s: %w", path, err)
	}
	return nil
}

var _ ports.SpotifyClient = (*Client)(nil)
