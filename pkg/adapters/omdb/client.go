// Package omdb searches the OMDb movie database for the movie collection editor.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/upstream"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
)

const DefaultBaseURL = "https://www.omdbapi.com/"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type searchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDBID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (c *Client) SearchMovies(ctx context.Context, query string) ([]domain.MovieSearchResult, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("s", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("omdb: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb: %w", err)
	}
	defer resp.Body.Close()

	if err := upstream.CheckStatus("omdb", resp); err != nil {
		return nil, err
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("omdb: decode response: %w", err)
	}

	results := make([]domain.MovieSearchResult, 0, len(body.Search))
	if body.Response == "False" {
		switch {
		case strings.Contains(body.Error, "not found"):
			return results, nil
		case strings.Contains(strings.ToLower(body.Error), "api key"):
			return nil, fmt.Errorf("omdb: %s: %w", body.Error, domain.ErrUnauthorized)
		default:
			return nil, fmt.Errorf("omdb: %s", body.Error)
		}
	}

	for _, m := range body.Search {
		poster := m.Poster
		if poster == "N/A" {
			poster = ""
		}
		results = append(results, domain.MovieSearchResult{
			IMDBID:    m.IMDBID,
			Title:     m.Title,
			Year:      m.Year,
			Type:      m.Type,
			PosterURL: poster,
		})
	}
	return results, nil
}

var _ ports.MovieSearcher = (*Client)(nil)
