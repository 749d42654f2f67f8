package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-portfolio/pkg/app"
	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"go.uber.org/zap"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15"

type e2eClient struct {
	t      *testing.T
	url    string
	client *http.Client
	token  string
}

func (c *e2eClient) do(method, path string, body any, admin bool) (*http.Response, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.url+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("CF-IPCountry", "TH")
	if admin {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: c.token})
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   "owner@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIntegration(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:    filepath.Join(t.TempDir(), "e2e.db"),
		JWTSecret:      "e2e-secret",
		StorageBaseURL: "https://cdn.example.com/files",
		FrontendURL:    "http://localhost:3000/admin",
	}
	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	server := httptest.NewServer(a.Handler)
	defer server.Close()

	c := &e2eClient{t: t, url: server.URL, client: server.Client(), token: signToken(t, cfg.JWTSecret)}

	// Create a published post and a draft
	resp, body := c.do(http.MethodPost, "/api/v1/collection/posts", map[string]any{
		"title":     "Hello World",
		"slug":      "hello-world",
		"content":   "# Hello\n\nFirst post.",
		"tags":      []string{"go", "blog"},
		"published": true,
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID          string `json:"id"`
		ContentHTML string `json:"contentHtml"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.ContentHTML, "<h1")

	resp, body = c.do(http.MethodPost, "/api/v1/collection/posts", map[string]any{
		"title":     "Draft",
		"slug":      "draft",
		"published": false,
	}, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// Duplicate slug is rejected
	resp, _ = c.do(http.MethodPost, "/api/v1/collection/posts", map[string]any{"title": "Again", "slug": "hello-world"}, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Writes need a session
	resp, _ = c.do(http.MethodPost, "/api/v1/collection/posts", map[string]any{"title": "Anon", "slug": "anon"}, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Public listing hides drafts, the admin listing does not
	var list struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	resp, body = c.do(http.MethodGet, "/api/collection/posts", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Hello World", list.Data[0]["title"])

	resp, body = c.do(http.MethodGet, "/api/v1/collection/posts", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.EqualValues(t, 2, list.Total)

	// Lookup by slug
	resp, body = c.do(http.MethodGet, "/api/collection/posts/hello-world", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), created.ID)

	resp, _ = c.do(http.MethodGet, "/api/collection/posts/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Drafts stay private on the public routes
	resp, _ = c.do(http.MethodGet, "/api/collection/posts/draft", nil, false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/collection/posts?published=false", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.EqualValues(t, 1, list.Total)
	assert.NotContains(t, string(body), `"Draft"`)

	// Partial update keeps the other fields
	resp, body = c.do(http.MethodPut, "/api/v1/collection/posts/"+created.ID, map[string]any{"title": "Hello Again"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"slug":"hello-world"`)

	// Reads above are not page views; the frontend reports each page once
	resp, body = c.do(http.MethodGet, "/api/analytics/summary", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var totals struct {
		TotalViews int64 `json:"totalViews"`
	}
	require.NoError(t, json.Unmarshal(body, &totals))
	assert.Zero(t, totals.TotalViews)

	for _, path := range []string{"/", "/blog/hello-world"} {
		resp, _ = c.do(http.MethodPost, "/api/analytics/events", map[string]any{"path": path}, false)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
	}

	resp, body = c.do(http.MethodGet, "/api/analytics/summary", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &totals))
	assert.EqualValues(t, 2, totals.TotalViews)

	resp, body = c.do(http.MethodGet, "/api/analytics/summary?days=30", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Countries []struct {
			Country string `json:"country"`
			Count   int64  `json:"count"`
		} `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	require.NotEmpty(t, summary.Countries)
	assert.Equal(t, "TH", summary.Countries[0].Country)

	// Unconfigured integrations read as unauthorized
	resp, body = c.do(http.MethodGet, "/api/github/languages", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"authorized":false}`, string(body))

	// Delete
	resp, _ = c.do(http.MethodDelete, "/api/v1/collection/posts/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Export (Dump)
	records, err := a.Repo.Dump(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
