package handler

import (
	"errors"
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

// IntegrationHandler serves the Spotify and GitHub banners and the movie search.
// A missing or revoked integration is a normal answer, not an error.
type IntegrationHandler struct {
	service ports.IntegrationService
	logger  *zap.Logger
}

func NewIntegrationHandler(service ports.IntegrationService, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{service: service, logger: logger}
}

var notAuthorized = map[string]any{"authorized": false}

func (h *IntegrationHandler) CurrentTrack(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.NowPlaying(r.Context()))
}

func (h *IntegrationHandler) RecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.service.RecentlyPlayed(r.Context(), queryInt(r, "limit", 0))
	h.respond(w, err, "tracks", tracks)
}

func (h *IntegrationHandler) Playlists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.service.Playlists(r.Context(), queryInt(r, "limit", 0))
	h.respond(w, err, "playlists", playlists)
}

func (h *IntegrationHandler) Languages(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GitHubStats(r.Context())
	h.respond(w, err, "languages", stats.Languages)
}

func (h *IntegrationHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GitHubStats(r.Context())
	if err != nil {
		h.respond(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authorized": true,
		"total":      stats.Contributions.Total,
		"days":       stats.Contributions.Days,
	})
}

func (h *IntegrationHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.SearchMovies(r.Context(), r.URL.Query().Get("q"))
	h.respond(w, err, "results", movies)
}

func (h *IntegrationHandler) respond(w http.ResponseWriter, err error, key string, v any) {
	if errors.Is(err, domain.ErrUnauthorized) {
		writeJSON(w, http.StatusOK, notAuthorized)
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authorized": true, key: v})
}
