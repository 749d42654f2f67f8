package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/mapper"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

// Services groups the application services the router dispatches to.
type Services struct {
	Content      ports.ContentService
	Analytics    ports.AnalyticsService
	Integrations ports.IntegrationService
	Storage      ports.StorageService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, m *mapper.Mapper, logger *zap.Logger) http.Handler {
	ch := NewCollectionHandler(svc.Content, logger)
	ah := NewAnalyticsHandler(svc.Analytics, logger)
	ih := NewIntegrationHandler(svc.Integrations, logger)
	sh := NewStorageHandler(svc.Storage, logger)
	eh := NewEditorHandler(m, logger)
	authHandler := NewAuthHandler(cfg, logger)

	mw := NewMiddleware(cfg, logger)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /api/collection/{name}", ch.List)
	mux.HandleFunc("GET /api/collection/{name}/{id}", ch.GetPublic)
	mux.HandleFunc("GET /api/collection/posts/{id}/comments", ch.Comments)

	mux.HandleFunc("GET /api/analytics/summary", ah.Summary)
	mux.HandleFunc("POST /api/analytics/events", ah.Record)

	mux.HandleFunc("GET /api/spotify/current-track", ih.CurrentTrack)
	mux.HandleFunc("GET /api/spotify/recently-played", ih.RecentlyPlayed)
	mux.HandleFunc("GET /api/spotify/playlists", ih.Playlists)
	mux.HandleFunc("GET /api/github/languages", ih.Languages)
	mux.HandleFunc("GET /api/github/contributions", ih.Contributions)

	mux.HandleFunc("GET /api/storage/browse", sh.Browse)
	mux.HandleFunc("GET /api/editor/highlight.css", eh.Stylesheet)

	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (admin API)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/me", authHandler.Me)

	protectedMux.HandleFunc("GET /api/v1/collection/{name}", ch.AdminList)
	protectedMux.HandleFunc("GET /api/v1/collection/{name}/{id}", ch.Get)
	protectedMux.HandleFunc("POST /api/v1/collection/{name}", ch.Create)
	protectedMux.HandleFunc("PUT /api/v1/collection/{name}/{id}", ch.Update)
	protectedMux.HandleFunc("DELETE /api/v1/collection/{name}/{id}", ch.Delete)
	protectedMux.HandleFunc("PUT /api/v1/sections/order", ch.ReorderSections)

	protectedMux.HandleFunc("POST /api/v1/storage/files", sh.Register)
	protectedMux.HandleFunc("GET /api/v1/movies/search", ih.SearchMovies)

	protectedMux.HandleFunc("POST /api/v1/editor/context", eh.Context)
	protectedMux.HandleFunc("POST /api/v1/editor/apply", eh.Apply)
	protectedMux.HandleFunc("POST /api/v1/editor/preview", eh.Preview)

	// protectedMux holds the full paths, so the prefix match dispatches straight through.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mw.Logging(mw.CORS(mux))
}
