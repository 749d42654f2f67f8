// Package app wires the repository, upstream clients, services and router
// shared by the server, the serverless entrypoint and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/github"
	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/omdb"
	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/spotify"
	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/mapper"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/services"
	"go.uber.org/zap"
)

type App struct {
	Repo         *sqlite.SQLiteRepository
	Mapper       *mapper.Mapper
	Content      *services.ContentService
	Analytics    *services.AnalyticsService
	Integrations *services.IntegrationService
	Storage      *services.StorageService
	Handler      http.Handler
}

// New opens the database and builds every service. ctx bounds the upstream
// token sources and should live as long as the App.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	m := mapper.New(cfg.StorageBaseURL)
	a := &App{
		Repo:         repo,
		Mapper:       m,
		Content:      services.NewContentService(repo, m, logger),
		Analytics:    services.NewAnalyticsService(repo, logger),
		Integrations: services.NewIntegrationService(integrationConfig(ctx, cfg), logger),
		Storage:      services.NewStorageService(repo, m),
	}
	a.Handler = handler.NewRouter(cfg, handler.Services{
		Content:      a.Content,
		Analytics:    a.Analytics,
		Integrations: a.Integrations,
		Storage:      a.Storage,
	}, m, logger)
	return a, nil
}

func (a *App) Close() error {
	return a.Repo.Close()
}

// integrationConfig only sets the clients whose credentials are present, so an
// unset interface field reads as "not configured".
func integrationConfig(ctx context.Context, cfg *config.Config) services.IntegrationConfig {
	ic := services.IntegrationConfig{
		GitHubUsername: cfg.GitHubUsername,
		GitHubRefresh:  cfg.GitHubRefresh,
	}
	if cfg.SpotifyClientID != "" && cfg.SpotifyRefreshToken != "" {
		ic.Spotify = spotify.New(ctx, spotify.Options{
			ClientID:     cfg.SpotifyClientID,
			ClientSecret: cfg.SpotifyClientSecret,
			RefreshToken: cfg.SpotifyRefreshToken,
		})
	}
	if cfg.GitHubToken != "" && cfg.GitHubUsername != "" {
		ic.GitHub = github.New(ctx, cfg.GitHubToken, "")
	}
	if cfg.OMDBAPIKey != "" {
		ic.Movies = omdb.New(cfg.OMDBAPIKey, "")
	}
	return ic
}
