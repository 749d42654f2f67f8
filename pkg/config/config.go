package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	LogLevel           string
	BaseURL            string
	StorageBaseURL     string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	FrontendURL        string
	AllowedEmails      []string

	// Live integrations
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRefreshToken string
	GitHubToken         string
	GitHubUsername      string
	GitHubRefresh       time.Duration
	OMDBAPIKey          string
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "file:db.sqlite"),
		AppEnv:              getEnv("APP_ENV", "local"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		StorageBaseURL:      strings.TrimRight(getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"), "/"),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:   getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:           getEnv("JWT_SECRET", DefaultJWTSecret),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000/admin"),
		AllowedEmails:       splitList(getEnv("ALLOWED_EMAILS", "")),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRefreshToken: getEnv("SPOTIFY_REFRESH_TOKEN", ""),
		GitHubToken:         getEnv("GITHUB_TOKEN", ""),
		GitHubUsername:      getEnv("GITHUB_USERNAME", ""),
		GitHubRefresh:       getDuration("GITHUB_REFRESH_INTERVAL", time.Hour),
		OMDBAPIKey:          getEnv("OMDB_API_KEY", ""),
	}
}

// IsProduction reports whether cookies should be marked secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DefaultJWTSecret is the local-development signing key.
const DefaultJWTSecret = "secret"

// Validate rejects settings that are only safe on a developer machine.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	var errs []error
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if len(c.AllowedEmails) == 0 {
		errs = append(errs, errors.New("ALLOWED_EMAILS must list the admin accounts in production"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
