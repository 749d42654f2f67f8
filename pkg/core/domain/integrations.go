package domain

import "time"

type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	AlbumArt   string   `json:"albumArt,omitempty"`
	URL        string   `json:"url"`
	DurationMs int      `json:"durationMs"`
}

// PlaybackState is the Spotify banner state machine.
type PlaybackState string

const (
	PlaybackLoading      PlaybackState = "loading"
	PlaybackPlaying      PlaybackState = "playing"
	PlaybackIdle         PlaybackState = "idle"
	PlaybackUnauthorized PlaybackState = "unauthorized"
	PlaybackError        PlaybackState = "error"
)

type NowPlaying struct {
	State      PlaybackState `json:"state"`
	Authorized bool          `json:"authorized"`
	IsPlaying  bool          `json:"isPlaying"`
	Track      *Track        `json:"track,omitempty"`
	ProgressMs int           `json:"progressMs"`
}

type PlayedTrack struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"playedAt"`
}

type Playlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl,omitempty"`
	Tracks   int    `json:"tracks"`
}

type ContributionDay struct {
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Intensity int    `json:"intensity"`
}

type ContributionCalendar struct {
	Total int               `json:"total"`
	Days  []ContributionDay `json:"days"`
}

type LanguageStat struct {
	Name       string  `json:"name"`
	Color      string  `json:"color,omitempty"`
	Bytes      int64   `json:"bytes"`
	Percentage float64 `json:"percentage"`
}

// GitHubStats is the banner payload refreshed by the GitHub poller.
type GitHubStats struct {
	Contributions ContributionCalendar `json:"contributions"`
	Languages     []LanguageStat       `json:"languages"`
}

type MovieSearchResult struct {
	IMDBID    string `json:"imdbId"`
	Title     string `json:"title"`
	Year      string `json:"year"`
	Type      string `json:"type"`
	PosterURL string `json:"posterUrl,omitempty"`
}
