package domain

import "time"

type Post struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"contentHtml"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	Tags        []string  `json:"tags"`
	Published   bool      `json:"published"`
	ReadingTime int       `json:"readingTime"` // minutes
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

type Project struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	RepoURL     string    `json:"repoUrl,omitempty"`
	DemoURL     string    `json:"demoUrl,omitempty"`
	Tech        []string  `json:"tech"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sortOrder"`
	Created     time.Time `json:"created"`
}

type Book struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	CoverURL string     `json:"coverUrl,omitempty"`
	Status   string     `json:"status"` // reading, finished, want
	Rating   float64    `json:"rating"`
	Finished *time.Time `json:"finished,omitempty"`
	Created  time.Time  `json:"created"`
}

type Certificate struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Issuer    string     `json:"issuer"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	CredURL   string     `json:"credentialUrl,omitempty"`
	FileURL   string     `json:"fileUrl,omitempty"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	SortOrder int        `json:"sortOrder"`
	Created   time.Time  `json:"created"`
}

type Movie struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Year      string    `json:"year"`
	IMDBID    string    `json:"imdbId,omitempty"`
	PosterURL string    `json:"posterUrl,omitempty"`
	Rating    float64   `json:"rating"`
	Watched   bool      `json:"watched"`
	Created   time.Time `json:"created"`
}

type Publication struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Authors   []string   `json:"authors"`
	Venue     string     `json:"venue"`
	Published *time.Time `json:"published,omitempty"`
	URL       string     `json:"url,omitempty"`
	FileURL   string     `json:"fileUrl,omitempty"`
	Abstract  string     `json:"abstract"`
	Created   time.Time  `json:"created"`
}

type Employment struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Location    string     `json:"location"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"` // nil while current
	Description string     `json:"description"`
	LogoURL     string     `json:"logoUrl,omitempty"`
	SortOrder   int        `json:"sortOrder"`
}

// Section is a reorderable block of the home page.
type Section struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	Visible   bool   `json:"visible"`
	SortOrder int    `json:"sortOrder"`
}

type Comment struct {
	ID       string     `json:"id"`
	PostID   string     `json:"postId"`
	ParentID string     `json:"parentId,omitempty"`
	Author   string     `json:"author"`
	Body     string     `json:"body"`
	Created  time.Time  `json:"created"`
	Replies  []*Comment `json:"replies,omitempty"`
}

type CustomizationSettings struct {
	ID          string            `json:"id"`
	Theme       string            `json:"theme"`
	AccentColor string            `json:"accentColor"`
	Font        string            `json:"font"`
	SiteTitle   string            `json:"siteTitle"`
	SocialLinks map[string]string `json:"socialLinks"`
	ShowSpotify bool              `json:"showSpotify"`
	ShowGitHub  bool              `json:"showGitHub"`
}
