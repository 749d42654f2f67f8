package domain

import "time"

// AnalyticsEvent is one logged page request.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Country   string    `json:"country"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"user_agent"`
	IsBot     bool      `json:"is_bot"`
	Created   time.Time `json:"created"`
}

// AnalyticsSummary is recomputed on every read and never persisted.
type AnalyticsSummary struct {
	TotalViews     int64           `json:"totalViews"`
	UniqueVisitors int64           `json:"uniqueVisitors"`
	TopRoutes      []RouteCount    `json:"topRoutes"`
	Countries      []CountryCount  `json:"countries"`
	Devices        []DeviceCount   `json:"devices"`
	Referrers      []ReferrerCount `json:"referrers"`
	Daily          []DailyViews    `json:"daily"`
}

type RouteCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type CountryCount struct {
	Country    string `json:"country"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

type DeviceCount struct {
	Type       string `json:"type"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

type ReferrerCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DailyViews is one cell of the views heatmap.
type DailyViews struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Count     int64  `json:"count"`
	Intensity int    `json:"intensity"`
}

// AnalyticsQuery bounds a summary. A zero Since means all time.
type AnalyticsQuery struct {
	Since time.Time
}

const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"

	ReferrerDirect = "Direct"
	CountryUnknown = "Unknown"
)

// EmptySummary is what callers get when aggregation fails.
func EmptySummary() *AnalyticsSummary {
	return &AnalyticsSummary{
		TopRoutes: []RouteCount{},
		Countries: []CountryCount{},
		Devices:   []DeviceCount{},
		Referrers: []ReferrerCount{},
		Daily:     []DailyViews{},
	}
}
