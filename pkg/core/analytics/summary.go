package analytics

import (
	"sort"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

type visitorKey struct {
	userAgent string
	country   string
}

// Summarize aggregates raw events in memory. Bot events are skipped.
func Summarize(events []domain.AnalyticsEvent) *domain.AnalyticsSummary {
	var total int64
	visitors := make(map[visitorKey]struct{})
	routes, countries, devices, referrers, days := NewTally(), NewTally(), NewTally(), NewTally(), NewTally()

	for _, ev := range events {
		if ev.IsBot {
			continue
		}
		total++
		visitors[visitorKey{userAgent: ev.UserAgent, country: ev.Country}] = struct{}{}
		routes.Add(ev.Path, 1)
		countries.Add(CountryName(ev.Country), 1)
		devices.Add(ClassifyDevice(ev.UserAgent), 1)
		referrers.Add(ReferrerName(ev.Referrer), 1)
		if !ev.Created.IsZero() {
			days.Add(ev.Created.UTC().Format("2006-01-02"), 1)
		}
	}

	return Build(total, int64(len(visitors)), routes, countries, devices, referrers, days)
}

// Build assembles a summary from tallies filled in encounter order. The repository
// feeds it from GROUP BY rows, Summarize from raw events.
func Build(total, unique int64, routes, countries, devices, referrers, days *Tally) *domain.AnalyticsSummary {
	summary := domain.EmptySummary()
	summary.TotalViews = total
	summary.UniqueVisitors = unique

	for _, c := range routes.Ranked(TopLimit) {
		summary.TopRoutes = append(summary.TopRoutes, domain.RouteCount{Path: c.Key, Views: c.N})
	}
	for _, c := range countries.Ranked(0) {
		summary.Countries = append(summary.Countries, domain.CountryCount{
			Country:    c.Key,
			Count:      c.N,
			Percentage: Percentage(c.N, total),
		})
	}
	for _, c := range devices.Ranked(0) {
		summary.Devices = append(summary.Devices, domain.DeviceCount{
			Type:       c.Key,
			Count:      c.N,
			Percentage: Percentage(c.N, total),
		})
	}
	for _, c := range referrers.Ranked(TopLimit) {
		summary.Referrers = append(summary.Referrers, domain.ReferrerCount{Name: c.Key, Count: c.N})
	}
	for _, c := range days.Ranked(0) {
		summary.Daily = append(summary.Daily, domain.DailyViews{Date: c.Key, Count: c.N, Intensity: Intensity(c.N)})
	}
	sort.Slice(summary.Daily, func(i, j int) bool { return summary.Daily[i].Date < summary.Daily[j].Date })
	return summary
}

// LastDays builds a query covering the trailing window of days, counted in whole
// UTC days including today. days <= 0 means all time.
func LastDays(now time.Time, days int) domain.AnalyticsQuery {
	if days <= 0 {
		return domain.AnalyticsQuery{}
	}
	y, m, d := now.UTC().Date()
	return domain.AnalyticsQuery{Since: time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))}
}
