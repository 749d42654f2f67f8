package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/analytics"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

func (r *SQLiteRepository) RecordEvent(ctx context.Context, ev *domain.AnalyticsEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	query := `INSERT INTO analytics_events (id, path, country, referrer, user_agent, is_bot, created) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, ev.ID, ev.Path, ev.Country, ev.Referrer, ev.UserAgent, ev.IsBot, formatTime(ev.Created))
	return err
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, q domain.AnalyticsQuery) ([]domain.AnalyticsEvent, error) {
	query := `SELECT id, path, COALESCE(country, ''), COALESCE(referrer, ''), COALESCE(user_agent, ''), is_bot, created
			  FROM analytics_events WHERE created >= ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, since(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.AnalyticsEvent{}
	for rows.Next() {
		var ev domain.AnalyticsEvent
		var created string
		if err := rows.Scan(&ev.ID, &ev.Path, &ev.Country, &ev.Referrer, &ev.UserAgent, &ev.IsBot, &created); err != nil {
			return nil, err
		}
		ev.Created = parseTime(created)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func since(q domain.AnalyticsQuery) string {
	if q.Since.IsZero() {
		return ""
	}
	return formatTime(q.Since)
}

// deviceCase classifies user agents in SQL with the same tokens as analytics.ClassifyDevice.
func deviceCase() string {
	conds := make([]string, 0, len(analytics.MobileTokens))
	for _, token := range analytics.MobileTokens {
		conds = append(conds, "lower(COALESCE(user_agent, '')) LIKE '%"+token+"%'")
	}
	return fmt.Sprintf("CASE WHEN %s THEN '%s' ELSE '%s' END", strings.Join(conds, " OR "), domain.DeviceMobile, domain.DeviceDesktop)
}

const eventFilter = ` FROM analytics_events WHERE is_bot = 0 AND created >= ?`

// Summary aggregates in SQL. Groups come back in first-seen order (MIN(seq)) and
// analytics.Build ranks them, which keeps ties in encounter order.
func (r *SQLiteRepository) Summary(ctx context.Context, q domain.AnalyticsQuery) (*domain.AnalyticsSummary, error) {
	from := since(q)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+eventFilter, from).Scan(&total); err != nil {
		return nil, fmt.Errorf("total views: %w", err)
	}

	var unique int64
	uniqueQuery := `SELECT COUNT(*) FROM (SELECT DISTINCT COALESCE(user_agent, ''), COALESCE(country, '')` + eventFilter + `)`
	if err := r.db.QueryRowContext(ctx, uniqueQuery, from).Scan(&unique); err != nil {
		return nil, fmt.Errorf("unique visitors: %w", err)
	}

	routes, err := r.tally(ctx, `path`, from, nil)
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}
	countries, err := r.tally(ctx, `COALESCE(country, '')`, from, analytics.CountryName)
	if err != nil {
		return nil, fmt.Errorf("countries: %w", err)
	}
	devices, err := r.tally(ctx, deviceCase(), from, nil)
	if err != nil {
		return nil, fmt.Errorf("devices: %w", err)
	}
	referrers, err := r.tally(ctx, `COALESCE(referrer, '')`, from, analytics.ReferrerName)
	if err != nil {
		return nil, fmt.Errorf("referrers: %w", err)
	}
	days, err := r.tally(ctx, `substr(created, 1, 10)`, from, nil)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}

	return analytics.Build(total, unique, routes, countries, devices, referrers, days), nil
}

// tally groups events by expr. bucket, when set, merges raw keys (e.g. referrer URLs
// into hostnames) before counting.
func (r *SQLiteRepository) tally(ctx context.Context, expr, from string, bucket func(string) string) (*analytics.Tally, error) {
	query := `SELECT ` + expr + ` AS k, COUNT(*), MIN(seq) AS first` + eventFilter + ` GROUP BY k ORDER BY first`
	rows, err := r.db.QueryContext(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := analytics.NewTally()
	for rows.Next() {
		var key string
		var n, first int64
		if err := rows.Scan(&key, &n, &first); err != nil {
			return nil, err
		}
		if bucket != nil {
			key = bucket(key)
		}
		t.Add(key, n)
	}
	return t, rows.Err()
}
