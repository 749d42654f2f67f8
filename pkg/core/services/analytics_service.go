package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/analytics"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
)

type AnalyticsService struct {
	repo   ports.AnalyticsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewAnalyticsService(repo ports.AnalyticsRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger.Named("analytics"), now: time.Now}
}

func (s *AnalyticsService) RecordEvent(ctx context.Context, path, country, referrer, userAgent string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return &domain.ValidationError{Field: "path"}
	}

	event := &domain.AnalyticsEvent{
		ID:        uuid.NewString(),
		Path:      path,
		Country:   strings.ToUpper(strings.TrimSpace(country)),
		Referrer:  strings.TrimSpace(referrer),
		UserAgent: userAgent,
		IsBot:     analytics.IsBot(userAgent),
		Created:   s.now().UTC(),
	}
	return s.repo.RecordEvent(ctx, event)
}

// Summary prefers the repository's SQL aggregation and falls back to summarizing
// raw events. Errors are logged and produce an empty summary.
func (s *AnalyticsService) Summary(ctx context.Context, q domain.AnalyticsQuery) *domain.AnalyticsSummary {
	summary, err := s.repo.Summary(ctx, q)
	if errors.Is(err, domain.ErrAggregationUnsupported) {
		events, listErr := s.repo.ListEvents(ctx, q)
		if listErr != nil {
			s.logger.Error("list analytics events", zap.Error(listErr))
			return domain.EmptySummary()
		}
		return analytics.Summarize(events)
	}
	if err != nil {
		s.logger.Error("aggregate analytics", zap.Error(err))
		return domain.EmptySummary()
	}
	if summary == nil {
		return domain.EmptySummary()
	}
	return summary
}
