package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/closerly/backend/internal/metrics"
	"github.com/closerly/backend/internal/models"
	"github.com/mssola/useragent"
)

// AnalyticsRepository defines persistence for site analytics events
type AnalyticsRepository interface {
	Insert(ctx context.Context, event *models.AnalyticsEvent) error
	CountByTypeSince(ctx context.Context, since time.Time) ([]models.EventTypeCount, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AnalyticsService records page and interaction events. Recording is
// best-effort throughout: callers treat failures as non-fatal.
type AnalyticsService struct {
	repo    AnalyticsRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(repo AnalyticsRepository, m *metrics.Metrics, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, metrics: m, logger: logger}
}

// Record stores one event, folding parsed user-agent details into its
// metadata so the admin dashboard can break events down by browser and OS.
func (s *AnalyticsService) Record(ctx context.Context, eventType, pagePath, uaString string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if uaString != "" {
		ua := useragent.New(uaString)
		browser, version := ua.Browser()
		metadata["browser"] = browser
		metadata["browser_version"] = version
		metadata["os"] = ua.OS()
		metadata["mobile"] = ua.Mobile()
		metadata["bot"] = ua.Bot()
	}

	event := &models.AnalyticsEvent{
		EventType: eventType,
		Metadata:  metadata,
	}
	if pagePath != "" {
		event.PagePath = &pagePath
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		s.metrics.ObserveAnalyticsDrop()
		return err
	}
	return nil
}

// Summary aggregates event counts by type over the trailing window
func (s *AnalyticsService) Summary(ctx context.Context, window time.Duration) ([]models.EventTypeCount, error) {
	return s.repo.CountByTypeSince(ctx, time.Now().Add(-window))
}

// PurgeOlderThan removes events past the retention cutoff, returning the
// number of deleted rows. Called by the background sweeper.
func (s *AnalyticsService) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
}
