package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/closerly/backend/internal/metrics"
	"github.com/closerly/backend/internal/models"
	"github.com/closerly/backend/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyticsRepo struct {
	inserted  []*models.AnalyticsEvent
	insertErr error
	deleted   int64
}

func (f *fakeAnalyticsRepo) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, event)
	return nil
}

func (f *fakeAnalyticsRepo) CountByTypeSince(ctx context.Context, since time.Time) ([]models.EventTypeCount, error) {
	return []models.EventTypeCount{{EventType: "page_view", Count: 3}}, nil
}

func (f *fakeAnalyticsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.deleted, nil
}

func newAnalyticsService(repo *fakeAnalyticsRepo) *services.AnalyticsService {
	return services.NewAnalyticsService(repo, metrics.New(prometheus.NewRegistry()), testLogger())
}

func TestAnalyticsRecord_ParsesUserAgent(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := newAnalyticsService(repo)

	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	err := svc.Record(context.Background(), "page_view", "/book-call", ua, map[string]any{"language": "fr"})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	event := repo.inserted[0]
	assert.Equal(t, "page_view", event.EventType)
	require.NotNil(t, event.PagePath)
	assert.Equal(t, "/book-call", *event.PagePath)
	assert.Equal(t, "fr", event.Metadata["language"])
	assert.Equal(t, "Chrome", event.Metadata["browser"])
	assert.Equal(t, false, event.Metadata["bot"])
}

func TestAnalyticsRecord_EmptyUserAgentAndPath(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := newAnalyticsService(repo)

	err := svc.Record(context.Background(), "cta_click", "", "", nil)
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	event := repo.inserted[0]
	assert.Nil(t, event.PagePath)
	assert.NotContains(t, event.Metadata, "browser")
}

func TestAnalyticsRecord_StoreErrorSurfaces(t *testing.T) {
	repo := &fakeAnalyticsRepo{insertErr: errors.New("insert failed")}
	svc := newAnalyticsService(repo)

	err := svc.Record(context.Background(), "page_view", "/", "", nil)
	assert.Error(t, err)
}

func TestAnalyticsSummary(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := newAnalyticsService(repo)

	counts, err := svc.Summary(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "page_view", counts[0].EventType)
	assert.Equal(t, 3, counts[0].Count)
}
