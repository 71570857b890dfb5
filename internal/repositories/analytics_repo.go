package repositories

import (
	"context"
	"time"

	"github.com/closerly/backend/internal/database"
	"github.com/closerly/backend/internal/models"
)

// AnalyticsRepository handles database operations for site analytics events
type AnalyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Insert records one analytics event
func (r *AnalyticsRepository) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	query := `
		INSERT INTO site_analytics (event_type, page_path, metadata)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Pool.Exec(ctx, query, event.EventType, event.PagePath, event.Metadata)
	return database.MapPostgresError(err)
}

// CountByTypeSince aggregates event counts by type since a time
func (r *AnalyticsRepository) CountByTypeSince(ctx context.Context, since time.Time) ([]models.EventTypeCount, error) {
	query := `
		SELECT event_type, COUNT(*) FROM site_analytics
		WHERE created_at >= $1
		GROUP BY event_type
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	var counts []models.EventTypeCount
	for rows.Next() {
		var c models.EventTypeCount
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return nil, database.MapPostgresError(err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return counts, nil
}

// DeleteOlderThan removes events created before the cutoff
func (r *AnalyticsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM site_analytics WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return tag.RowsAffected(), nil
}
