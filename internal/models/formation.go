package models

import "time"

// Formation represents a training resource shown on the site
type Formation struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Description     *string   `db:"description"`
	FileURL         string    `db:"file_url"`
	FileType        *string   `db:"file_type"`
	ThumbnailURL    *string   `db:"thumbnail_url"`
	DurationMinutes *int      `db:"duration_minutes"`
	OrderIndex      int       `db:"order_index"`
	IsPublished     bool      `db:"is_published"`
	CreatedBy       *string   `db:"created_by"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
