package models

import "time"

// AnalyticsEvent is a single page or interaction event in site_analytics
type AnalyticsEvent struct {
	ID        string         `db:"id"`
	EventType string         `db:"event_type"`
	PagePath  *string        `db:"page_path"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}

// EventTypeCount aggregates event volume by type over a window
type EventTypeCount struct {
	EventType string `db:"event_type" json:"event_type"`
	Count     int    `db:"count" json:"count"`
}
