package models

import "time"

// SiteContent is a multilingual copy section, keyed by section_id
type SiteContent struct {
	ID        string    `db:"id"`
	SectionID string    `db:"section_id"`
	ContentFR *string   `db:"content_fr"`
	ContentEN *string   `db:"content_en"`
	ContentAR *string   `db:"content_ar"`
	ImageURL  *string   `db:"image_url"`
	UpdatedBy *string   `db:"updated_by"`
	UpdatedAt time.Time `db:"updated_at"`
}
