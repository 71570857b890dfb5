package repositories

import (
	"context"

	"github.com/closerly/backend/internal/database"
	"github.com/closerly/backend/internal/models"
	"github.com/jackc/pgx/v5"
)

// ContentRepository handles database operations for site content sections
type ContentRepository struct {
	db *database.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `
	id, section_id, content_fr, content_en, content_ar, image_url, updated_by, updated_at`

func scanContent(row pgx.Row) (*models.SiteContent, error) {
	var c models.SiteContent
	err := row.Scan(
		&c.ID, &c.SectionID, &c.ContentFR, &c.ContentEN, &c.ContentAR,
		&c.ImageURL, &c.UpdatedBy, &c.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &c, nil
}

func (r *ContentRepository) GetBySection(ctx context.Context, sectionID string) (*models.SiteContent, error) {
	query := `SELECT ` + contentColumns + ` FROM site_content WHERE section_id = $1`
	return scanContent(r.db.Pool.QueryRow(ctx, query, sectionID))
}

func (r *ContentRepository) List(ctx context.Context) ([]*models.SiteContent, error) {
	query := `SELECT ` + contentColumns + ` FROM site_content ORDER BY section_id ASC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	var sections []*models.SiteContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return sections, nil
}

// Upsert creates the section if it does not exist, otherwise replaces its copy
func (r *ContentRepository) Upsert(ctx context.Context, c *models.SiteContent) (*models.SiteContent, error) {
	query := `
		INSERT INTO site_content (id, section_id, content_fr, content_en, content_ar, image_url, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (section_id) DO UPDATE
		SET content_fr = EXCLUDED.content_fr,
		    content_en = EXCLUDED.content_en,
		    content_ar = EXCLUDED.content_ar,
		    image_url = EXCLUDED.image_url,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = now()
		RETURNING ` + contentColumns

	row := r.db.Pool.QueryRow(ctx, query,
		c.ID, c.SectionID, c.ContentFR, c.ContentEN, c.ContentAR, c.ImageURL, c.UpdatedBy,
	)
	return scanContent(row)
}
