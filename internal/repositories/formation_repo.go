package repositories

import (
	"context"

	"github.com/closerly/backend/internal/database"
	"github.com/closerly/backend/internal/models"
	"github.com/jackc/pgx/v5"
)

// FormationRepository handles database operations for formations
type FormationRepository struct {
	db *database.DB
}

// NewFormationRepository creates a new FormationRepository
func NewFormationRepository(db *database.DB) *FormationRepository {
	return &FormationRepository{db: db}
}

const formationColumns = `
	id, title, description, file_url, file_type, thumbnail_url,
	duration_minutes, order_index, is_published, created_by, created_at, updated_at`

func scanFormation(row pgx.Row) (*models.Formation, error) {
	var f models.Formation
	err := row.Scan(
		&f.ID, &f.Title, &f.Description, &f.FileURL, &f.FileType,
		&f.ThumbnailURL, &f.DurationMinutes, &f.OrderIndex, &f.IsPublished,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &f, nil
}

func (r *FormationRepository) Create(ctx context.Context, f *models.Formation) (*models.Formation, error) {
	query := `
		INSERT INTO formations (
			id, title, description, file_url, file_type, thumbnail_url,
			duration_minutes, order_index, is_published, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + formationColumns

	row := r.db.Pool.QueryRow(ctx, query,
		f.ID, f.Title, f.Description, f.FileURL, f.FileType, f.ThumbnailURL,
		f.DurationMinutes, f.OrderIndex, f.IsPublished, f.CreatedBy,
	)
	return scanFormation(row)
}

func (r *FormationRepository) GetByID(ctx context.Context, id string) (*models.Formation, error) {
	query := `SELECT ` + formationColumns + ` FROM formations WHERE id = $1`
	return scanFormation(r.db.Pool.QueryRow(ctx, query, id))
}

// List returns formations in display order. With publishedOnly, drafts are
// excluded.
func (r *FormationRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Formation, error) {
	query := `
		SELECT ` + formationColumns + `
		FROM formations
		WHERE ($1 = false OR is_published = true)
		ORDER BY order_index ASC, created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	var formations []*models.Formation
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			return nil, err
		}
		formations = append(formations, f)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return formations, nil
}

func (r *FormationRepository) Update(ctx context.Context, f *models.Formation) (*models.Formation, error) {
	query := `
		UPDATE formations
		SET title = $2, description = $3, file_url = $4, file_type = $5,
		    thumbnail_url = $6, duration_minutes = $7, order_index = $8,
		    is_published = $9, updated_at = now()
		WHERE id = $1
		RETURNING ` + formationColumns

	row := r.db.Pool.QueryRow(ctx, query,
		f.ID, f.Title, f.Description, f.FileURL, f.FileType, f.ThumbnailURL,
		f.DurationMinutes, f.OrderIndex, f.IsPublished,
	)
	return scanFormation(row)
}

func (r *FormationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM formations WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
