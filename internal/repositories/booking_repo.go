package repositories

import (
	"context"
	"time"

	"github.com/closerly/backend/internal/database"
	"github.com/closerly/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// BookingRepository handles database operations for call bookings
type BookingRepository struct {
	db *database.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, first_name, last_name, job_title, company_name, company_website,
	company_linkedin, email, phone, industry, annual_revenue, sales_team_size,
	current_channels, main_challenge, call_objective, has_used_ai_crm, urgency,
	preferred_date, timezone, preferred_platform, commitment_confirmed,
	language, is_business_email, ip_address, user_agent, status, confirmed_at,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.FirstName, &b.LastName, &b.JobTitle, &b.CompanyName,
		&b.CompanyWebsite, &b.CompanyLinkedin, &b.Email, &b.Phone, &b.Industry,
		&b.AnnualRevenue, &b.SalesTeamSize, pq.Array(&b.CurrentChannels),
		&b.MainChallenge, &b.CallObjective, &b.HasUsedAICRM, &b.Urgency,
		&b.PreferredDate, &b.Timezone, &b.PreferredPlatform,
		&b.CommitmentConfirmed, &b.Language, &b.IsBusinessEmail, &b.IPAddress,
		&b.UserAgent, &b.Status, &b.ConfirmedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &b, nil
}

// Insert persists an accepted booking and returns the stored row
func (r *BookingRepository) Insert(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	query := `
		INSERT INTO call_bookings (
			id, first_name, last_name, job_title, company_name, company_website,
			company_linkedin, email, phone, industry, annual_revenue,
			sales_team_size, current_channels, main_challenge, call_objective,
			has_used_ai_crm, urgency, preferred_date, timezone,
			preferred_platform, commitment_confirmed, language,
			is_business_email, ip_address, user_agent, status
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
		RETURNING ` + bookingColumns

	row := r.db.Pool.QueryRow(ctx, query,
		b.ID, b.FirstName, b.LastName, b.JobTitle, b.CompanyName,
		b.CompanyWebsite, b.CompanyLinkedin, b.Email, b.Phone, b.Industry,
		b.AnnualRevenue, b.SalesTeamSize, pq.Array(b.CurrentChannels),
		b.MainChallenge, b.CallObjective, b.HasUsedAICRM, b.Urgency,
		b.PreferredDate, b.Timezone, b.PreferredPlatform,
		b.CommitmentConfirmed, b.Language, b.IsBusinessEmail, b.IPAddress,
		b.UserAgent, b.Status,
	)

	return scanBooking(row)
}

// CountRecentByEmail returns the number of bookings for an email since a time
func (r *BookingRepository) CountRecentByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM call_bookings WHERE email = $1 AND created_at >= $2`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, email, since).Scan(&count)
	return count, err
}

// CountRecentByIP returns the number of bookings from an address since a time
func (r *BookingRepository) CountRecentByIP(ctx context.Context, ipAddress string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM call_bookings WHERE ip_address = $1 AND created_at >= $2`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, ipAddress, since).Scan(&count)
	return count, err
}

// FindActiveByEmail returns the most recent booking for an email within the
// window whose status differs from excludeStatus, or nil when there is none
func (r *BookingRepository) FindActiveByEmail(ctx context.Context, email, excludeStatus string, since time.Time) (*models.Booking, error) {
	query := `
		SELECT id, email, status, created_at FROM call_bookings
		WHERE email = $1 AND status <> $2 AND created_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var b models.Booking
	err := r.db.Pool.QueryRow(ctx, query, email, excludeStatus, since).
		Scan(&b.ID, &b.Email, &b.Status, &b.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CountRecentTotal returns the number of bookings across all identities since a time
func (r *BookingRepository) CountRecentTotal(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM call_bookings WHERE created_at >= $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, since).Scan(&count)
	return count, err
}

// GetByID returns a single booking
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM call_bookings WHERE id = $1`
	return scanBooking(r.db.Pool.QueryRow(ctx, query, id))
}

// List returns a page of bookings, newest first, optionally filtered by status
func (r *BookingRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM call_bookings WHERE ($1 = '' OR status = $1)`
	if err := r.db.Pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM call_bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, database.MapPostgresError(err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	return bookings, total, nil
}

// UpdateStatus transitions a booking's status. Confirming stamps
// confirmed_at; other transitions leave it untouched.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	query := `
		UPDATE call_bookings
		SET status = $2,
		    confirmed_at = CASE WHEN $2 = 'confirmed' THEN now() ELSE confirmed_at END,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingColumns

	return scanBooking(r.db.Pool.QueryRow(ctx, query, id, status))
}
