//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/closerly/backend/internal/database"
	"github.com/closerly/backend/internal/models"
	"github.com/closerly/backend/internal/repositories"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("closerly"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dbWrapper := &database.DB{
		Pool: pool,
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         dbWrapper,
	}, nil
}

// runMigrations executes all goose migrations
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	// Suppress goose logs
	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a stdlib DB connection
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"call_bookings",
		"formations",
		"site_content",
		"site_analytics",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// InitializeRepositories creates all repository instances from database wrapper
func InitializeRepositories(db *database.DB) (
	*repositories.BookingRepository,
	*repositories.FormationRepository,
	*repositories.ContentRepository,
	*repositories.AnalyticsRepository,
) {
	return repositories.NewBookingRepository(db),
		repositories.NewFormationRepository(db),
		repositories.NewContentRepository(db),
		repositories.NewAnalyticsRepository(db)
}

// SeedBooking inserts a booking row with a chosen status and created_at
func SeedBooking(ctx context.Context, pool *pgxpool.Pool, email, ipAddress, status string, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO call_bookings (
			id, first_name, last_name, job_title, company_name, email, phone,
			industry, annual_revenue, sales_team_size, current_channels,
			main_challenge, call_objective, has_used_ai_crm, urgency,
			timezone, preferred_platform, commitment_confirmed, language,
			is_business_email, ip_address, user_agent, status, created_at, updated_at
		) VALUES (
			$1, 'Test', 'User', 'CEO', 'Test Co', $2, '+33612345678',
			'saas', '<100K', 1, $3,
			'a challenge long enough to pass validation', 'automate', 'no', 'this_week',
			'Europe/Paris', 'zoom', TRUE, 'fr',
			$4, $5, 'integration-test', $6, $7, $7
		)
	`
	_, err := pool.Exec(ctx, query,
		id, email, pq.Array([]string{"outbound"}),
		models.IsBusinessEmail(email), ipAddress, status, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to seed booking: %w", err)
	}

	return id, nil
}
