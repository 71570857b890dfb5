package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Turnstile TurnstileConfig
	Admission AdmissionConfig
	Admin     AdminConfig
	Email     EmailConfig
	Analytics AnalyticsConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// TurnstileConfig configures the Cloudflare Turnstile verifier.
// SecretKey is mandatory; the service refuses to start without it.
type TurnstileConfig struct {
	SecretKey string
	VerifyURL string
	Timeout   time.Duration
}

// AdmissionConfig holds the booking guard thresholds. Defaults match the
// production policy: 3 bookings per email per hour, 5 per IP per hour,
// a 7-day cooldown per email, and a global breaker of 10 per 10 minutes.
type AdmissionConfig struct {
	MaxPerEmail    int
	MaxPerIP       int
	IdentityWindow time.Duration
	CooldownWindow time.Duration
	GlobalBurstMax int
	GlobalWindow   time.Duration
}

type AdminConfig struct {
	APIKey string
}

// EmailConfig configures the SES notification sent to the sales team on each
// accepted booking. Notifications are disabled when NotifyAddress is empty.
type EmailConfig struct {
	AWSRegion     string
	FromAddress   string
	NotifyAddress string
}

type AnalyticsConfig struct {
	Retention       time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	turnstileSecret := getEnv("TURNSTILE_SECRET_KEY", "")
	if turnstileSecret == "" {
		return nil, fmt.Errorf("TURNSTILE_SECRET_KEY is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "closerly"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Turnstile: TurnstileConfig{
			SecretKey: turnstileSecret,
			VerifyURL: getEnv("TURNSTILE_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),
			Timeout:   getEnvAsDuration("TURNSTILE_TIMEOUT", 10*time.Second),
		},
		Admission: AdmissionConfig{
			MaxPerEmail:    getEnvAsInt("ADMISSION_MAX_PER_EMAIL", 3),
			MaxPerIP:       getEnvAsInt("ADMISSION_MAX_PER_IP", 5),
			IdentityWindow: getEnvAsDuration("ADMISSION_IDENTITY_WINDOW", 1*time.Hour),
			CooldownWindow: getEnvAsDuration("ADMISSION_COOLDOWN_WINDOW", 7*24*time.Hour),
			GlobalBurstMax: getEnvAsInt("ADMISSION_GLOBAL_BURST_MAX", 10),
			GlobalWindow:   getEnvAsDuration("ADMISSION_GLOBAL_WINDOW", 10*time.Minute),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		Email: EmailConfig{
			AWSRegion:     getEnv("AWS_REGION", "eu-west-1"),
			FromAddress:   getEnv("EMAIL_FROM_ADDRESS", ""),
			NotifyAddress: getEnv("EMAIL_NOTIFY_ADDRESS", ""),
		},
		Analytics: AnalyticsConfig{
			Retention:       getEnvAsDuration("ANALYTICS_RETENTION", 90*24*time.Hour),
			CleanupInterval: getEnvAsDuration("ANALYTICS_CLEANUP_INTERVAL", 12*time.Hour),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateAdminKey(cfg.Admin.APIKey, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateAdminKey enforces minimum strength for the admin API key
func validateAdminKey(key, env string) error {
	if key == "" {
		return fmt.Errorf("ADMIN_API_KEY is required")
	}

	minLength := 16
	if env == "production" {
		minLength = 32
	}
	if len(key) < minLength {
		return fmt.Errorf("ADMIN_API_KEY must be at least %d characters in %s environment (got %d)",
			minLength, env, len(key))
	}

	weakKeys := []string{"secret", "test", "password", "changeme", "admin", "default"}
	keyLower := strings.ToLower(key)
	for _, weak := range weakKeys {
		if keyLower == weak {
			return fmt.Errorf("ADMIN_API_KEY cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:8080",
	}
}
