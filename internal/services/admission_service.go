package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/closerly/backend/internal/i18n"
	"github.com/closerly/backend/internal/models"
	pkglogger "github.com/closerly/backend/pkg/logger"
)

// AdmissionStore is the slice of the booking history the admission rules
// need. Implemented by the pgx BookingRepository and by an in-memory fake
// in tests.
type AdmissionStore interface {
	CountRecentByEmail(ctx context.Context, email string, since time.Time) (int, error)
	CountRecentByIP(ctx context.Context, ipAddress string, since time.Time) (int, error)
	FindActiveByEmail(ctx context.Context, email, excludeStatus string, since time.Time) (*models.Booking, error)
	CountRecentTotal(ctx context.Context, since time.Time) (int, error)
}

// RejectionReason identifies which admission rule blocked a booking
type RejectionReason string

const (
	ReasonEmailRate  RejectionReason = "email_rate"
	ReasonIPRate     RejectionReason = "ip_rate"
	ReasonDuplicate  RejectionReason = "duplicate"
	ReasonGlobalRate RejectionReason = "global_rate"
)

// AdmissionConfig holds the guard thresholds and windows
type AdmissionConfig struct {
	MaxPerEmail    int           // bookings per email within IdentityWindow
	MaxPerIP       int           // bookings per address within IdentityWindow
	IdentityWindow time.Duration // trailing window for the two burst rules
	CooldownWindow time.Duration // one non-cancelled booking per email per window
	GlobalBurstMax int           // bookings across all identities within GlobalWindow
	GlobalWindow   time.Duration
}

// DefaultAdmissionConfig returns the production thresholds
func DefaultAdmissionConfig() AdmissionConfig {
	return AdmissionConfig{
		MaxPerEmail:    3,
		MaxPerIP:       5,
		IdentityWindow: 1 * time.Hour,
		CooldownWindow: 7 * 24 * time.Hour,
		GlobalBurstMax: 10,
		GlobalWindow:   10 * time.Minute,
	}
}

// Decision is the outcome of an admission check
type Decision struct {
	Allowed bool
	Reason  RejectionReason
	Message string // localized, user-facing
}

// AdmissionService decides whether a verified booking attempt may be
// persisted. Four rules run in order, cheapest and most user-specific first,
// short-circuiting on the first block. Each rule reads a point-in-time count
// from the store; there is no transaction spanning check and insert, so two
// near-simultaneous submissions from the same email can both pass rule 3.
// That race is an accepted trade-off of the optimistic design.
type AdmissionService struct {
	store  AdmissionStore
	config AdmissionConfig
	logger *slog.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(store AdmissionStore, config AdmissionConfig, logger *slog.Logger) *AdmissionService {
	return &AdmissionService{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Check evaluates the four admission rules for a booking attempt at time now.
// A store error inside a single rule is logged and the rule is skipped
// (fail open): a monitoring outage must not lock out legitimate visitors.
// A successful count that meets a threshold always blocks.
func (s *AdmissionService) Check(ctx context.Context, email, ipAddress, lang string, now time.Time) Decision {
	identitySince := now.Add(-s.config.IdentityWindow)

	// 1. Email burst limit
	emailCount, err := s.store.CountRecentByEmail(ctx, email, identitySince)
	if err != nil {
		s.logger.Error("email burst check failed", slog.Any("error", err))
	} else if emailCount >= s.config.MaxPerEmail {
		s.logger.Warn("booking blocked by email burst limit",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Int("recent_count", emailCount))
		return reject(ReasonEmailRate, lang, i18n.MsgEmailRate)
	}

	// 2. Address burst limit
	ipCount, err := s.store.CountRecentByIP(ctx, ipAddress, identitySince)
	if err != nil {
		s.logger.Error("address burst check failed", slog.Any("error", err))
	} else if ipCount >= s.config.MaxPerIP {
		s.logger.Warn("booking blocked by address burst limit",
			slog.String("ip_address", ipAddress),
			slog.Int("recent_count", ipCount))
		return reject(ReasonIPRate, lang, i18n.MsgIPRate)
	}

	// 3. Duplicate booking cooldown; a cancelled booking clears it
	existing, err := s.store.FindActiveByEmail(ctx, email, models.BookingStatusCancelled, now.Add(-s.config.CooldownWindow))
	if err != nil {
		s.logger.Error("duplicate booking check failed", slog.Any("error", err))
	} else if existing != nil {
		s.logger.Warn("booking blocked by cooldown",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.String("existing_booking_id", existing.ID))
		return reject(ReasonDuplicate, lang, i18n.MsgDuplicate)
	}

	// 4. Global spam breaker, regardless of identity
	total, err := s.store.CountRecentTotal(ctx, now.Add(-s.config.GlobalWindow))
	if err != nil {
		s.logger.Error("global burst check failed", slog.Any("error", err))
	} else if total >= s.config.GlobalBurstMax {
		s.logger.Warn("booking blocked by global burst breaker",
			slog.Int("recent_total", total))
		return reject(ReasonGlobalRate, lang, i18n.MsgGlobalRate)
	}

	return Decision{Allowed: true}
}

func reject(reason RejectionReason, lang, msgKey string) Decision {
	return Decision{
		Allowed: false,
		Reason:  reason,
		Message: i18n.T(lang, msgKey),
	}
}
