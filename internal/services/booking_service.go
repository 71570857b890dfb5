package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/closerly/backend/internal/i18n"
	"github.com/closerly/backend/internal/metrics"
	"github.com/closerly/backend/internal/models"
	pkglogger "github.com/closerly/backend/pkg/logger"
	"github.com/google/uuid"
)

// ErrVerificationFailed is returned when the bot-challenge verdict is
// negative. The handler maps it to a 400 with a generic security message;
// provider error codes stay in the logs.
var ErrVerificationFailed = errors.New("challenge verification failed")

// AdmissionRejectedError carries the rule that blocked a booking attempt
type AdmissionRejectedError struct {
	Reason  RejectionReason
	Message string
}

func (e *AdmissionRejectedError) Error() string {
	return fmt.Sprintf("booking rejected: %s", e.Reason)
}

// BookingRepository defines the persistence operations for bookings
type BookingRepository interface {
	AdmissionStore
	Insert(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error)
}

// BookingNotifier delivers an internal notification for an accepted booking
type BookingNotifier interface {
	NotifyBookingAccepted(ctx context.Context, booking *models.Booking) error
}

// EventRecorder records site analytics events
type EventRecorder interface {
	Record(ctx context.Context, eventType, pagePath, userAgent string, metadata map[string]any) error
}

// BookingService runs the submission guard and the admin booking operations.
// Submission order is fixed: challenge verification first (fail closed), then
// the four admission rules, then the insert. Nothing is persisted unless both
// gates pass.
type BookingService struct {
	repo      BookingRepository
	verifier  ChallengeVerifier
	admission *AdmissionService
	events    EventRecorder
	notifier  BookingNotifier
	metrics   *metrics.Metrics
	audit     *pkglogger.AuditLogger
	logger    *slog.Logger
}

// NewBookingService creates a BookingService. notifier may be nil when
// acceptance notifications are not configured.
func NewBookingService(
	repo BookingRepository,
	verifier ChallengeVerifier,
	admission *AdmissionService,
	events EventRecorder,
	notifier BookingNotifier,
	m *metrics.Metrics,
	audit *pkglogger.AuditLogger,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		verifier:  verifier,
		admission: admission,
		events:    events,
		notifier:  notifier,
		metrics:   m,
		audit:     audit,
		logger:    logger,
	}
}

// Submit evaluates a booking attempt and persists it on acceptance. The
// returned booking is the persisted record, enriched with the resolved
// address, user agent and server-assigned timestamps.
func (s *BookingService) Submit(ctx context.Context, booking *models.Booking, token, clientIP, userAgent string) (*models.Booking, error) {
	result := s.verifier.Verify(ctx, token, clientIP)
	s.metrics.ObserveVerification(result.Success)
	if !result.Success {
		s.audit.LogVerificationFailure(clientIP, result.ErrorCodes)
		return nil, ErrVerificationFailed
	}

	lang := i18n.Normalize(booking.Language)
	decision := s.admission.Check(ctx, booking.Email, clientIP, lang, time.Now())
	s.metrics.ObserveAdmission(decision.Allowed, string(decision.Reason))
	if !decision.Allowed {
		s.audit.LogAdmissionRejection(booking.Email, clientIP, string(decision.Reason))
		return nil, &AdmissionRejectedError{Reason: decision.Reason, Message: decision.Message}
	}

	booking.ID = uuid.NewString()
	booking.IsBusinessEmail = models.IsBusinessEmail(booking.Email)
	booking.IPAddress = clientIP
	booking.UserAgent = userAgent
	booking.Status = models.BookingStatusPending

	created, err := s.repo.Insert(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	s.metrics.ObserveBookingPersisted()
	s.audit.LogBookingAccepted(created.ID, created.Email, created.IPAddress)

	if s.events != nil {
		if err := s.events.Record(ctx, "booking_submitted", "/book-call", userAgent, map[string]any{
			"booking_id":        created.ID,
			"is_business_email": created.IsBusinessEmail,
			"language":          created.Language,
		}); err != nil {
			s.logger.Error("failed to record booking analytics event", slog.Any("error", err))
		}
	}

	if s.notifier != nil {
		// Detached from the request: a slow or failing mail provider must not
		// delay or fail the response.
		go func(b *models.Booking) {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.notifier.NotifyBookingAccepted(notifyCtx, b); err != nil {
				s.logger.Error("failed to send booking notification",
					slog.String("booking_id", b.ID), slog.Any("error", err))
			}
		}(created)
	}

	return created, nil
}

// GetBooking returns a single booking by id
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// ListBookings returns a page of bookings, optionally filtered by status
func (s *BookingService) ListBookings(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error) {
	if status != "" && !models.ValidBookingStatus(status) {
		return nil, 0, models.ErrBadRequest
	}
	return s.repo.List(ctx, status, limit, offset)
}

// UpdateBookingStatus transitions a booking. Cancelling clears the 7-day
// cooldown for the booking's email; confirming stamps confirmed_at.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, models.ErrBadRequest
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
