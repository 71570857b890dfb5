package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/closerly/backend/internal/metrics"
	"github.com/closerly/backend/internal/models"
	"github.com/closerly/backend/internal/services"
	pkglogger "github.com/closerly/backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	fakeAdmissionStore

	inserted  []*models.Booking
	insertErr error
}

func (f *fakeBookingRepo) Insert(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	f.inserted = append(f.inserted, booking)
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeBookingRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error) {
	return f.bookings, len(f.bookings), nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			b.Status = status
			return b, nil
		}
	}
	return nil, models.ErrNotFound
}

type stubVerifier struct {
	result services.VerificationResult
	calls  int
}

func (s *stubVerifier) Verify(ctx context.Context, token, remoteIP string) services.VerificationResult {
	s.calls++
	return s.result
}

type fakeEventRecorder struct {
	events []string
	err    error
}

func (f *fakeEventRecorder) Record(ctx context.Context, eventType, pagePath, userAgent string, metadata map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, eventType)
	return nil
}

func newBookingService(repo *fakeBookingRepo, verifier *stubVerifier, events *fakeEventRecorder) *services.BookingService {
	logger := testLogger()
	admission := services.NewAdmissionService(repo, services.DefaultAdmissionConfig(), logger)
	return services.NewBookingService(
		repo,
		verifier,
		admission,
		events,
		nil,
		metrics.New(prometheus.NewRegistry()),
		pkglogger.NewAuditLogger(logger),
		logger,
	)
}

func validBooking(email string) *models.Booking {
	return &models.Booking{
		FirstName:           "Nora",
		LastName:            "Haddad",
		JobTitle:            "Head of Sales",
		CompanyName:         "Biz SARL",
		Email:               email,
		Phone:               "+33 6 12 34 56 78",
		Industry:            "saas",
		AnnualRevenue:       "100K-500K",
		SalesTeamSize:       4,
		CurrentChannels:     []string{"outbound"},
		MainChallenge:       "Pipeline conversion is too low",
		CallObjective:       "automate",
		HasUsedAICRM:        "no",
		Urgency:             "this_week",
		Timezone:            "Europe/Paris",
		PreferredPlatform:   "zoom",
		CommitmentConfirmed: true,
		Language:            "fr",
	}
}

func TestSubmit_AcceptsAndEnriches(t *testing.T) {
	repo := &fakeBookingRepo{}
	verifier := &stubVerifier{result: services.VerificationResult{Success: true}}
	events := &fakeEventRecorder{}
	svc := newBookingService(repo, verifier, events)

	created, err := svc.Submit(context.Background(), validBooking("a@biz.com"), "token", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsBusinessEmail)
	assert.Equal(t, "203.0.113.7", created.IPAddress)
	assert.Equal(t, "Mozilla/5.0", created.UserAgent)
	assert.Equal(t, models.BookingStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, []string{"booking_submitted"}, events.events)
}

func TestSubmit_FreeEmailDomainFlagged(t *testing.T) {
	repo := &fakeBookingRepo{}
	verifier := &stubVerifier{result: services.VerificationResult{Success: true}}
	svc := newBookingService(repo, verifier, &fakeEventRecorder{})

	created, err := svc.Submit(context.Background(), validBooking("a@gmail.com"), "token", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.False(t, created.IsBusinessEmail)
}

func TestSubmit_VerificationFailureStopsBeforeRateChecks(t *testing.T) {
	repo := &fakeBookingRepo{}
	verifier := &stubVerifier{result: services.VerificationResult{
		Success:    false,
		ErrorCodes: []string{"invalid-input-response"},
	}}
	svc := newBookingService(repo, verifier, &fakeEventRecorder{})

	_, err := svc.Submit(context.Background(), validBooking("a@biz.com"), "bad-token", "203.0.113.7", "Mozilla/5.0")

	require.ErrorIs(t, err, services.ErrVerificationFailed)
	assert.Equal(t, 1, verifier.calls)
	// no admission rule query was issued and nothing was persisted
	assert.Empty(t, repo.queried)
	assert.Empty(t, repo.inserted)
}

func TestSubmit_AdmissionRejectionIsTyped(t *testing.T) {
	now := time.Now()
	repo := &fakeBookingRepo{}
	repo.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-time.Hour*24))
	verifier := &stubVerifier{result: services.VerificationResult{Success: true}}
	svc := newBookingService(repo, verifier, &fakeEventRecorder{})

	_, err := svc.Submit(context.Background(), validBooking("a@biz.com"), "token", "203.0.113.7", "Mozilla/5.0")

	var rejected *services.AdmissionRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, services.ReasonDuplicate, rejected.Reason)
	assert.NotEmpty(t, rejected.Message)
	assert.Empty(t, repo.inserted)
}

func TestSubmit_InsertErrorPropagates(t *testing.T) {
	repo := &fakeBookingRepo{insertErr: errors.New("connection refused")}
	verifier := &stubVerifier{result: services.VerificationResult{Success: true}}
	svc := newBookingService(repo, verifier, &fakeEventRecorder{})

	_, err := svc.Submit(context.Background(), validBooking("a@biz.com"), "token", "203.0.113.7", "Mozilla/5.0")

	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrVerificationFailed)
}

func TestSubmit_AnalyticsFailureDoesNotFailSubmission(t *testing.T) {
	repo := &fakeBookingRepo{}
	verifier := &stubVerifier{result: services.VerificationResult{Success: true}}
	events := &fakeEventRecorder{err: errors.New("events table unavailable")}
	svc := newBookingService(repo, verifier, events)

	created, err := svc.Submit(context.Background(), validBooking("a@biz.com"), "token", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateBookingStatus_RejectsUnknownStatus(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newBookingService(repo, &stubVerifier{}, &fakeEventRecorder{})

	_, err := svc.UpdateBookingStatus(context.Background(), "bk-1", "archived")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestListBookings_RejectsUnknownStatusFilter(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newBookingService(repo, &stubVerifier{}, &fakeEventRecorder{})

	_, _, err := svc.ListBookings(context.Background(), "archived", 10, 0)
	assert.ErrorIs(t, err, models.ErrBadRequest)
}
