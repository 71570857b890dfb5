package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/closerly/backend/internal/models"
	"github.com/closerly/backend/internal/services"
	"github.com/stretchr/testify/assert"
)

// fakeAdmissionStore is an in-memory booking history. Counting semantics
// mirror the SQL queries: created_at >= since.
type fakeAdmissionStore struct {
	bookings []*models.Booking

	emailErr error
	ipErr    error
	dupErr   error
	totalErr error

	queried []string
}

func (f *fakeAdmissionStore) add(email, ip, status string, createdAt time.Time) {
	f.bookings = append(f.bookings, &models.Booking{
		ID:        "bk-" + createdAt.Format("150405.000"),
		Email:     email,
		IPAddress: ip,
		Status:    status,
		CreatedAt: createdAt,
	})
}

func (f *fakeAdmissionStore) CountRecentByEmail(ctx context.Context, email string, since time.Time) (int, error) {
	f.queried = append(f.queried, "email")
	if f.emailErr != nil {
		return 0, f.emailErr
	}
	count := 0
	for _, b := range f.bookings {
		if b.Email == email && !b.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAdmissionStore) CountRecentByIP(ctx context.Context, ipAddress string, since time.Time) (int, error) {
	f.queried = append(f.queried, "ip")
	if f.ipErr != nil {
		return 0, f.ipErr
	}
	count := 0
	for _, b := range f.bookings {
		if b.IPAddress == ipAddress && !b.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAdmissionStore) FindActiveByEmail(ctx context.Context, email, excludeStatus string, since time.Time) (*models.Booking, error) {
	f.queried = append(f.queried, "duplicate")
	if f.dupErr != nil {
		return nil, f.dupErr
	}
	for _, b := range f.bookings {
		if b.Email == email && b.Status != excludeStatus && !b.CreatedAt.Before(since) {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeAdmissionStore) CountRecentTotal(ctx context.Context, since time.Time) (int, error) {
	f.queried = append(f.queried, "total")
	if f.totalErr != nil {
		return 0, f.totalErr
	}
	count := 0
	for _, b := range f.bookings {
		if !b.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func newAdmissionService(store *fakeAdmissionStore) *services.AdmissionService {
	return services.NewAdmissionService(store, services.DefaultAdmissionConfig(), testLogger())
}

func TestAdmission_NoHistoryAllows(t *testing.T) {
	store := &fakeAdmissionStore{}
	svc := newAdmissionService(store)

	decision := svc.Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", time.Now())

	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
	assert.Equal(t, []string{"email", "ip", "duplicate", "total"}, store.queried)
}

func TestAdmission_EmailBurstLimit(t *testing.T) {
	now := time.Now()
	store := &fakeAdmissionStore{}
	// 3 prior attempts within the last hour, different addresses
	store.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-10*time.Minute))
	store.add("a@biz.com", "10.0.0.2", models.BookingStatusPending, now.Add(-20*time.Minute))
	store.add("a@biz.com", "10.0.0.3", models.BookingStatusCancelled, now.Add(-30*time.Minute))

	decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "en", now)

	assert.False(t, decision.Allowed)
	assert.Equal(t, services.ReasonEmailRate, decision.Reason)
	assert.Contains(t, decision.Message, "email")
	// short-circuits before the remaining rules
	assert.Equal(t, []string{"email"}, store.queried)
}

func TestAdmission_EmailBurstIgnoresOldAttempts(t *testing.T) {
	now := time.Now()
	store := &fakeAdmissionStore{}
	store.add("a@biz.com", "10.0.0.1", models.BookingStatusCancelled, now.Add(-2*time.Hour))
	store.add("a@biz.com", "10.0.0.1", models.BookingStatusCancelled, now.Add(-3*time.Hour))
	store.add("a@biz.com", "10.0.0.1", models.BookingStatusCancelled, now.Add(-4*time.Hour))

	decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)

	assert.True(t, decision.Allowed)
}

func TestAdmission_AddressBurstLimit(t *testing.T) {
	now := time.Now()
	store := &fakeAdmissionStore{}
	// 5 prior attempts from one address, all different emails
	for i := 0; i < 5; i++ {
		store.add("u"+string(rune('a'+i))+"@biz.com", "203.0.113.7", models.BookingStatusPending,
			now.Add(-time.Duration(i+1)*time.Minute))
	}

	decision := newAdmissionService(store).Check(context.Background(), "fresh@biz.com", "203.0.113.7", "fr", now)

	assert.False(t, decision.Allowed)
	assert.Equal(t, services.ReasonIPRate, decision.Reason)
	assert.Equal(t, []string{"email", "ip"}, store.queried)
}

func TestAdmission_CooldownBlocksActiveBooking(t *testing.T) {
	now := time.Now()
	store := &fakeAdmissionStore{}
	store.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-3*24*time.Hour))

	decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)

	assert.False(t, decision.Allowed)
	assert.Equal(t, services.ReasonDuplicate, decision.Reason)
}

func TestAdmission_CancelledBookingClearsCooldown(t *testing.T) {
	now := time.Now()
	store := &fakeAdmissionStore{}
	store.add("a@biz.com", "10.0.0.1", models.BookingStatusCancelled, now.Add(-3*24*time.Hour))

	decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)

	assert.True(t, decision.Allowed)
}

func TestAdmission_CooldownBoundary(t *testing.T) {
	now := time.Now()

	t.Run("booking older than seven days does not block", func(t *testing.T) {
		store := &fakeAdmissionStore{}
		store.add("a@biz.com", "10.0.0.1", models.BookingStatusConfirmed, now.Add(-7*24*time.Hour-time.Second))

		decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)
		assert.True(t, decision.Allowed)
	})

	t.Run("booking inside seven days blocks", func(t *testing.T) {
		store := &fakeAdmissionStore{}
		store.add("a@biz.com", "10.0.0.1", models.BookingStatusConfirmed, now.Add(-6*24*time.Hour-23*time.Hour))

		decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)
		assert.False(t, decision.Allowed)
		assert.Equal(t, services.ReasonDuplicate, decision.Reason)
	})
}

func TestAdmission_GlobalBurstBreaker(t *testing.T) {
	now := time.Now()
	store := &fakeAdmissionStore{}
	// 10 attempts from unrelated identities within the last 10 minutes
	for i := 0; i < 10; i++ {
		store.add("u"+string(rune('a'+i))+"@biz.com", "10.0.0."+string(rune('1'+i)),
			models.BookingStatusPending, now.Add(-time.Duration(i)*30*time.Second))
	}

	decision := newAdmissionService(store).Check(context.Background(), "fresh@biz.com", "203.0.113.99", "fr", now)

	assert.False(t, decision.Allowed)
	assert.Equal(t, services.ReasonGlobalRate, decision.Reason)
	assert.Equal(t, []string{"email", "ip", "duplicate", "total"}, store.queried)
}

func TestAdmission_RuleFailsOpenOnStoreError(t *testing.T) {
	now := time.Now()
	storeErr := errors.New("connection reset")

	t.Run("single failing rule is skipped", func(t *testing.T) {
		store := &fakeAdmissionStore{emailErr: storeErr}
		decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)
		assert.True(t, decision.Allowed)
	})

	t.Run("all rules failing still admits", func(t *testing.T) {
		store := &fakeAdmissionStore{emailErr: storeErr, ipErr: storeErr, dupErr: storeErr, totalErr: storeErr}
		decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)
		assert.True(t, decision.Allowed)
	})

	t.Run("later rule still blocks when earlier rule fails", func(t *testing.T) {
		store := &fakeAdmissionStore{emailErr: storeErr}
		store.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-time.Hour*24))

		decision := newAdmissionService(store).Check(context.Background(), "a@biz.com", "203.0.113.7", "fr", now)
		assert.False(t, decision.Allowed)
		assert.Equal(t, services.ReasonDuplicate, decision.Reason)
	})
}

func TestAdmission_MessagesAreLocalized(t *testing.T) {
	now := time.Now()

	makeBlockedStore := func() *fakeAdmissionStore {
		store := &fakeAdmissionStore{}
		store.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-time.Minute))
		store.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-2*time.Minute))
		store.add("a@biz.com", "10.0.0.1", models.BookingStatusPending, now.Add(-3*time.Minute))
		return store
	}

	fr := newAdmissionService(makeBlockedStore()).Check(context.Background(), "a@biz.com", "1.2.3.4", "fr", now)
	en := newAdmissionService(makeBlockedStore()).Check(context.Background(), "a@biz.com", "1.2.3.4", "en", now)

	assert.NotEmpty(t, fr.Message)
	assert.NotEmpty(t, en.Message)
	assert.NotEqual(t, fr.Message, en.Message)
}
