package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/closerly/backend/internal/models"
	pkghttp "github.com/closerly/backend/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.NotEmpty(t, resp.Error, "Error message should not be empty")
	return resp
}

// MockBookingService implements BookingService for testing
type MockBookingService struct {
	SubmitFunc              func(ctx context.Context, booking *models.Booking, token, clientIP, userAgent string) (*models.Booking, error)
	GetBookingFunc          func(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsFunc        func(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error)
	UpdateBookingStatusFunc func(ctx context.Context, id, status string) (*models.Booking, error)
}

func (m *MockBookingService) Submit(ctx context.Context, booking *models.Booking, token, clientIP, userAgent string) (*models.Booking, error) {
	if m.SubmitFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SubmitFunc(ctx, booking, token, clientIP, userAgent)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if m.GetBookingFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetBookingFunc(ctx, id)
}

func (m *MockBookingService) ListBookings(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error) {
	if m.ListBookingsFunc == nil {
		return nil, 0, nil
	}
	return m.ListBookingsFunc(ctx, status, limit, offset)
}

func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	if m.UpdateBookingStatusFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateBookingStatusFunc(ctx, id, status)
}

// validBookingPayload returns a payload that passes every validation rule
func validBookingPayload() BookingPayload {
	preferred := time.Now().Add(72 * time.Hour)
	return BookingPayload{
		FirstName:           "Sophie",
		LastName:            "Martin",
		JobTitle:            "Head of Sales",
		CompanyName:         "Acme SARL",
		Email:               "sophie@acme.fr",
		Phone:               "+33 6 12 34 56 78",
		Industry:            "saas",
		AnnualRevenue:       "500K-1M",
		SalesTeamSize:       12,
		CurrentChannels:     []string{"outbound", "linkedin"},
		MainChallenge:       "Our pipeline stalls between demo and close",
		CallObjective:       "train_closers",
		HasUsedAICRM:        "no",
		Urgency:             "within_month",
		PreferredDate:       &preferred,
		Timezone:            "Europe/Paris",
		PreferredPlatform:   "google_meet",
		CommitmentConfirmed: true,
		Language:            "fr",
	}
}
