package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/closerly/backend/internal/i18n"
	"github.com/closerly/backend/internal/models"
	"github.com/closerly/backend/internal/services"
	pkghttp "github.com/closerly/backend/pkg/http"
	"github.com/go-chi/chi/v5"
)

// BookingService defines the interface for booking business logic
type BookingService interface {
	Submit(ctx context.Context, booking *models.Booking, token, clientIP, userAgent string) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, status string, limit, offset int) ([]*models.Booking, int, error)
	UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error)
}

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Request/Response DTOs

// BookingPayload is the form data submitted by the booking flow. Field rules
// mirror the client-side form validation; the server revalidates everything.
type BookingPayload struct {
	FirstName           string     `json:"firstName" validate:"required,min=2,max=50"`
	LastName            string     `json:"lastName" validate:"required,min=2,max=50"`
	JobTitle            string     `json:"jobTitle" validate:"required,min=2,max=100"`
	CompanyName         string     `json:"companyName" validate:"required,min=2,max=100"`
	CompanyWebsite      string     `json:"companyWebsite" validate:"omitempty,url"`
	CompanyLinkedin     string     `json:"companyLinkedin" validate:"omitempty,url"`
	Email               string     `json:"email" validate:"required,email"`
	Phone               string     `json:"phone" validate:"required,min=10,phone"`
	Industry            string     `json:"industry" validate:"required"`
	AnnualRevenue       string     `json:"annualRevenue" validate:"required,oneof=<100K 100K-500K 500K-1M >1M"`
	SalesTeamSize       int        `json:"salesTeamSize" validate:"gte=0,lte=10000"`
	CurrentChannels     []string   `json:"currentChannels" validate:"required,min=1,dive,required"`
	MainChallenge       string     `json:"mainChallenge" validate:"required,min=10,max=500"`
	CallObjective       string     `json:"callObjective" validate:"required,oneof=automate train_closers rethink_pipeline other"`
	HasUsedAICRM        string     `json:"hasUsedAiCrm" validate:"required,oneof=yes no in_progress"`
	Urgency             string     `json:"urgency" validate:"required,oneof=not_priority within_month this_week"`
	PreferredDate       *time.Time `json:"preferredDate" validate:"required"`
	Timezone            string     `json:"timezone" validate:"required"`
	PreferredPlatform   string     `json:"preferredPlatform" validate:"required,oneof=zoom google_meet whatsapp"`
	CommitmentConfirmed bool       `json:"commitmentConfirmed" validate:"eq=true"`
	Language            string     `json:"language" validate:"omitempty,oneof=fr en ar"`
}

// SubmitBookingRequest is the submission endpoint's body
type SubmitBookingRequest struct {
	BookingData    BookingPayload `json:"bookingData"`
	TurnstileToken string         `json:"turnstileToken" validate:"required"`
}

// UpdateBookingStatusRequest transitions a booking's lifecycle status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// BookingResponse mirrors the persisted record
type BookingResponse struct {
	ID                  string     `json:"id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	JobTitle            string     `json:"job_title"`
	CompanyName         string     `json:"company_name"`
	CompanyWebsite      *string    `json:"company_website,omitempty"`
	CompanyLinkedin     *string    `json:"company_linkedin,omitempty"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Industry            string     `json:"industry"`
	AnnualRevenue       string     `json:"annual_revenue"`
	SalesTeamSize       int        `json:"sales_team_size"`
	CurrentChannels     []string   `json:"current_channels"`
	MainChallenge       string     `json:"main_challenge"`
	CallObjective       string     `json:"call_objective"`
	HasUsedAICRM        string     `json:"has_used_ai_crm"`
	Urgency             string     `json:"urgency"`
	PreferredDate       *time.Time `json:"preferred_date,omitempty"`
	Timezone            string     `json:"timezone"`
	PreferredPlatform   string     `json:"preferred_platform"`
	CommitmentConfirmed bool       `json:"commitment_confirmed"`
	Language            string     `json:"language"`
	IsBusinessEmail     bool       `json:"is_business_email"`
	IPAddress           string     `json:"ip_address"`
	UserAgent           string     `json:"user_agent"`
	Status              string     `json:"status"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// SubmitBookingResponse is returned on an accepted submission
type SubmitBookingResponse struct {
	Success bool             `json:"success"`
	Data    *BookingResponse `json:"data"`
}

// ListBookingsResponse is the admin booking listing
type ListBookingsResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

func (p *BookingPayload) toModel() *models.Booking {
	b := &models.Booking{
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		JobTitle:            p.JobTitle,
		CompanyName:         p.CompanyName,
		Email:               p.Email,
		Phone:               p.Phone,
		Industry:            p.Industry,
		AnnualRevenue:       p.AnnualRevenue,
		SalesTeamSize:       p.SalesTeamSize,
		CurrentChannels:     p.CurrentChannels,
		MainChallenge:       p.MainChallenge,
		CallObjective:       p.CallObjective,
		HasUsedAICRM:        p.HasUsedAICRM,
		Urgency:             p.Urgency,
		PreferredDate:       p.PreferredDate,
		Timezone:            p.Timezone,
		PreferredPlatform:   p.PreferredPlatform,
		CommitmentConfirmed: p.CommitmentConfirmed,
		Language:            i18n.Normalize(p.Language),
	}
	if p.CompanyWebsite != "" {
		b.CompanyWebsite = &p.CompanyWebsite
	}
	if p.CompanyLinkedin != "" {
		b.CompanyLinkedin = &p.CompanyLinkedin
	}
	return b
}

func bookingToResponse(b *models.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                  b.ID,
		FirstName:           b.FirstName,
		LastName:            b.LastName,
		JobTitle:            b.JobTitle,
		CompanyName:         b.CompanyName,
		CompanyWebsite:      b.CompanyWebsite,
		CompanyLinkedin:     b.CompanyLinkedin,
		Email:               b.Email,
		Phone:               b.Phone,
		Industry:            b.Industry,
		AnnualRevenue:       b.AnnualRevenue,
		SalesTeamSize:       b.SalesTeamSize,
		CurrentChannels:     b.CurrentChannels,
		MainChallenge:       b.MainChallenge,
		CallObjective:       b.CallObjective,
		HasUsedAICRM:        b.HasUsedAICRM,
		Urgency:             b.Urgency,
		PreferredDate:       b.PreferredDate,
		Timezone:            b.Timezone,
		PreferredPlatform:   b.PreferredPlatform,
		CommitmentConfirmed: b.CommitmentConfirmed,
		Language:            b.Language,
		IsBusinessEmail:     b.IsBusinessEmail,
		IPAddress:           b.IPAddress,
		UserAgent:           b.UserAgent,
		Status:              b.Status,
		ConfirmedAt:         b.ConfirmedAt,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// SubmitBooking handles the public booking submission. Challenge
// verification failures map to 400, admission rejections to 429 with a
// machine-readable reason, store failures to 500.
func (h *BookingHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	var req SubmitBookingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, i18n.T(i18n.LangFR, i18n.MsgInvalidRequest))
		return
	}

	lang := i18n.Normalize(req.BookingData.Language)

	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	if req.BookingData.PreferredDate != nil && !req.BookingData.PreferredDate.After(time.Now()) {
		pkghttp.WriteBadRequest(w, "validation failed: preferredDate: must be in the future")
		return
	}

	clientIP := pkghttp.ResolveClientIP(r)
	userAgent := r.UserAgent()

	created, err := h.service.Submit(r.Context(), req.BookingData.toModel(), req.TurnstileToken, clientIP, userAgent)
	if err != nil {
		var rejected *services.AdmissionRejectedError
		switch {
		case errors.Is(err, services.ErrVerificationFailed):
			pkghttp.WriteBadRequest(w, i18n.T(lang, i18n.MsgVerificationFailed))
		case errors.As(err, &rejected):
			pkghttp.WriteTooManyRequests(w, rejected.Message, string(rejected.Reason))
		default:
			pkghttp.WriteInternalError(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SubmitBookingResponse{
		Success: true,
		Data:    bookingToResponse(created),
	})
}

// ListBookings returns a page of bookings for the admin panel
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if err := parseIntParam(l, &limit, 1, 100); err != nil {
			pkghttp.WriteBadRequest(w, "invalid limit parameter")
			return
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if err := parseIntParam(o, &offset, 0, 1<<30); err != nil {
			pkghttp.WriteBadRequest(w, "invalid offset parameter")
			return
		}
	}
	status := r.URL.Query().Get("status")

	bookings, total, err := h.service.ListBookings(r.Context(), status, limit, offset)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "invalid status filter")
			return
		}
		pkghttp.WriteInternalError(w, "failed to list bookings")
		return
	}

	resp := ListBookingsResponse{Bookings: make([]*BookingResponse, 0, len(bookings)), Total: total}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, bookingToResponse(b))
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// GetBooking returns a single booking for the admin panel
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "booking not found")
			return
		}
		pkghttp.WriteInternalError(w, "failed to load booking")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, bookingToResponse(booking))
}

// UpdateBookingStatus transitions a booking's status. Cancelling a booking
// lifts the 7-day cooldown for its email.
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "booking not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "invalid status")
		default:
			pkghttp.WriteInternalError(w, "failed to update booking status")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, bookingToResponse(booking))
}
