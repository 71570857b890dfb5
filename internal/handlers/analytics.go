package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/closerly/backend/internal/models"
	pkghttp "github.com/closerly/backend/pkg/http"
)

// AnalyticsService defines the interface for site analytics
type AnalyticsService interface {
	Record(ctx context.Context, eventType, pagePath, uaString string, metadata map[string]any) error
	Summary(ctx context.Context, window time.Duration) ([]models.EventTypeCount, error)
}

// AnalyticsHandler handles analytics event HTTP requests
type AnalyticsHandler struct {
	service AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// RecordEventRequest is a fire-and-forget frontend analytics beacon
type RecordEventRequest struct {
	EventType string         `json:"event_type" validate:"required,min=2,max=100"`
	PagePath  string         `json:"page_path" validate:"omitempty,max=500"`
	Metadata  map[string]any `json:"metadata"`
}

// RecordEvent ingests a single analytics event. Failures are swallowed
// after logging; the frontend never blocks on analytics.
func (h *AnalyticsHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req RecordEventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	_ = h.service.Record(r.Context(), req.EventType, req.PagePath, r.UserAgent(), req.Metadata)

	w.WriteHeader(http.StatusAccepted)
}

// Summary returns event counts by type over a window, default 7 days
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		if err := parseIntParam(d, &days, 1, 365); err != nil {
			pkghttp.WriteBadRequest(w, "invalid days parameter")
			return
		}
	}

	counts, err := h.service.Summary(r.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to load analytics summary")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"window_days": days,
		"counts":      counts,
	})
}
