package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/closerly/backend/internal/models"
	pkghttp "github.com/closerly/backend/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ContentService defines the interface for editable site content
type ContentService interface {
	GetSection(ctx context.Context, sectionID string) (*models.SiteContent, error)
	ListSections(ctx context.Context) ([]*models.SiteContent, error)
	UpsertSection(ctx context.Context, content *models.SiteContent) (*models.SiteContent, error)
}

// ContentHandler handles site content HTTP requests
type ContentHandler struct {
	service ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// UpsertContentRequest replaces a content section's translations
type UpsertContentRequest struct {
	ContentFR *string `json:"content_fr"`
	ContentEN *string `json:"content_en"`
	ContentAR *string `json:"content_ar"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
}

// ContentResponse mirrors the persisted section
type ContentResponse struct {
	SectionID string    `json:"section_id"`
	ContentFR *string   `json:"content_fr,omitempty"`
	ContentEN *string   `json:"content_en,omitempty"`
	ContentAR *string   `json:"content_ar,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func contentToResponse(c *models.SiteContent) *ContentResponse {
	return &ContentResponse{
		SectionID: c.SectionID,
		ContentFR: c.ContentFR,
		ContentEN: c.ContentEN,
		ContentAR: c.ContentAR,
		ImageURL:  c.ImageURL,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListSections returns every editable section
func (h *ContentHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.ListSections(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to list content sections")
		return
	}

	resp := make([]*ContentResponse, 0, len(sections))
	for _, s := range sections {
		resp = append(resp, contentToResponse(s))
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"sections": resp})
}

// GetSection returns one editable section by its identifier
func (h *ContentHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "section")

	section, err := h.service.GetSection(r.Context(), sectionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "content section not found")
			return
		}
		pkghttp.WriteInternalError(w, "failed to load content section")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, contentToResponse(section))
}

// UpsertSection creates or replaces a section's translations
func (h *ContentHandler) UpsertSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "section")

	var req UpsertContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.service.UpsertSection(r.Context(), &models.SiteContent{
		SectionID: sectionID,
		ContentFR: req.ContentFR,
		ContentEN: req.ContentEN,
		ContentAR: req.ContentAR,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to save content section")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, contentToResponse(updated))
}
