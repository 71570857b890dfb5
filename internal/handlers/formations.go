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

// FormationService defines the interface for formation catalog logic
type FormationService interface {
	ListPublished(ctx context.Context) ([]*models.Formation, error)
	ListAll(ctx context.Context) ([]*models.Formation, error)
	Get(ctx context.Context, id string) (*models.Formation, error)
	Create(ctx context.Context, f *models.Formation) (*models.Formation, error)
	Update(ctx context.Context, f *models.Formation) (*models.Formation, error)
	Delete(ctx context.Context, id string) error
}

// FormationHandler handles formation catalog HTTP requests
type FormationHandler struct {
	service FormationService
}

// NewFormationHandler creates a new FormationHandler
func NewFormationHandler(service FormationService) *FormationHandler {
	return &FormationHandler{service: service}
}

// FormationRequest creates or updates a catalog entry
type FormationRequest struct {
	Title           string  `json:"title" validate:"required,min=2,max=200"`
	Description     *string `json:"description"`
	FileURL         string  `json:"file_url" validate:"required,url"`
	FileType        *string `json:"file_type"`
	ThumbnailURL    *string `json:"thumbnail_url" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=1,lte=6000"`
	OrderIndex      int     `json:"order_index" validate:"gte=0"`
	IsPublished     bool    `json:"is_published"`
}

// FormationResponse mirrors the persisted record
type FormationResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	FileURL         string    `json:"file_url"`
	FileType        *string   `json:"file_type,omitempty"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	OrderIndex      int       `json:"order_index"`
	IsPublished     bool      `json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func formationToResponse(f *models.Formation) *FormationResponse {
	return &FormationResponse{
		ID:              f.ID,
		Title:           f.Title,
		Description:     f.Description,
		FileURL:         f.FileURL,
		FileType:        f.FileType,
		ThumbnailURL:    f.ThumbnailURL,
		DurationMinutes: f.DurationMinutes,
		OrderIndex:      f.OrderIndex,
		IsPublished:     f.IsPublished,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func (req *FormationRequest) toModel() *models.Formation {
	return &models.Formation{
		Title:           req.Title,
		Description:     req.Description,
		FileURL:         req.FileURL,
		FileType:        req.FileType,
		ThumbnailURL:    req.ThumbnailURL,
		DurationMinutes: req.DurationMinutes,
		OrderIndex:      req.OrderIndex,
		IsPublished:     req.IsPublished,
	}
}

// ListPublished returns published formations for the public site
func (h *FormationHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	formations, err := h.service.ListPublished(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to list formations")
		return
	}
	writeFormationList(w, formations)
}

// ListAll returns every formation, including drafts, for the admin panel
func (h *FormationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	formations, err := h.service.ListAll(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to list formations")
		return
	}
	writeFormationList(w, formations)
}

func writeFormationList(w http.ResponseWriter, formations []*models.Formation) {
	resp := make([]*FormationResponse, 0, len(formations))
	for _, f := range formations {
		resp = append(resp, formationToResponse(f))
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"formations": resp})
}

// CreateFormation adds a catalog entry
func (h *FormationHandler) CreateFormation(w http.ResponseWriter, r *http.Request) {
	var req FormationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), req.toModel())
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to create formation")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, formationToResponse(created))
}

// UpdateFormation replaces a catalog entry's fields
func (h *FormationHandler) UpdateFormation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req FormationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	formation := req.toModel()
	formation.ID = id

	updated, err := h.service.Update(r.Context(), formation)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "formation not found")
			return
		}
		pkghttp.WriteInternalError(w, "failed to update formation")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, formationToResponse(updated))
}

// DeleteFormation removes a catalog entry
func (h *FormationHandler) DeleteFormation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "formation not found")
			return
		}
		pkghttp.WriteInternalError(w, "failed to delete formation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
