package services

import (
	"context"
	"log/slog"

	"github.com/closerly/backend/internal/models"
)

// ContentRepository defines persistence for multilingual site copy
type ContentRepository interface {
	GetBySection(ctx context.Context, sectionID string) (*models.SiteContent, error)
	List(ctx context.Context) ([]*models.SiteContent, error)
	Upsert(ctx context.Context, content *models.SiteContent) (*models.SiteContent, error)
}

// ContentService manages site copy sections
type ContentService struct {
	repo   ContentRepository
	logger *slog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(repo ContentRepository, logger *slog.Logger) *ContentService {
	return &ContentService{repo: repo, logger: logger}
}

func (s *ContentService) GetSection(ctx context.Context, sectionID string) (*models.SiteContent, error) {
	return s.repo.GetBySection(ctx, sectionID)
}

func (s *ContentService) ListSections(ctx context.Context) ([]*models.SiteContent, error) {
	return s.repo.List(ctx)
}

// UpsertSection creates or replaces the copy for a section
func (s *ContentService) UpsertSection(ctx context.Context, content *models.SiteContent) (*models.SiteContent, error) {
	if content.SectionID == "" {
		return nil, models.ErrBadRequest
	}
	updated, err := s.repo.Upsert(ctx, content)
	if err != nil {
		return nil, err
	}
	s.logger.Info("site content updated", slog.String("section_id", updated.SectionID))
	return updated, nil
}
