package services

import (
	"context"
	"log/slog"

	"github.com/closerly/backend/internal/models"
)

// FormationRepository defines persistence for training resources
type FormationRepository interface {
	Create(ctx context.Context, f *models.Formation) (*models.Formation, error)
	GetByID(ctx context.Context, id string) (*models.Formation, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Formation, error)
	Update(ctx context.Context, f *models.Formation) (*models.Formation, error)
	Delete(ctx context.Context, id string) error
}

// FormationService manages the formations catalogue
type FormationService struct {
	repo   FormationRepository
	logger *slog.Logger
}

// NewFormationService creates a new FormationService
func NewFormationService(repo FormationRepository, logger *slog.Logger) *FormationService {
	return &FormationService{repo: repo, logger: logger}
}

// ListPublished returns published formations in display order
func (s *FormationService) ListPublished(ctx context.Context) ([]*models.Formation, error) {
	return s.repo.List(ctx, true)
}

// ListAll returns every formation, for the admin panel
func (s *FormationService) ListAll(ctx context.Context) ([]*models.Formation, error) {
	return s.repo.List(ctx, false)
}

func (s *FormationService) Get(ctx context.Context, id string) (*models.Formation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FormationService) Create(ctx context.Context, f *models.Formation) (*models.Formation, error) {
	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("formation created", slog.String("formation_id", created.ID))
	return created, nil
}

func (s *FormationService) Update(ctx context.Context, f *models.Formation) (*models.Formation, error) {
	return s.repo.Update(ctx, f)
}

func (s *FormationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("formation deleted", slog.String("formation_id", id))
	return nil
}
