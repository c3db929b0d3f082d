package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
}

// SectionRequest holds payload for creating or updating a section.
type SectionRequest struct {
	Name     string `json:"name" validate:"required"`
	Schedule string `json:"schedule" validate:"required"`
}

// SectionService handles section CRUD use-cases.
type SectionService struct {
	repo      sectionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService constructs the section service.
func NewSectionService(repo sectionRepository, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, validator: validate, logger: logger}
}

// List returns all sections, newest first.
func (s *SectionService) List(ctx context.Context) ([]models.Section, error) {
	sections, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list sections")
	}
	return sections, nil
}

// Create registers a new section.
func (s *SectionService) Create(ctx context.Context, req SectionRequest) (*models.IDResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section := &models.Section{Name: req.Name, Schedule: req.Schedule}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create section")
	}
	return &models.IDResult{ID: section.ID}, nil
}

// Update fully replaces the mutable fields of a section.
func (s *SectionService) Update(ctx context.Context, id int64, req SectionRequest) (*models.IDResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	section := &models.Section{ID: id, Name: req.Name, Schedule: req.Schedule}
	if err := s.repo.Update(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update section")
	}
	return &models.IDResult{ID: id}, nil
}

// Delete removes a section. Students keep their stale section_id; the UI
// shows them as unassigned once the join comes back empty.
func (s *SectionService) Delete(ctx context.Context, id int64) (*models.IDResult, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete section")
	}
	return &models.IDResult{ID: id}, nil
}
