package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, sectionID *int64) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type sectionFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Section, error)
}

type attendanceTableResetter interface {
	ResetAttendance(ctx context.Context) error
}

// StudentRequest holds payload for creating or updating a student.
type StudentRequest struct {
	Code      string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	SectionID *int64 `json:"section_id"`
	Schedule  string `json:"schedule"`
}

// StudentService handles student CRUD plus the attendance-table reset.
type StudentService struct {
	repo      studentRepository
	sections  sectionFinder
	schema    attendanceTableResetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, sections sectionFinder, schema attendanceTableResetter, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, sections: sections, schema: schema, validator: validate, logger: logger}
}

// List returns students joined with section name/schedule, newest first.
// A nil sectionID returns the whole roster.
func (s *StudentService) List(ctx context.Context, sectionID *int64) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list students")
	}
	return students, nil
}

// Create registers a new student. The external identifier must be unique
// and the section, when given, must exist.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.IDResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.checkConstraints(ctx, req, 0); err != nil {
		return nil, err
	}
	student := &models.Student{Code: req.Code, Name: req.Name, SectionID: req.SectionID, Schedule: req.Schedule}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create student")
	}
	return &models.IDResult{ID: student.ID}, nil
}

// Update fully replaces the mutable fields of a student.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.IDResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.checkConstraints(ctx, req, id); err != nil {
		return nil, err
	}
	student := &models.Student{ID: id, Code: req.Code, Name: req.Name, SectionID: req.SectionID, Schedule: req.Schedule}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update student")
	}
	return &models.IDResult{ID: id}, nil
}

// Delete removes a student and, transactionally with it, every attendance
// mark the student owns.
func (s *StudentService) Delete(ctx context.Context, id int64) (*models.IDResult, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete student")
	}
	return &models.IDResult{ID: id}, nil
}

// ResetAttendance drops and recreates the attendance table only.
func (s *StudentService) ResetAttendance(ctx context.Context) error {
	if err := s.schema.ResetAttendance(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to reset attendance table")
	}
	s.logger.Info("attendance table reset")
	return nil
}

func (s *StudentService) checkConstraints(ctx context.Context, req StudentRequest, excludeID int64) error {
	exists, err := s.repo.ExistsByCode(ctx, req.Code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to validate student_id")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "student_id already used")
	}
	if req.SectionID != nil {
		if _, err := s.sections.FindByID(ctx, *req.SectionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrConflict, "section does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to validate section")
		}
	}
	return nil
}
