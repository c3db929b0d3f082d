package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type attendanceRepository interface {
	MarksByMonth(ctx context.Context, month, year int, sectionID *int64) ([]models.MarkDetail, error)
	MarksByRange(ctx context.Context, start, end string, sectionID *int64) ([]models.MarkDetail, error)
	Mark(ctx context.Context, studentID int64, date string, status models.Status) (*models.MarkResult, error)
}

type gridStudentLister interface {
	List(ctx context.Context, sectionID *int64) ([]models.StudentDetail, error)
}

// MarkRequest is one ledger write: a student, a day, and either a real
// status or the empty string to clear the mark.
type MarkRequest struct {
	StudentID int64  `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status"`
}

// AttendanceService is the ledger facade: validated writes plus the two
// read shapes the attendance page uses.
type AttendanceService struct {
	repo      attendanceRepository
	students  gridStudentLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, students gridStudentLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
}

// Get returns the full month grid: one row per student per calendar day,
// with a nil status where no mark exists. The attendance page renders
// explicit "unmarked" cells, so gaps must be present, not skipped.
func (s *AttendanceService) Get(ctx context.Context, month, year int, sectionID *int64) ([]models.GridRow, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}

	students, err := s.students.List(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list students")
	}
	marks, err := s.repo.MarksByMonth(ctx, month, year, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load marks")
	}

	type cellKey struct {
		studentID int64
		date      string
	}
	statusByCell := make(map[cellKey]models.Status, len(marks))
	for _, m := range marks {
		statusByCell[cellKey{m.StudentID, m.Date}] = m.Status
	}

	days := daysInMonth(month, year)
	rows := make([]models.GridRow, 0, len(students)*days)
	for _, student := range students {
		for day := 1; day <= days; day++ {
			date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			row := models.GridRow{
				StudentID:   student.ID,
				StudentCode: student.Code,
				StudentName: student.Name,
				SectionID:   student.SectionID,
				Date:        date,
			}
			if status, ok := statusByCell[cellKey{student.ID, date}]; ok {
				st := status
				row.Status = &st
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// GetByRange returns only the marks that exist inside the inclusive
// interval, joined with student info. No synthetic unmarked rows here;
// callers blending this with Get normalize themselves.
func (s *AttendanceService) GetByRange(ctx context.Context, start, end string, sectionID *int64) ([]models.MarkDetail, error) {
	startDay, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start must be a YYYY-MM-DD date")
	}
	endDay, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must be a YYYY-MM-DD date")
	}
	if endDay.Before(startDay) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must not precede start")
	}

	marks, err := s.repo.MarksByRange(ctx, start, end, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load marks")
	}
	return marks, nil
}

// Mark validates and applies one ledger write, then drops any cached
// dashboard aggregates that just went stale.
func (s *AttendanceService) Mark(ctx context.Context, req MarkRequest) (*models.MarkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	status := models.Status(req.Status)
	if status != models.StatusUnmarked && !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "")
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be a YYYY-MM-DD date")
	}

	result, err := s.repo.Mark(ctx, req.StudentID, req.Date, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to mark attendance")
	}

	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}

	return result, nil
}

func validateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "year is required")
	}
	return nil
}

// daysInMonth leans on time.Date normalization: day zero of the next month
// is the last day of this one.
func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
