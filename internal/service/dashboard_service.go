package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type statsRepository interface {
	CountStudents(ctx context.Context, sectionID *int64) (int, error)
	CountSections(ctx context.Context) (int, error)
	StatusCountsByDay(ctx context.Context, month, year int, sectionID *int64) ([]models.DayStatusCount, error)
}

// DashboardService computes the monthly attendance aggregates behind the
// dashboard charts.
type DashboardService struct {
	repo   statsRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo statsRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger}
}

// Stats aggregates one month of marks. The second return value reports
// whether the payload came from cache.
//
// Percentage semantics: the daily series relates each day's counts to the
// (section-filtered) student count — at most one mark per student per day,
// so the three rates of a day can never sum past 100. Month totals count
// marks, so they are normalized by student-days (students x calendar days)
// to keep the same bound. Zero students means every rate is exactly 0.
func (s *DashboardService) Stats(ctx context.Context, month, year int, sectionID *int64) (*models.StatsReport, bool, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, false, err
	}

	cacheKey := statsCacheKey(month, year, sectionID)
	if s.cache.Enabled() {
		var cached models.StatsReport
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	totalStudents, err := s.repo.CountStudents(ctx, sectionID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to count students")
	}
	totalSections, err := s.repo.CountSections(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to count sections")
	}
	dayCounts, err := s.repo.StatusCountsByDay(ctx, month, year, sectionID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to aggregate marks")
	}

	countsByDate := make(map[string]models.DayStatusCount, len(dayCounts))
	for _, dc := range dayCounts {
		countsByDate[dc.Date] = dc
	}

	days := daysInMonth(month, year)
	series := make([]models.DailyStat, 0, days)
	totals := models.StatTotals{TotalStudents: totalStudents, TotalSections: totalSections}
	for day := 1; day <= days; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		dc := countsByDate[date]
		stat := models.DailyStat{
			Date:       date,
			Present:    dc.Present,
			Late:       dc.Late,
			Absent:     dc.Absent,
			PresentPct: ratio(dc.Present, totalStudents),
			LatePct:    ratio(dc.Late, totalStudents),
			AbsentPct:  ratio(dc.Absent, totalStudents),
		}
		series = append(series, stat)
		totals.TotalPresent += dc.Present
		totals.TotalLate += dc.Late
		totals.TotalAbsent += dc.Absent
	}

	studentDays := totalStudents * days
	totals.PresentPct = ratio(totals.TotalPresent, studentDays)
	totals.LatePct = ratio(totals.TotalLate, studentDays)
	totals.AbsentPct = ratio(totals.TotalAbsent, studentDays)

	report := &models.StatsReport{Stats: totals, DailySeries: series}

	if err := s.cache.Set(ctx, cacheKey, report, 0); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}

	return report, false, nil
}

// ratio returns count/total as a percentage, full precision, and 0 when
// the denominator is empty. Rounding is the consumer's concern.
func ratio(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func statsCacheKey(month, year int, sectionID *int64) string {
	if sectionID != nil {
		return fmt.Sprintf("dashboard:stats:%02d-%04d:section:%d", month, year, *sectionID)
	}
	return fmt.Sprintf("dashboard:stats:%02d-%04d:all", month, year)
}
