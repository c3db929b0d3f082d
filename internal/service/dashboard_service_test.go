package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-api/internal/models"
)

type mockStatsRepo struct {
	students   int
	sections   int
	dayCounts  []models.DayStatusCount
	queryCalls int
}

func (m *mockStatsRepo) CountStudents(ctx context.Context, sectionID *int64) (int, error) {
	m.queryCalls++
	return m.students, nil
}

func (m *mockStatsRepo) CountSections(ctx context.Context) (int, error) {
	return m.sections, nil
}

func (m *mockStatsRepo) StatusCountsByDay(ctx context.Context, month, year int, sectionID *int64) ([]models.DayStatusCount, error) {
	return m.dayCounts, nil
}

func TestDashboardServiceStatsScaffoldsFullMonth(t *testing.T) {
	repo := &mockStatsRepo{
		students: 10,
		sections: 3,
		dayCounts: []models.DayStatusCount{
			{Date: "2024-03-04", Present: 7, Late: 2, Absent: 1},
		},
	}
	svc := NewDashboardService(repo, nil, nil)

	report, cacheHit, err := svc.Stats(context.Background(), 3, 2024, nil)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, report.DailySeries, 31)

	assert.Equal(t, "2024-03-01", report.DailySeries[0].Date)
	assert.Zero(t, report.DailySeries[0].Present)

	day4 := report.DailySeries[3]
	assert.Equal(t, 7, day4.Present)
	assert.InDelta(t, 70.0, day4.PresentPct, 0.001)
	assert.InDelta(t, 20.0, day4.LatePct, 0.001)
	assert.InDelta(t, 10.0, day4.AbsentPct, 0.001)

	assert.Equal(t, 10, report.Stats.TotalStudents)
	assert.Equal(t, 3, report.Stats.TotalSections)
	assert.Equal(t, 7, report.Stats.TotalPresent)
	// Month totals normalize by student-days: 10 students x 31 days.
	assert.InDelta(t, 7.0/310.0*100, report.Stats.PresentPct, 0.001)
}

func TestDashboardServiceStatsMonthRatesBounded(t *testing.T) {
	// Every student marked every day; the three rates must sum to 100.
	counts := make([]models.DayStatusCount, 0, 30)
	for day := 1; day <= 30; day++ {
		counts = append(counts, models.DayStatusCount{
			Date:    time.Date(2024, 4, day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout),
			Present: 6, Late: 3, Absent: 1,
		})
	}
	repo := &mockStatsRepo{students: 10, sections: 2, dayCounts: counts}
	svc := NewDashboardService(repo, nil, nil)

	report, _, err := svc.Stats(context.Background(), 4, 2024, nil)
	require.NoError(t, err)
	sum := report.Stats.PresentPct + report.Stats.LatePct + report.Stats.AbsentPct
	assert.InDelta(t, 100.0, sum, 0.001)
	assert.InDelta(t, 60.0, report.Stats.PresentPct, 0.001)
}

func TestDashboardServiceStatsZeroStudents(t *testing.T) {
	repo := &mockStatsRepo{students: 0, sections: 0}
	svc := NewDashboardService(repo, nil, nil)

	report, _, err := svc.Stats(context.Background(), 3, 2024, nil)
	require.NoError(t, err)
	assert.Zero(t, report.Stats.PresentPct)
	assert.Zero(t, report.DailySeries[0].PresentPct)
}

func TestDashboardServiceStatsRejectsBadMonth(t *testing.T) {
	svc := NewDashboardService(&mockStatsRepo{}, nil, nil)
	_, _, err := svc.Stats(context.Background(), 0, 2024, nil)
	require.Error(t, err)
}

func TestDashboardServiceStatsUsesCache(t *testing.T) {
	repo := &mockStatsRepo{students: 5, sections: 1}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, cache, nil)

	_, hit, err := svc.Stats(context.Background(), 3, 2024, nil)
	require.NoError(t, err)
	assert.False(t, hit)

	report, hit, err := svc.Stats(context.Background(), 3, 2024, nil)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 5, report.Stats.TotalStudents)
	assert.Equal(t, 1, repo.queryCalls)
}

func TestStatsCacheKey(t *testing.T) {
	sectionID := int64(3)
	assert.Equal(t, "dashboard:stats:03-2024:all", statsCacheKey(3, 2024, nil))
	assert.Equal(t, "dashboard:stats:03-2024:section:3", statsCacheKey(3, 2024, &sectionID))
}
