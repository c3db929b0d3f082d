package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-api/internal/models"
)

type dashboardServiceMock struct {
	report   *models.StatsReport
	cacheHit bool
	err      error
}

func (m *dashboardServiceMock) Stats(ctx context.Context, month, year int, sectionID *int64) (*models.StatsReport, bool, error) {
	return m.report, m.cacheHit, m.err
}

func TestDashboardHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &dashboardServiceMock{report: &models.StatsReport{Stats: models.StatTotals{TotalStudents: 30}}}
	handler := NewDashboardHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/dashboard/stats?month=3&year=2024", nil)

	handler.Stats(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestDashboardHandlerStatsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &dashboardServiceMock{report: &models.StatsReport{}, cacheHit: true}
	handler := NewDashboardHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/dashboard/stats?month=3&year=2024", nil)

	handler.Stats(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestDashboardHandlerStatsRequiresYear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&dashboardServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/dashboard/stats?month=3", nil)

	handler.Stats(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
