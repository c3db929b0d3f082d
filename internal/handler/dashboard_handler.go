package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-api/internal/models"
	"github.com/classtrack/attendance-api/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context, month, year int, sectionID *int64) (*models.StatsReport, bool, error)
}

// DashboardHandler exposes aggregated monthly statistics.
type DashboardHandler struct {
	dashboard dashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats godoc
// @Summary Monthly dashboard statistics
// @Description Totals, percentages and the per-day series for the requested month.
// @Tags Dashboard
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Param section_id query int false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	month, year, err := monthYearQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sectionID, err := sectionIDQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, cacheHit, err := h.dashboard.Stats(c.Request.Context(), month, year, sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if cacheHit {
		c.Header("X-Cache", "HIT")
	}
	response.OK(c, report)
}
