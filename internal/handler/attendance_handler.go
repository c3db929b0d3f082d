package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-api/internal/models"
	"github.com/classtrack/attendance-api/internal/service"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
	"github.com/classtrack/attendance-api/pkg/response"
)

type attendanceService interface {
	Get(ctx context.Context, month, year int, sectionID *int64) ([]models.GridRow, error)
	GetByRange(ctx context.Context, startDate, endDate string, sectionID *int64) ([]models.MarkDetail, error)
	Mark(ctx context.Context, req service.MarkRequest) (*models.MarkResult, error)
}

// AttendanceHandler exposes the attendance grid, range queries and marking.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Get godoc
// @Summary Monthly attendance grid
// @Description One row per student per day of the month; status is null for unmarked cells.
// @Tags Attendance
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Param section_id query int false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
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
	grid, err := h.attendance.Get(c.Request.Context(), month, year, sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, grid)
}

// GetByRange godoc
// @Summary Attendance marks within a date range
// @Tags Attendance
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Param section_id query int false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /attendance/range [get]
func (h *AttendanceHandler) GetByRange(c *gin.Context) {
	sectionID, err := sectionIDQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	marks, err := h.attendance.GetByRange(c.Request.Context(), c.Query("start"), c.Query("end"), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, marks)
}

// Mark godoc
// @Summary Record, update or clear a single attendance mark
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkRequest true "Mark payload; empty status clears the cell"
// @Success 200 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
