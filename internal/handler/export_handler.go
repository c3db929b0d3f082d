package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classtrack/attendance-api/internal/service"
	"github.com/classtrack/attendance-api/pkg/response"
)

type exportService interface {
	MonthlySheet(ctx context.Context, month, year int, sectionID *int64, format string) (*service.ExportResult, error)
}

// ExportHandler streams attendance sheets as downloadable files.
type ExportHandler struct {
	export exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(export exportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// MonthlySheet godoc
// @Summary Export the monthly attendance sheet
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Param section_id query int false "Filter by section"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /attendance/export [get]
func (h *ExportHandler) MonthlySheet(c *gin.Context) {
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
	format := c.DefaultQuery("format", "csv")
	result, err := h.export.MonthlySheet(c.Request.Context(), month, year, sectionID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.MIME, result.Content)
}
