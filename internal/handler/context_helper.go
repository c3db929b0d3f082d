package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}

// monthYearQuery parses the required month and year query parameters.
func monthYearQuery(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "month is required")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year is required")
	}
	return month, year, nil
}

// sectionIDQuery parses the optional section_id query parameter; nil means
// no section filter.
func sectionIDQuery(c *gin.Context) (*int64, error) {
	raw := c.Query("section_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section_id must be a positive integer")
	}
	return &id, nil
}
