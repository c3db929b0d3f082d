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

type sectionService interface {
	List(ctx context.Context) ([]models.Section, error)
	Create(ctx context.Context, req service.SectionRequest) (*models.IDResult, error)
	Update(ctx context.Context, id int64, req service.SectionRequest) (*models.IDResult, error)
	Delete(ctx context.Context, id int64) (*models.IDResult, error)
}

// SectionHandler exposes section CRUD endpoints.
type SectionHandler struct {
	sections sectionService
}

// NewSectionHandler constructs SectionHandler.
func NewSectionHandler(sections sectionService) *SectionHandler {
	return &SectionHandler{sections: sections}
}

// List godoc
// @Summary List sections
// @Tags Sections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	sections, err := h.sections.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sections)
}

// Create godoc
// @Summary Create section
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body service.SectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Router /sections [post]
func (h *SectionHandler) Create(c *gin.Context) {
	var req service.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.sections.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update section
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body service.SectionRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [put]
func (h *SectionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.sections.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Delete godoc
// @Summary Delete section
// @Tags Sections
// @Produce json
// @Param id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [delete]
func (h *SectionHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.sections.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
