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

type studentService interface {
	List(ctx context.Context, sectionID *int64) ([]models.StudentDetail, error)
	Create(ctx context.Context, req service.StudentRequest) (*models.IDResult, error)
	Update(ctx context.Context, id int64, req service.StudentRequest) (*models.IDResult, error)
	Delete(ctx context.Context, id int64) (*models.IDResult, error)
	ResetAttendance(ctx context.Context) error
}

// StudentHandler exposes student CRUD plus the attendance reset endpoint.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students with section details
// @Tags Students
// @Produce json
// @Param section_id query int false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	sectionID, err := sectionIDQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.List(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Delete godoc
// @Summary Delete student and their attendance records
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.students.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ResetAttendance godoc
// @Summary Drop and recreate the attendance table
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/reset-attendance [post]
func (h *StudentHandler) ResetAttendance(c *gin.Context) {
	if err := h.students.ResetAttendance(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"reset": true})
}
