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

type authService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*models.IDResult, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
}

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth authService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth authService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Login godoc
// @Summary Authenticate a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
