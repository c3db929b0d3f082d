package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

// Envelope is the contract every operation answers with: a success flag plus
// either the payload or a typed error, never both.
type Envelope struct {
	Success bool             `json:"success"`
	Data    interface{}      `json:"data,omitempty"`
	Error   *appErrors.Error `json:"error,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Data: data})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Success: false, Error: appErr})
}
