package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-api/internal/models"
	"github.com/classtrack/attendance-api/internal/service"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
)

type attendanceServiceMock struct {
	gridResp    []models.GridRow
	gridErr     error
	rangeResp   []models.MarkDetail
	markResp    *models.MarkResult
	markErr     error
	lastMonth   int
	lastYear    int
	lastSection *int64
	lastMark    service.MarkRequest
	markCalled  bool
}

func (m *attendanceServiceMock) Get(ctx context.Context, month, year int, sectionID *int64) ([]models.GridRow, error) {
	m.lastMonth = month
	m.lastYear = year
	m.lastSection = sectionID
	return m.gridResp, m.gridErr
}

func (m *attendanceServiceMock) GetByRange(ctx context.Context, startDate, endDate string, sectionID *int64) ([]models.MarkDetail, error) {
	return m.rangeResp, nil
}

func (m *attendanceServiceMock) Mark(ctx context.Context, req service.MarkRequest) (*models.MarkResult, error) {
	m.markCalled = true
	m.lastMark = req
	return m.markResp, m.markErr
}

func TestAttendanceHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &attendanceServiceMock{gridResp: []models.GridRow{{StudentID: 1, Date: "2024-03-01"}}}
	handler := NewAttendanceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/attendance?month=3&year=2024&section_id=5", nil)

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, mockSvc.lastMonth)
	assert.Equal(t, 2024, mockSvc.lastYear)
	require.NotNil(t, mockSvc.lastSection)
	assert.Equal(t, int64(5), *mockSvc.lastSection)
}

func TestAttendanceHandlerGetMissingMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(&attendanceServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/attendance?year=2024", nil)

	handler.Get(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerMark(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := int64(42)
	mockSvc := &attendanceServiceMock{markResp: &models.MarkResult{Action: models.MarkActionUpdated, ID: &id}}
	handler := NewAttendanceHandler(mockSvc)

	payload, _ := json.Marshal(service.MarkRequest{StudentID: 1, Date: "2024-03-05", Status: "P"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/attendance/mark", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Mark(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.markCalled)
	assert.Equal(t, "P", mockSvc.lastMark.Status)

	var envelope struct {
		Success bool              `json:"success"`
		Data    models.MarkResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.MarkActionUpdated, envelope.Data.Action)
	require.NotNil(t, envelope.Data.ID)
	assert.Equal(t, int64(42), *envelope.Data.ID)
}

func TestAttendanceHandlerMarkInvalidStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &attendanceServiceMock{markErr: appErrors.ErrInvalidStatus}
	handler := NewAttendanceHandler(mockSvc)

	payload, _ := json.Marshal(service.MarkRequest{StudentID: 1, Date: "2024-03-05", Status: "X"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/attendance/mark", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Mark(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerGetByRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &attendanceServiceMock{rangeResp: []models.MarkDetail{}}
	handler := NewAttendanceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/attendance/range?start=2024-03-01&end=2024-03-15", nil)

	handler.GetByRange(c)
	require.Equal(t, http.StatusOK, w.Code)
}
