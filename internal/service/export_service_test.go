package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-api/internal/models"
)

type mockGridProvider struct {
	rows []models.GridRow
}

func (m *mockGridProvider) Get(ctx context.Context, month, year int, sectionID *int64) ([]models.GridRow, error) {
	return m.rows, nil
}

func gridFixture() []models.GridRow {
	present := models.StatusPresent
	late := models.StatusLate
	rows := make([]models.GridRow, 0)
	for day := 1; day <= 29; day++ {
		row := models.GridRow{
			StudentID:   1,
			StudentCode: "2024-0001",
			StudentName: "John Smith",
			Date:        fmt.Sprintf("2024-02-%02d", day),
		}
		switch day {
		case 1:
			row.Status = &present
		case 15:
			row.Status = &late
		}
		rows = append(rows, row)
	}
	return rows
}

func TestExportServiceMonthlySheetCSV(t *testing.T) {
	svc := NewExportService(&mockGridProvider{rows: gridFixture()}, nil, nil, nil)

	result, err := svc.MonthlySheet(context.Background(), 2, 2024, nil, "csv")
	require.NoError(t, err)
	assert.Equal(t, "attendance-2024-02.csv", result.Filename)
	assert.Equal(t, "text/csv", result.MIME)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 2)
	header := strings.Split(lines[0], ",")
	// Student ID + Name + 29 day columns for a leap February.
	assert.Len(t, header, 31)
	assert.Equal(t, "Student ID", header[0])

	record := strings.Split(lines[1], ",")
	assert.Equal(t, "2024-0001", record[0])
	assert.Equal(t, "John Smith", record[1])
	assert.Equal(t, "P", record[2])
	assert.Equal(t, "L", record[16])
	assert.Equal(t, "", record[3])
}

func TestExportServiceMonthlySheetPDF(t *testing.T) {
	svc := NewExportService(&mockGridProvider{rows: gridFixture()}, nil, nil, nil)

	result, err := svc.MonthlySheet(context.Background(), 2, 2024, nil, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "attendance-2024-02.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.MIME)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockGridProvider{}, nil, nil, nil)

	_, err := svc.MonthlySheet(context.Background(), 2, 2024, nil, "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}
