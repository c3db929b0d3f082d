package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/classtrack/attendance-api/internal/models"
	appErrors "github.com/classtrack/attendance-api/pkg/errors"
	"github.com/classtrack/attendance-api/pkg/export"
)

type gridProvider interface {
	Get(ctx context.Context, month, year int, sectionID *int64) ([]models.GridRow, error)
}

// ExportResult carries a rendered attendance sheet ready to stream back.
type ExportResult struct {
	Filename string
	MIME     string
	Content  []byte
}

// ExportService renders the month grid as a downloadable sheet: one row
// per student, one column per calendar day.
type ExportService struct {
	attendance gridProvider
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(attendance gridProvider, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{attendance: attendance, csv: csv, pdf: pdf, logger: logger}
}

// MonthlySheet renders the given month as CSV or PDF.
func (s *ExportService) MonthlySheet(ctx context.Context, month, year int, sectionID *int64, format string) (*ExportResult, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	rows, err := s.attendance.Get(ctx, month, year, sectionID)
	if err != nil {
		return nil, err
	}

	dataset := buildSheet(rows, month, year)
	title := fmt.Sprintf("Attendance %04d-%02d", year, month)

	var content []byte
	var mime string
	switch format {
	case "csv":
		content, err = s.csv.Render(dataset)
		mime = "text/csv"
	case "pdf":
		content, err = s.pdf.Render(dataset, title)
		mime = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render sheet")
	}

	return &ExportResult{
		Filename: fmt.Sprintf("attendance-%04d-%02d.%s", year, month, format),
		MIME:     mime,
		Content:  content,
	}, nil
}

// buildSheet pivots the flat grid into one row per student with a column
// per day. Grid rows arrive grouped by student, days ascending.
func buildSheet(rows []models.GridRow, month, year int) export.Dataset {
	days := daysInMonth(month, year)
	headers := make([]string, 0, days+2)
	headers = append(headers, "Student ID", "Name")
	for day := 1; day <= days; day++ {
		headers = append(headers, strconv.Itoa(day))
	}

	sheet := make([]map[string]string, 0)
	var current map[string]string
	var currentStudent int64
	for _, row := range rows {
		if current == nil || row.StudentID != currentStudent {
			current = map[string]string{"Student ID": row.StudentCode, "Name": row.StudentName}
			currentStudent = row.StudentID
			sheet = append(sheet, current)
		}
		day := ""
		if len(row.Date) == 10 {
			day = row.Date[8:]
			if day[0] == '0' {
				day = day[1:]
			}
		}
		if row.Status != nil {
			current[day] = string(*row.Status)
		}
	}

	return export.Dataset{Headers: headers, Rows: sheet}
}
