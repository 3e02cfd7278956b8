package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edusoft-co/gradebook-api/internal/models"
	appErrors "github.com/edusoft-co/gradebook-api/pkg/errors"
	"github.com/edusoft-co/gradebook-api/pkg/export"
)

type boardProvider interface {
	Board(ctx context.Context, courseID string) ([]models.CourseGrade, error)
}

// ExportResult carries rendered bytes together with HTTP delivery metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a course's grade board as CSV or PDF.
type ExportService struct {
	grades boardProvider
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(grades boardProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		grades: grades,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ExportBoard renders the grade sheet in the requested format ("csv" or "pdf").
func (s *ExportService) ExportBoard(ctx context.Context, courseID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	grades, err := s.grades.Board(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sheet := boardSheet(courseID, grades)

	var content []byte
	var contentType string
	switch format {
	case "csv":
		content, err = s.csv.Render(sheet)
		contentType = "text/csv"
	case "pdf":
		content, err = s.pdf.Render(sheet)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade sheet")
	}
	s.logger.Info("grade sheet exported",
		zap.String("course_id", courseID),
		zap.String("format", format),
		zap.Int("students", len(grades)))
	return &ExportResult{
		Content:     content,
		ContentType: contentType,
		Filename:    fmt.Sprintf("grade-sheet-%s.%s", courseID, format),
	}, nil
}

func boardSheet(courseID string, grades []models.CourseGrade) export.Sheet {
	rows := make([][]string, 0, len(grades))
	for _, grade := range grades {
		rows = append(rows, []string{
			grade.StudentName,
			formatGrade(grade.Corte1),
			formatGrade(grade.Corte2),
			formatGrade(grade.Corte3),
			formatGrade(grade.FinalGrade),
		})
	}
	return export.Sheet{
		Title:    "Grade Sheet",
		Subtitle: fmt.Sprintf("Course %s, generated %s", courseID, time.Now().UTC().Format("2006-01-02")),
		Columns:  []string{"Student", "Corte 1", "Corte 2", "Corte 3", "Final"},
		Rows:     rows,
	}
}

// formatGrade renders an absent grade the way the gradebook UI shows it.
func formatGrade(value *float64) string {
	if value == nil {
		return "--"
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}
