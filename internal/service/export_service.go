package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/classgrid/classgrid-api/internal/models"
	appErrors "github.com/classgrid/classgrid-api/pkg/errors"
	"github.com/classgrid/classgrid-api/pkg/export"
)

type scheduleViewLister interface {
	List(ctx context.Context) ([]models.ScheduleWithDetails, error)
	ListByProgram(ctx context.Context, programID int) ([]models.ScheduleWithDetails, error)
	ListByProgramAndSemester(ctx context.Context, programID, semester int) ([]models.ScheduleWithDetails, error)
}

// ExportResult carries rendered bytes plus HTTP metadata for the download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the joined timetable as CSV or PDF downloads.
type ExportService struct {
	schedules scheduleViewLister
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules scheduleViewLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// Render produces the timetable in the requested format, optionally filtered
// by program and semester. Supported formats are "csv" and "pdf".
func (s *ExportService) Render(ctx context.Context, format string, programID, semester int) (*ExportResult, error) {
	var (
		views []models.ScheduleWithDetails
		err   error
	)
	switch {
	case programID > 0 && semester > 0:
		views, err = s.schedules.ListByProgramAndSemester(ctx, programID, semester)
	case programID > 0:
		views, err = s.schedules.ListByProgram(ctx, programID)
	default:
		views, err = s.schedules.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	dataset := buildScheduleDataset(views)

	switch strings.ToLower(format) {
	case "csv", "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "timetable.csv"}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "timetable.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildScheduleDataset(views []models.ScheduleWithDetails) export.Dataset {
	headers := []string{"Day", "Time", "Course", "Teacher", "Program", "Semester"}
	rows := make([]map[string]string, 0, len(views))
	for _, view := range views {
		window := fmt.Sprintf("slot %d", view.TimeSlot)
		if view.TimeSlot >= 1 && view.TimeSlot <= len(models.TimeSlots) {
			slot := models.TimeSlots[view.TimeSlot-1]
			window = fmt.Sprintf("%s - %s", slot.Start, slot.End)
		}
		rows = append(rows, map[string]string{
			"Day":      models.TitleDay(view.Day),
			"Time":     window,
			"Course":   view.Course.Name,
			"Teacher":  view.Teacher.Name,
			"Program":  view.Program.Name,
			"Semester": fmt.Sprintf("%d%s", view.Semester, models.OrdinalSuffix(view.Semester)),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
