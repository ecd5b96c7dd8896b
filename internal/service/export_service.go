package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/westcoast-edu/education-api/internal/models"
	appErrors "github.com/westcoast-edu/education-api/pkg/errors"
	"github.com/westcoast-edu/education-api/pkg/export"
)

type courseDetailReader interface {
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// RosterExport is a rendered roster document.
type RosterExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders course rosters as downloadable documents.
type ExportService struct {
	courses courseDetailReader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(courses courseDetailReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		courses: courses,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Roster renders the course's enrolled students in the requested format,
// one row per enrollment with its status.
func (s *ExportService) Roster(ctx context.Context, courseID, format string) (*RosterExport, error) {
	detail, err := s.courses.FindDetailByID(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	data := export.Dataset{
		Headers: []string{"Student", "Email", "Phone", "Status"},
		Rows:    make([]map[string]string, 0, len(detail.Students)),
	}
	for _, student := range detail.Students {
		data.Rows = append(data.Rows, map[string]string{
			"Student": student.FirstName + " " + student.LastName,
			"Email":   student.Email,
			"Phone":   student.Phone,
			"Status":  string(student.Status),
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
		}
		return &RosterExport{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("roster-%d.csv", detail.CourseNumber),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(data, detail.Title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
		}
		return &RosterExport{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("roster-%d.pdf", detail.CourseNumber),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
