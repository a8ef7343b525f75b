package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
	"github.com/noah-isme/mentor-availability-api/pkg/export"
)

// ExportFormat enumerates supported slot export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type slotLister interface {
	List(ctx context.Context, mentorID string, query dto.SlotWindowQuery) (*dto.SlotListResponse, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

var slotExportHeaders = []string{"Date", "Day", "Time", "Start (UTC)", "Session"}

// ExportService renders a mentor's materialized slots as CSV or PDF.
type ExportService struct {
	slots   slotLister
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs an ExportService.
func NewExportService(slots slotLister, enabled bool, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{slots: slots, csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

// ExportSlots renders the slots of the resolved window in format.
func (s *ExportService) ExportSlots(ctx context.Context, mentorID string, query dto.SlotWindowQuery, format string) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "slot export is disabled")
	}
	f := ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = ExportFormatCSV
	}
	if f != ExportFormatCSV && f != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	list, _, err := s.slots.List(ctx, mentorID, query)
	if err != nil {
		return nil, err
	}
	dataset := buildSlotDataset(list)

	var payload []byte
	contentType := "text/csv"
	switch f {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		contentType = "application/pdf"
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Availability %s to %s", list.From, list.To))
	}
	if err != nil {
		s.logger.Error("render slot export", zap.String("mentor_id", mentorID), zap.String("format", string(f)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    buildFilename(mentorID, list, f),
		ContentType: contentType,
		Data:        payload,
	}, nil
}

func buildSlotDataset(list *dto.SlotListResponse) export.Dataset {
	dataset := export.Dataset{Headers: slotExportHeaders}
	for _, slot := range list.Slots {
		for i := 0; i < slot.Len(); i++ {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Date":        slot.Date.String(),
				"Day":         slot.DayLabel,
				"Time":        slot.DisplayTimes[i],
				"Start (UTC)": slot.StartInstants[i].UTC().Format(time.RFC3339),
				"Session":     slot.Badges[i],
			})
		}
	}
	return dataset
}

func buildFilename(mentorID string, list *dto.SlotListResponse, format ExportFormat) string {
	return fmt.Sprintf("slots_%s_%s_%s.%s", sanitizeFilename(mentorID), list.From, list.To, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
