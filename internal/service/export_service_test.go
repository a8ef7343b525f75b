package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

func newExportServiceForTest(enabled bool) *ExportService {
	repo := newTemplateRepoStub(
		weeklyRow("tpl-thu", "mentor-1", "thursday", "14:00", "15:00", nil),
		weeklyRow("tpl-fri", "mentor-1", "friday", "09:30", "10:30", intPtr(4)),
	)
	slots := NewSlotService(repo, newBookingRepoStub(), NewCacheService(nil, nil, 0, nil, false), nil, testSettings(), nil, nil)
	return NewExportService(slots, enabled, nil, nil, nil)
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportServiceForTest(true)
	query := dto.SlotWindowQuery{From: "2025-01-09", To: "2025-01-10"}

	file, err := svc.ExportSlots(context.Background(), "mentor-1", query, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "slots_mentor-1_2025-01-09_2025-01-10.csv", file.Filename)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Day,Time,Start (UTC),Session", strings.TrimSpace(lines[0]))
	assert.Equal(t, "2025-01-09,Thu,02:00 PM,2025-01-09T14:00:00Z,Solo", strings.TrimSpace(lines[1]))
	assert.Equal(t, "2025-01-10,Fri,09:30 AM,2025-01-10T09:30:00Z,Group of 4", strings.TrimSpace(lines[2]))
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest(true)

	file, err := svc.ExportSlots(context.Background(), "mentor-1", dto.SlotWindowQuery{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceRejections(t *testing.T) {
	_, err := newExportServiceForTest(true).ExportSlots(context.Background(), "mentor-1", dto.SlotWindowQuery{}, "xlsx")
	requireAppError(t, err, appErrors.ErrValidation.Code, http.StatusBadRequest)

	_, err = newExportServiceForTest(false).ExportSlots(context.Background(), "mentor-1", dto.SlotWindowQuery{}, "csv")
	requireAppError(t, err, appErrors.ErrForbidden.Code, http.StatusForbidden)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "a_b-c", sanitizeFilename("a b/c"))
}
