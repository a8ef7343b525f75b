package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/middleware"
	"github.com/noah-isme/mentor-availability-api/internal/service"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
	"github.com/noah-isme/mentor-availability-api/pkg/response"
)

type slotService interface {
	List(ctx context.Context, mentorID string, query dto.SlotWindowQuery) (*dto.SlotListResponse, bool, error)
}

type slotExporter interface {
	ExportSlots(ctx context.Context, mentorID string, query dto.SlotWindowQuery, format string) (*service.ExportFile, error)
}

// SlotHandler exposes bookable slots.
type SlotHandler struct {
	service  slotService
	exporter slotExporter
}

// NewSlotHandler builds a new handler.
func NewSlotHandler(service slotService, exporter slotExporter) *SlotHandler {
	return &SlotHandler{service: service, exporter: exporter}
}

// List godoc
// @Summary List bookable slots
// @Description Expands the mentor's rules over the window and groups future, unbooked starts by date.
// @Tags Slots
// @Produce json
// @Param id path string true "Mentor ID"
// @Param from query string false "First date (YYYY-MM-DD). Defaults to today"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	var query dto.SlotWindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot window"))
		return
	}
	result, cacheHit, err := h.service.List(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, result, nil, middleware.ResponseMeta(c))
}

// Export godoc
// @Summary Export bookable slots
// @Tags Slots
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Mentor ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /mentors/{id}/slots/export [get]
func (h *SlotHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "slot export not configured"))
		return
	}
	var query dto.SlotWindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot window"))
		return
	}
	file, err := h.exporter.ExportSlots(c.Request.Context(), c.Param("id"), query, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
