package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
	"github.com/noah-isme/mentor-availability-api/pkg/response"
)

type sessionService interface {
	Open(ctx context.Context, mentorID string) (*dto.SessionResponse, error)
	Get(ctx context.Context, mentorID string) (*dto.SessionResponse, error)
	ToggleDay(ctx context.Context, mentorID, day string, req dto.ToggleDayRequest) (*dto.SessionResponse, error)
	AddSlot(ctx context.Context, mentorID, day string) (*dto.AddSlotResponse, error)
	UpdateSlot(ctx context.Context, mentorID, day string, index int, req dto.UpdateSlotRequest) (*dto.SessionResponse, error)
	RemoveSlot(ctx context.Context, mentorID, day string, index int) (*dto.SessionResponse, error)
	Save(ctx context.Context, mentorID string) (*dto.SaveResponse, error)
}

// SessionHandler exposes the weekly availability editor.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Open godoc
// @Summary Open an availability editing session
// @Description Loads the stored rules and rebuilds the weekly schedule. Unsaved edits are discarded.
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 201 {object} response.Envelope
// @Router /mentors/{id}/availability/session [post]
func (h *SessionHandler) Open(c *gin.Context) {
	session, err := h.service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Get the editing session
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id}/availability/session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// ToggleDay godoc
// @Summary Enable or disable a weekday
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param day path string true "Weekday (monday..sunday)"
// @Param payload body dto.ToggleDayRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/availability/session/days/{day} [patch]
func (h *SessionHandler) ToggleDay(c *gin.Context) {
	var req dto.ToggleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}
	session, err := h.service.ToggleDay(c.Request.Context(), c.Param("id"), c.Param("day"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// AddSlot godoc
// @Summary Add a slot to a weekday
// @Description Appends a solo slot on the next occurrence of the weekday at the default start time.
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Param day path string true "Weekday (monday..sunday)"
// @Success 201 {object} response.Envelope
// @Router /mentors/{id}/availability/session/days/{day}/slots [post]
func (h *SessionHandler) AddSlot(c *gin.Context) {
	result, err := h.service.AddSlot(c.Request.Context(), c.Param("id"), c.Param("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateSlot godoc
// @Summary Edit a slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param day path string true "Weekday (monday..sunday)"
// @Param index path int true "Slot index within the day"
// @Param payload body dto.UpdateSlotRequest true "Slot patch"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/availability/session/days/{day}/slots/{index} [patch]
func (h *SessionHandler) UpdateSlot(c *gin.Context) {
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	session, err := h.service.UpdateSlot(c.Request.Context(), c.Param("id"), c.Param("day"), index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// RemoveSlot godoc
// @Summary Remove a slot
// @Description Saved slots are deleted from storage immediately.
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Param day path string true "Weekday (monday..sunday)"
// @Param index path int true "Slot index within the day"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/availability/session/days/{day}/slots/{index} [delete]
func (h *SessionHandler) RemoveSlot(c *gin.Context) {
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	session, err := h.service.RemoveSlot(c.Request.Context(), c.Param("id"), c.Param("day"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Save godoc
// @Summary Save the editing session
// @Tags Availability
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /mentors/{id}/availability/session/save [post]
func (h *SessionHandler) Save(c *gin.Context) {
	result, err := h.service.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func slotIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "slot index must be a non-negative integer"))
		return 0, false
	}
	return index, true
}
