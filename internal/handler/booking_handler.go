package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/middleware"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
	"github.com/noah-isme/mentor-availability-api/pkg/response"
)

type bookingService interface {
	Book(ctx context.Context, mentorID, menteeID string, req dto.BookingRequest) (*dto.BookingResponse, error)
}

// BookingHandler reserves slots.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler builds a new handler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create godoc
// @Summary Book a slot
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body dto.BookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentors/{id}/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	booking, err := h.service.Book(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}
