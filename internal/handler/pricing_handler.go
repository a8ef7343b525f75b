package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
	"github.com/noah-isme/mentor-availability-api/pkg/response"
)

type pricingService interface {
	Get(ctx context.Context, mentorID string) (*dto.PricingResponse, error)
	Replace(ctx context.Context, mentorID string, req dto.PricingRequest) (*dto.PricingResponse, error)
}

// PricingHandler exposes the group pricing table.
type PricingHandler struct {
	service pricingService
}

// NewPricingHandler builds a new handler.
func NewPricingHandler(service pricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// Get godoc
// @Summary Get group pricing
// @Tags Pricing
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/pricing [get]
func (h *PricingHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Replace godoc
// @Summary Replace group pricing
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body dto.PricingRequest true "Pricing table"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/pricing [put]
func (h *PricingHandler) Replace(c *gin.Context) {
	var req dto.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pricing payload"))
		return
	}
	result, err := h.service.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
