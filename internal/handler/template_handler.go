package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
	"github.com/noah-isme/mentor-availability-api/pkg/response"
)

type templateService interface {
	List(ctx context.Context, mentorID string) ([]dto.TemplateResponse, error)
	Create(ctx context.Context, mentorID string, req dto.TemplateRequest) (*dto.TemplateResponse, error)
	Update(ctx context.Context, mentorID, id string, req dto.TemplateRequest) (*dto.TemplateResponse, error)
	Delete(ctx context.Context, mentorID, id string) error
}

// TemplateHandler exposes stored availability rules.
type TemplateHandler struct {
	service templateService
}

// NewTemplateHandler builds a new handler.
func NewTemplateHandler(service templateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// List godoc
// @Summary List availability templates
// @Tags Templates
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create an availability template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body dto.TemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /mentors/{id}/templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Replace an availability template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param templateId path string true "Template ID"
// @Param payload body dto.TemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/templates/{templateId} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), c.Param("templateId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete an availability template
// @Tags Templates
// @Param id path string true "Mentor ID"
// @Param templateId path string true "Template ID"
// @Success 204
// @Router /mentors/{id}/templates/{templateId} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Param("templateId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
