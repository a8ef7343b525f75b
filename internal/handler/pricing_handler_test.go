package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
)

type pricingServiceMock struct {
	resp     *dto.PricingResponse
	err      error
	lastReq  dto.PricingRequest
	replaced bool
}

func (m *pricingServiceMock) Get(ctx context.Context, mentorID string) (*dto.PricingResponse, error) {
	return m.resp, m.err
}

func (m *pricingServiceMock) Replace(ctx context.Context, mentorID string, req dto.PricingRequest) (*dto.PricingResponse, error) {
	m.replaced = true
	m.lastReq = req
	return m.resp, m.err
}

func TestPricingHandlerGet(t *testing.T) {
	mockSvc := &pricingServiceMock{resp: &dto.PricingResponse{MentorID: "mentor-1", OfferableTiers: []availability.SessionTier{3}}}
	c, w := newJSONContext(http.MethodGet, "/mentors/mentor-1/pricing", nil, gin.Params{{Key: "id", Value: "mentor-1"}})

	NewPricingHandler(mockSvc).Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"offerableTiers":[3]`)
}

func TestPricingHandlerReplace(t *testing.T) {
	mockSvc := &pricingServiceMock{resp: &dto.PricingResponse{MentorID: "mentor-1"}}
	c, w := newJSONContext(http.MethodPut, "/mentors/mentor-1/pricing", []byte(`{"tiers":[{"groupSize":3,"priceCents":900}]}`), gin.Params{{Key: "id", Value: "mentor-1"}})

	NewPricingHandler(mockSvc).Replace(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockSvc.lastReq.Tiers, 1)
	assert.Equal(t, 3, mockSvc.lastReq.Tiers[0].GroupSize)
}

func TestPricingHandlerReplaceBadJSON(t *testing.T) {
	mockSvc := &pricingServiceMock{}
	c, w := newJSONContext(http.MethodPut, "/mentors/mentor-1/pricing", []byte(`{"tiers":`), gin.Params{{Key: "id", Value: "mentor-1"}})

	NewPricingHandler(mockSvc).Replace(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.replaced)
}
