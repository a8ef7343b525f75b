package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

func newTemplateServiceForTest(repo *templateRepoStub, pricing *pricingRepoStub) (*TemplateService, *cacheRepoStub) {
	cacheRepo := newCacheRepoStub()
	cache := NewCacheService(cacheRepo, nil, 0, nil, true)
	return NewTemplateService(repo, pricing, cache, nil, testSettings(), nil, nil), cacheRepo
}

func requireAppError(t *testing.T, err error, code string, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.Status)
	return appErr
}

func TestTemplateServiceCreateWeekly(t *testing.T) {
	repo := newTemplateRepoStub()
	svc, cacheRepo := newTemplateServiceForTest(repo, &pricingRepoStub{})

	resp, err := svc.Create(context.Background(), "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Nil(t, resp.GroupTier)
	require.NotNil(t, resp.DayOfWeek)
	assert.Equal(t, "monday", *resp.DayOfWeek)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, []string{"slots:mentor-1:*"}, cacheRepo.patterns)
}

func TestTemplateServiceCreateRejectsOverlap(t *testing.T) {
	repo := newTemplateRepoStub(weeklyRow("tpl-a", "mentor-1", "monday", "09:00", "10:00", nil))
	svc, _ := newTemplateServiceForTest(repo, &pricingRepoStub{})

	_, err := svc.Create(context.Background(), "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:30", EndTime: "10:30"})
	appErr := requireAppError(t, err, appErrors.ErrDuplicateSoloSlot.Code, http.StatusConflict)
	assert.NotNil(t, appErr.Details)
	assert.Equal(t, 0, repo.creates)
}

func TestTemplateServiceCreateAllowsSoloAndGroupOverlap(t *testing.T) {
	repo := newTemplateRepoStub(weeklyRow("tpl-a", "mentor-1", "monday", "09:00", "10:00", nil))
	pricing := &pricingRepoStub{tiers: []models.GroupPricingTier{{GroupSize: 3, PriceCents: 1500}}}
	svc, _ := newTemplateServiceForTest(repo, pricing)

	resp, err := svc.Create(context.Background(), "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:00", EndTime: "10:00", GroupTier: intPtr(3)})
	require.NoError(t, err)
	require.NotNil(t, resp.GroupTier)
	assert.Equal(t, 3, *resp.GroupTier)
}

func TestTemplateServiceCreateRejectsUnpricedTier(t *testing.T) {
	pricing := &pricingRepoStub{tiers: []models.GroupPricingTier{{GroupSize: 2, PriceCents: 0}}}
	svc, _ := newTemplateServiceForTest(newTemplateRepoStub(), pricing)

	_, err := svc.Create(context.Background(), "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:00", EndTime: "10:00", GroupTier: intPtr(2)})
	requireAppError(t, err, appErrors.ErrTierNotOffered.Code, http.StatusUnprocessableEntity)
}

func TestTemplateServiceCreateRejectsPastDate(t *testing.T) {
	svc, _ := newTemplateServiceForTest(newTemplateRepoStub(), &pricingRepoStub{})

	// 2025-01-06 is the Monday before fixedNow.
	_, err := svc.Create(context.Background(), "mentor-1", dto.TemplateRequest{SpecificDate: strPtr("2025-01-06"), StartTime: "09:00", EndTime: "10:00"})
	requireAppError(t, err, appErrors.ErrPastSlot.Code, http.StatusUnprocessableEntity)
}

func TestTemplateServiceCreateValidation(t *testing.T) {
	svc, _ := newTemplateServiceForTest(newTemplateRepoStub(), &pricingRepoStub{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), SpecificDate: strPtr("2025-01-13"), StartTime: "09:00", EndTime: "10:00"})
	requireAppError(t, err, appErrors.ErrValidation.Code, http.StatusBadRequest)

	_, err = svc.Create(ctx, "mentor-1", dto.TemplateRequest{StartTime: "09:00", EndTime: "10:00"})
	requireAppError(t, err, appErrors.ErrValidation.Code, http.StatusBadRequest)

	_, err = svc.Create(ctx, "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "9am", EndTime: "10:00"})
	requireAppError(t, err, appErrors.ErrMalformedTime.Code, http.StatusBadRequest)

	_, err = svc.Create(ctx, "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "10:00", EndTime: "09:00"})
	requireAppError(t, err, appErrors.ErrInvertedRange.Code, http.StatusUnprocessableEntity)

	_, err = svc.Create(ctx, "mentor-1", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:00", EndTime: "11:00"})
	requireAppError(t, err, appErrors.ErrDurationExceeded.Code, http.StatusUnprocessableEntity)

	// 2025-01-14 is a Tuesday filed as a date-specific rule; it buckets itself.
	resp, err := svc.Create(ctx, "mentor-1", dto.TemplateRequest{SpecificDate: strPtr("2025-01-14"), StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	require.NotNil(t, resp.SpecificDate)
	assert.Equal(t, "2025-01-14", *resp.SpecificDate)
}

func TestTemplateServiceUpdate(t *testing.T) {
	repo := newTemplateRepoStub(
		weeklyRow("tpl-a", "mentor-1", "monday", "09:00", "10:00", nil),
		weeklyRow("tpl-b", "mentor-1", "monday", "11:00", "12:00", nil),
	)
	svc, _ := newTemplateServiceForTest(repo, &pricingRepoStub{})
	ctx := context.Background()

	// Moving tpl-a within its own range does not conflict with itself.
	resp, err := svc.Update(ctx, "mentor-1", "tpl-a", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:15", EndTime: "10:15"})
	require.NoError(t, err)
	assert.Equal(t, "09:15", resp.StartTime)
	assert.Equal(t, 1, repo.updates)

	_, err = svc.Update(ctx, "mentor-1", "tpl-a", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "11:30", EndTime: "12:00"})
	requireAppError(t, err, appErrors.ErrDuplicateSoloSlot.Code, http.StatusConflict)

	_, err = svc.Update(ctx, "mentor-1", "missing", dto.TemplateRequest{DayOfWeek: strPtr("monday"), StartTime: "09:00", EndTime: "10:00"})
	requireAppError(t, err, appErrors.ErrNotFound.Code, http.StatusNotFound)
}

func TestTemplateServiceListAndDelete(t *testing.T) {
	repo := newTemplateRepoStub(
		weeklyRow("tpl-a", "mentor-1", "monday", "09:00", "10:00", nil),
		weeklyRow("tpl-z", "mentor-2", "monday", "09:00", "10:00", nil),
	)
	svc, _ := newTemplateServiceForTest(repo, &pricingRepoStub{})
	ctx := context.Background()

	items, err := svc.List(ctx, "mentor-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "tpl-a", items[0].ID)

	require.NoError(t, svc.Delete(ctx, "mentor-1", "tpl-a"))
	err = svc.Delete(ctx, "mentor-1", "tpl-z")
	requireAppError(t, err, appErrors.ErrNotFound.Code, http.StatusNotFound)
}
