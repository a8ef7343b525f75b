package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

// Thursday 2025-01-09 14:00 UTC.
var thursdayTwo = time.Date(2025, 1, 9, 14, 0, 0, 0, time.UTC)

func newBookingServiceForTest(repo *templateRepoStub, bookings *bookingRepoStub) (*BookingService, *cacheRepoStub, *MetricsService) {
	cacheRepo := newCacheRepoStub()
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, 0, nil, true)
	slots := NewSlotService(repo, bookings, cache, metrics, testSettings(), nil, nil)
	return NewBookingService(slots, bookings, cache, metrics, nil, nil), cacheRepo, metrics
}

func TestBookingServiceBookSolo(t *testing.T) {
	repo := newTemplateRepoStub(weeklyRow("tpl-thu", "mentor-1", "thursday", "14:00", "15:00", nil))
	bookings := newBookingRepoStub()
	svc, cacheRepo, _ := newBookingServiceForTest(repo, bookings)

	// Offsets are normalised to UTC.
	local := thursdayTwo.In(time.FixedZone("WIB", 7*3600))
	resp, err := svc.Book(context.Background(), "mentor-1", "mentee-1", dto.BookingRequest{StartInstant: local})
	require.NoError(t, err)
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "tpl-thu", resp.TemplateID)
	assert.Equal(t, "mentee-1", resp.MenteeID)
	assert.True(t, resp.StartInstant.Equal(thursdayTwo))
	assert.True(t, resp.EndInstant.Equal(thursdayTwo.Add(time.Hour)))
	assert.Equal(t, "Solo", resp.Badge)
	assert.Equal(t, 1, resp.Participants)
	assert.Contains(t, cacheRepo.patterns, "slots:mentor-1:*")
	require.Len(t, bookings.created, 1)
}

func TestBookingServiceSecondBookingIsTaken(t *testing.T) {
	repo := newTemplateRepoStub(weeklyRow("tpl-thu", "mentor-1", "thursday", "14:00", "15:00", nil))
	svc, _, _ := newBookingServiceForTest(repo, newBookingRepoStub())
	ctx := context.Background()

	_, err := svc.Book(ctx, "mentor-1", "mentee-1", dto.BookingRequest{StartInstant: thursdayTwo})
	require.NoError(t, err)

	_, err = svc.Book(ctx, "mentor-1", "mentee-2", dto.BookingRequest{StartInstant: thursdayTwo})
	requireAppError(t, err, appErrors.ErrSlotTaken.Code, http.StatusConflict)
}

func TestBookingServiceGroupTier(t *testing.T) {
	repo := newTemplateRepoStub(
		weeklyRow("tpl-solo", "mentor-1", "thursday", "14:00", "15:00", nil),
		weeklyRow("tpl-group", "mentor-1", "thursday", "14:00", "15:00", intPtr(3)),
	)
	ctx := context.Background()

	t.Run("solo preferred without tier", func(t *testing.T) {
		svc, _, _ := newBookingServiceForTest(repo, newBookingRepoStub())
		resp, err := svc.Book(ctx, "mentor-1", "mentee-1", dto.BookingRequest{StartInstant: thursdayTwo})
		require.NoError(t, err)
		assert.Equal(t, "tpl-solo", resp.TemplateID)
		assert.Nil(t, resp.GroupTier)
	})

	t.Run("explicit group", func(t *testing.T) {
		svc, _, _ := newBookingServiceForTest(repo, newBookingRepoStub())
		resp, err := svc.Book(ctx, "mentor-1", "mentee-1", dto.BookingRequest{StartInstant: thursdayTwo, GroupTier: intPtr(3), Participants: 3})
		require.NoError(t, err)
		assert.Equal(t, "tpl-group", resp.TemplateID)
		require.NotNil(t, resp.GroupTier)
		assert.Equal(t, 3, *resp.GroupTier)
		assert.Equal(t, "Group of 3", resp.Badge)
		assert.Equal(t, 3, resp.Participants)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		svc, _, _ := newBookingServiceForTest(repo, newBookingRepoStub())
		_, err := svc.Book(ctx, "mentor-1", "mentee-1", dto.BookingRequest{StartInstant: thursdayTwo, GroupTier: intPtr(3), Participants: 4})
		requireAppError(t, err, appErrors.ErrValidation.Code, http.StatusBadRequest)
	})

	t.Run("tier not offered at instant", func(t *testing.T) {
		svc, _, _ := newBookingServiceForTest(repo, newBookingRepoStub())
		_, err := svc.Book(ctx, "mentor-1", "mentee-1", dto.BookingRequest{StartInstant: thursdayTwo, GroupTier: intPtr(5)})
		requireAppError(t, err, appErrors.ErrNotFound.Code, http.StatusNotFound)
	})
}

func TestBookingServiceRejectsUnknownInstants(t *testing.T) {
	repo := newTemplateRepoStub(weeklyRow("tpl-wed", "mentor-1", "wednesday", "09:00", "10:00", nil))
	svc, _, _ := newBookingServiceForTest(repo, newBookingRepoStub())
	ctx := context.Background()

	tests := []struct {
		name   string
		req    dto.BookingRequest
		code   string
		status int
	}{
		{name: "missing instant", req: dto.BookingRequest{}, code: appErrors.ErrValidation.Code, status: http.StatusBadRequest},
		{name: "not on a rule", req: dto.BookingRequest{StartInstant: time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)}, code: appErrors.ErrNotFound.Code, status: http.StatusNotFound},
		{name: "already past", req: dto.BookingRequest{StartInstant: time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)}, code: appErrors.ErrNotFound.Code, status: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Book(ctx, "mentor-1", "mentee-1", tc.req)
			requireAppError(t, err, tc.code, tc.status)
		})
	}
}
