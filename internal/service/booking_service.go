package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

type occurrenceSource interface {
	Occurrences(ctx context.Context, mentorID string, from, to availability.Date) ([]availability.Occurrence, error)
}

// BookingService reserves materialized slot instants.
type BookingService struct {
	slots     occurrenceSource
	bookings  bookingRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(slots occurrenceSource, bookings bookingRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{slots: slots, bookings: bookings, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Book reserves the occurrence starting at req.StartInstant. Without an
// explicit group tier a solo occurrence is preferred. The first booking at an
// instant wins.
func (s *BookingService) Book(ctx context.Context, mentorID, menteeID string, req dto.BookingRequest) (*dto.BookingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordBooking("rejected")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	instant := req.StartInstant.UTC()
	date := availability.DateOf(instant)
	occurrences, err := s.slots.Occurrences(ctx, mentorID, date, date)
	if err != nil {
		return nil, err
	}
	matches := availability.FindOccurrences(occurrences, instant)
	if len(matches) == 0 {
		return nil, s.unavailable(ctx, mentorID, instant)
	}

	occ, ok := pickOccurrence(matches, req.GroupTier)
	if !ok {
		s.metrics.RecordBooking("rejected")
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no group-of-%d slot at %s", *req.GroupTier, instant.Format(time.RFC3339)))
	}

	participants := req.Participants
	if participants <= 0 {
		participants = 1
	}
	capacity := int(availability.TierFrom(occ.GroupTier).Normalize())
	if participants > capacity {
		s.metrics.RecordBooking("rejected")
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%d participants exceed the slot capacity of %d", participants, capacity))
	}

	booking := &models.Booking{
		MentorID:     mentorID,
		MenteeID:     menteeID,
		TemplateID:   occ.RuleID,
		StartInstant: occ.Start,
		EndInstant:   occ.End,
		GroupTier:    occ.GroupTier,
		Participants: participants,
	}
	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	if !created {
		s.metrics.RecordBooking("taken")
		return nil, appErrors.ErrSlotTaken
	}

	s.metrics.RecordBooking("created")
	s.cache.InvalidateMentor(ctx, mentorID)
	s.logger.Info("slot booked",
		zap.String("mentor_id", mentorID),
		zap.String("mentee_id", menteeID),
		zap.Time("start", booking.StartInstant),
		zap.Int("participants", participants),
	)

	return &dto.BookingResponse{
		ID:           booking.ID,
		MentorID:     booking.MentorID,
		MenteeID:     booking.MenteeID,
		TemplateID:   booking.TemplateID,
		StartInstant: booking.StartInstant,
		EndInstant:   booking.EndInstant,
		GroupTier:    booking.GroupTier,
		Badge:        availability.Badge(booking.GroupTier),
		Participants: booking.Participants,
	}, nil
}

// unavailable tells a taken instant apart from one that never was a slot.
func (s *BookingService) unavailable(ctx context.Context, mentorID string, instant time.Time) error {
	booked, err := s.bookings.BookedStarts(ctx, mentorID, instant, instant.Add(time.Second))
	if err == nil && len(booked) > 0 {
		s.metrics.RecordBooking("taken")
		return appErrors.ErrSlotTaken
	}
	s.metrics.RecordBooking("rejected")
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no bookable slot at %s", instant.Format(time.RFC3339)))
}

func pickOccurrence(matches []availability.Occurrence, requested *int) (availability.Occurrence, bool) {
	want := availability.Solo
	if requested != nil {
		want = availability.TierFrom(requested).Normalize()
	}
	for _, occ := range matches {
		if availability.TierFrom(occ.GroupTier).Normalize() == want {
			return occ, true
		}
	}
	if requested == nil {
		return matches[0], true
	}
	return availability.Occurrence{}, false
}
