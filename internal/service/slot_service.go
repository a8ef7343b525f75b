package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

type bookingRepository interface {
	BookedStarts(ctx context.Context, mentorID string, from, to time.Time) ([]time.Time, error)
	Create(ctx context.Context, booking *models.Booking) (bool, error)
}

// SlotService expands stored rules into bookable slots.
type SlotService struct {
	templates templateRepository
	bookings  bookingRepository
	cache     *CacheService
	metrics   *MetricsService
	settings  EngineSettings
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSlotService constructs a SlotService.
func NewSlotService(templates templateRepository, bookings bookingRepository, cache *CacheService, metrics *MetricsService, settings EngineSettings, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{
		templates: templates,
		bookings:  bookings,
		cache:     cache,
		metrics:   metrics,
		settings:  settings.withDefaults(),
		validator: validate,
		logger:    logger,
	}
}

// Window resolves the inclusive listing window. From defaults to today in the
// operating zone and never lies before it; the window spans LookaheadDays by
// default and at most MaxLookaheadDays.
func (s *SlotService) Window(query dto.SlotWindowQuery) (availability.Date, availability.Date, error) {
	if err := s.validator.Struct(query); err != nil {
		return availability.Date{}, availability.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "from and to must be YYYY-MM-DD")
	}

	today := s.settings.Today()
	from := today
	if query.From != "" {
		parsed, err := availability.ParseDate(query.From)
		if err != nil {
			return availability.Date{}, availability.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "from must be YYYY-MM-DD")
		}
		if parsed.After(today) {
			from = parsed
		}
	}

	to := from.AddDays(s.settings.LookaheadDays - 1)
	if query.To != "" {
		parsed, err := availability.ParseDate(query.To)
		if err != nil {
			return availability.Date{}, availability.Date{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "to must be YYYY-MM-DD")
		}
		if parsed.Before(from) {
			return availability.Date{}, availability.Date{}, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
		}
		to = parsed
	}
	if limit := from.AddDays(s.settings.MaxLookaheadDays - 1); to.After(limit) {
		to = limit
	}
	return from, to, nil
}

// List returns the materialized slots of a mentor. The boolean reports a
// cache hit.
func (s *SlotService) List(ctx context.Context, mentorID string, query dto.SlotWindowQuery) (*dto.SlotListResponse, bool, error) {
	from, to, err := s.Window(query)
	if err != nil {
		return nil, false, err
	}

	key := SlotListKey(mentorID, from, to)
	var cached dto.SlotListResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	occurrences, err := s.Occurrences(ctx, mentorID, from, to)
	if err != nil {
		return nil, false, err
	}
	slots := availability.Materialize(occurrences)
	s.metrics.AddMaterializedSlots(len(occurrences))

	resp := &dto.SlotListResponse{MentorID: mentorID, From: from, To: to, Slots: slots}
	_ = s.cache.Set(ctx, key, resp, 0)
	return resp, false, nil
}

// Occurrences expands the mentor's rules over [from, to], dropping past and
// already booked starts.
func (s *SlotService) Occurrences(ctx context.Context, mentorID string, from, to availability.Date) ([]availability.Occurrence, error) {
	rules, err := newMentorTemplateStore(s.templates, mentorID, s.metrics).List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load templates")
	}

	start := time.Now()
	booked, err := s.bookings.BookedStarts(ctx, mentorID, from.UTCMidnight(), to.AddDays(1).UTCMidnight())
	s.metrics.ObserveDBQuery("bookings_booked_starts", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	return availability.Expand(rules, availability.ExpandOptions{
		From:   from,
		To:     to,
		Now:    s.settings.Now(),
		Booked: booked,
	}), nil
}
