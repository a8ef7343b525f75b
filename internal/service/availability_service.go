package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

type sessionStore interface {
	Get(ctx context.Context, mentorID string, dest interface{}) error
	Put(ctx context.Context, mentorID string, snapshot interface{}, ttl time.Duration) error
	Delete(ctx context.Context, mentorID string) error
	AcquireSaveLock(ctx context.Context, mentorID string, ttl time.Duration) (string, bool, error)
	ReleaseSaveLock(ctx context.Context, mentorID, token string) error
}

// AvailabilityService runs weekly-schedule editing sessions. Session state
// lives in the session store between requests; edits for one mentor are
// serialised in-process and saves are serialised across instances by a
// store-side lock.
type AvailabilityService struct {
	templates templateRepository
	pricing   pricingRepository
	sessions  sessionStore
	cache     *CacheService
	metrics   *MetricsService
	settings  EngineSettings
	validator *validator.Validate
	logger    *zap.Logger

	locks sync.Map
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(templates templateRepository, pricing pricingRepository, sessions sessionStore, cache *CacheService, metrics *MetricsService, settings EngineSettings, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		templates: templates,
		pricing:   pricing,
		sessions:  sessions,
		cache:     cache,
		metrics:   metrics,
		settings:  settings.withDefaults(),
		validator: validate,
		logger:    logger,
	}
}

// Open starts (or restarts) an editing session from the stored rules.
func (s *AvailabilityService) Open(ctx context.Context, mentorID string) (*dto.SessionResponse, error) {
	unlock := s.lock(mentorID)
	defer unlock()

	pricing, err := s.loadPricing(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	editor := availability.NewEditor(s.store(mentorID), s.editorConfig(pricing))
	if err := editor.Load(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	if err := s.persist(ctx, mentorID, editor); err != nil {
		return nil, err
	}
	return s.sessionResponse(mentorID, editor.Schedule(), pricing), nil
}

// Get returns the current editing session.
func (s *AvailabilityService) Get(ctx context.Context, mentorID string) (*dto.SessionResponse, error) {
	pricing, err := s.loadPricing(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(mentorID, snap.Schedule, pricing), nil
}

// ToggleDay enables or disables a weekday.
func (s *AvailabilityService) ToggleDay(ctx context.Context, mentorID, day string, req dto.ToggleDayRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid toggle payload")
	}
	weekday, err := availability.ParseWeekday(day)
	if err != nil {
		return nil, mapEngineError(err)
	}
	return s.edit(ctx, mentorID, func(editor *availability.Editor) error {
		return editor.ToggleDay(weekday, *req.Enabled)
	})
}

// AddSlot appends a default rule to a weekday.
func (s *AvailabilityService) AddSlot(ctx context.Context, mentorID, day string) (*dto.AddSlotResponse, error) {
	weekday, err := availability.ParseWeekday(day)
	if err != nil {
		return nil, mapEngineError(err)
	}
	var index int
	session, err := s.edit(ctx, mentorID, func(editor *availability.Editor) error {
		idx, err := editor.AddSlot(weekday)
		index = idx
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.AddSlotResponse{Day: weekday, Index: index, Session: *session}, nil
}

// UpdateSlot applies a patch to one rule. Either every field of the patch is
// applied or the session is left unchanged.
func (s *AvailabilityService) UpdateSlot(ctx context.Context, mentorID, day string, index int, req dto.UpdateSlotRequest) (*dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if req.Recurring != nil && *req.Recurring && req.SpecificDate != nil {
		return nil, errBothRecurrences
	}
	weekday, err := availability.ParseWeekday(day)
	if err != nil {
		return nil, mapEngineError(err)
	}

	var date *availability.Date
	if req.SpecificDate != nil {
		parsed, err := availability.ParseDate(*req.SpecificDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "specificDate must be YYYY-MM-DD")
		}
		date = &parsed
	}

	return s.edit(ctx, mentorID, func(editor *availability.Editor) error {
		if req.Recurring != nil {
			if err := editor.SetRecurrenceMode(weekday, index, *req.Recurring); err != nil {
				return err
			}
		}
		if date != nil {
			if err := editor.UpdateSpecificDate(weekday, index, *date); err != nil {
				return err
			}
		}
		if req.StartTime != nil {
			if err := editor.UpdateTime(weekday, index, availability.StartField, *req.StartTime); err != nil {
				return err
			}
		}
		if req.EndTime != nil {
			if err := editor.UpdateTime(weekday, index, availability.EndField, *req.EndTime); err != nil {
				return err
			}
		}
		if req.GroupTier != nil {
			if err := editor.UpdateTier(weekday, index, availability.TierFrom(req.GroupTier)); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveSlot drops one rule, deleting it from storage first when persisted.
func (s *AvailabilityService) RemoveSlot(ctx context.Context, mentorID, day string, index int) (*dto.SessionResponse, error) {
	weekday, err := availability.ParseWeekday(day)
	if err != nil {
		return nil, mapEngineError(err)
	}
	session, err := s.edit(ctx, mentorID, func(editor *availability.Editor) error {
		return editor.RemoveSlot(ctx, weekday, index)
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateMentor(ctx, mentorID)
	return session, nil
}

// Save reconciles the session with storage and reloads it.
func (s *AvailabilityService) Save(ctx context.Context, mentorID string) (*dto.SaveResponse, error) {
	token, acquired, err := s.sessions.AcquireSaveLock(ctx, mentorID, s.settings.SaveLockTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire save lock")
	}
	if !acquired {
		return nil, appErrors.ErrSaveInProgress
	}
	defer func() {
		if err := s.sessions.ReleaseSaveLock(context.Background(), mentorID, token); err != nil {
			s.logger.Warn("release save lock failed", zap.String("mentor_id", mentorID), zap.Error(err))
		}
	}()

	unlock := s.lock(mentorID)
	defer unlock()

	pricing, err := s.loadPricing(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	editor := availability.RestoreEditor(s.store(mentorID), s.editorConfig(pricing), *snap)

	// Once the first store call is issued the save runs to completion.
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	report, err := editor.Save(ctx)
	s.metrics.ObserveSave(time.Since(start))
	if err != nil {
		if report == nil {
			return nil, mapEngineError(err)
		}
		// Storage was touched but the session could not be rebuilt.
		s.cache.InvalidateMentor(ctx, mentorID)
		if delErr := s.sessions.Delete(ctx, mentorID); delErr != nil {
			s.logger.Warn("drop session failed", zap.String("mentor_id", mentorID), zap.Error(delErr))
		}
		s.logger.Error("availability save incomplete", zap.String("mentor_id", mentorID), zap.String("summary", report.Summary()), zap.Error(err))
		return nil, withSaveReport(mapEngineError(err), report)
	}

	s.cache.InvalidateMentor(ctx, mentorID)
	if err := s.persist(ctx, mentorID, editor); err != nil {
		return nil, err
	}
	s.logger.Info("availability saved", zap.String("mentor_id", mentorID), zap.String("summary", report.Summary()))

	return &dto.SaveResponse{
		Summary: report.Summary(),
		Report:  *report,
		Session: *s.sessionResponse(mentorID, editor.Schedule(), pricing),
	}, nil
}

func (s *AvailabilityService) edit(ctx context.Context, mentorID string, fn func(*availability.Editor) error) (*dto.SessionResponse, error) {
	unlock := s.lock(mentorID)
	defer unlock()

	pricing, err := s.loadPricing(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	editor := availability.RestoreEditor(s.store(mentorID), s.editorConfig(pricing), *snap)
	if err := fn(editor); err != nil {
		var persistErr *availability.PersistenceError
		if errors.As(err, &persistErr) {
			s.logger.Error("availability store call failed", zap.String("mentor_id", mentorID), zap.String("op", persistErr.Op), zap.Error(persistErr.Err))
		}
		return nil, mapEngineError(err)
	}
	if err := s.persist(ctx, mentorID, editor); err != nil {
		return nil, err
	}
	return s.sessionResponse(mentorID, editor.Schedule(), pricing), nil
}

func (s *AvailabilityService) snapshot(ctx context.Context, mentorID string) (*availability.Snapshot, error) {
	var snap availability.Snapshot
	if err := s.sessions.Get(ctx, mentorID, &snap); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return &snap, nil
}

func (s *AvailabilityService) persist(ctx context.Context, mentorID string, editor *availability.Editor) error {
	if err := s.sessions.Put(ctx, mentorID, editor.Snapshot(), s.settings.SessionTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}
	return nil
}

func (s *AvailabilityService) loadPricing(ctx context.Context, mentorID string) (availability.GroupPricingTable, error) {
	table, err := loadPricing(ctx, s.pricing, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pricing")
	}
	return table, nil
}

func (s *AvailabilityService) store(mentorID string) availability.TemplateStore {
	return newMentorTemplateStore(s.templates, mentorID, s.metrics)
}

func (s *AvailabilityService) editorConfig(pricing availability.GroupPricingTable) availability.EditorConfig {
	return s.settings.EditorConfig(pricing, s.metrics.RecordSaveItem)
}

func (s *AvailabilityService) lock(mentorID string) func() {
	value, _ := s.locks.LoadOrStore(mentorID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *AvailabilityService) sessionResponse(mentorID string, schedule availability.WeeklySchedule, pricing availability.GroupPricingTable) *dto.SessionResponse {
	return &dto.SessionResponse{
		MentorID:        mentorID,
		Schedule:        schedule,
		OfferableTiers:  pricing.OfferableTiers(),
		MaxDuration:     s.settings.MaxDuration,
		DefaultDuration: s.settings.DefaultDuration,
	}
}
