package service

import (
	"time"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/pkg/config"
)

// EngineSettings is the resolved scheduling configuration shared by the
// availability services.
type EngineSettings struct {
	Location         *time.Location
	MaxDuration      int
	DefaultStart     availability.TimeOfDay
	DefaultDuration  int
	Scope            availability.ConflictScope
	Concurrency      int
	LookaheadDays    int
	MaxLookaheadDays int
	SessionTTL       time.Duration
	SaveLockTTL      time.Duration
	Now              func() time.Time
}

// defaultSlotStart applies when DEFAULT_SLOT_START is empty or malformed.
const defaultSlotStart availability.TimeOfDay = 9 * 60

// NewEngineSettings resolves cfg, falling back to defaults for unusable values.
// A default start of 00:00 is honoured.
func NewEngineSettings(cfg config.AvailabilityConfig) EngineSettings {
	start, err := availability.ParseTimeOfDay(cfg.DefaultSlotStart)
	if err != nil {
		start = defaultSlotStart
	}
	return EngineSettings{
		Location:         cfg.Location(),
		MaxDuration:      cfg.MaxSlotMinutes,
		DefaultStart:     start,
		DefaultDuration:  cfg.DefaultSlotMinutes,
		Scope:            availability.ParseConflictScope(cfg.ConflictScope),
		Concurrency:      cfg.SaveConcurrency,
		LookaheadDays:    cfg.LookaheadDays,
		MaxLookaheadDays: cfg.MaxLookaheadDays,
		SessionTTL:       cfg.SessionTTL,
	}.withDefaults()
}

func (s EngineSettings) withDefaults() EngineSettings {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.MaxDuration <= 0 {
		s.MaxDuration = availability.DefaultMaxDuration
	}
	if s.DefaultDuration <= 0 || s.DefaultDuration > s.MaxDuration {
		s.DefaultDuration = s.MaxDuration
	}
	// A new slot has to end on the day it starts.
	if latest := availability.LastMinute - availability.TimeOfDay(s.DefaultDuration); s.DefaultStart > latest {
		s.DefaultStart = latest
	}
	if s.Scope == "" {
		s.Scope = availability.ScopeWeekday
	}
	if s.Concurrency <= 0 {
		s.Concurrency = 4
	}
	if s.LookaheadDays <= 0 {
		s.LookaheadDays = 14
	}
	if s.MaxLookaheadDays < s.LookaheadDays {
		s.MaxLookaheadDays = s.LookaheadDays
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = 2 * time.Hour
	}
	if s.SaveLockTTL <= 0 {
		s.SaveLockTTL = 30 * time.Second
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// Validator builds the rule validator for these settings.
func (s EngineSettings) Validator() *availability.Validator {
	return availability.NewValidator(s.MaxDuration, s.Location, s.Now)
}

// Today is the current date in the operating zone.
func (s EngineSettings) Today() availability.Date {
	return availability.DateIn(s.Now(), s.Location)
}

// EditorConfig builds the configuration of an editing session.
func (s EngineSettings) EditorConfig(pricing availability.GroupPricingTable, observer availability.SaveObserver) availability.EditorConfig {
	return availability.EditorConfig{
		Validator:       s.Validator(),
		Pricing:         pricing,
		Scope:           s.Scope,
		DefaultStart:    s.DefaultStart,
		DefaultDuration: s.DefaultDuration,
		Concurrency:     s.Concurrency,
		Observer:        observer,
	}
}
