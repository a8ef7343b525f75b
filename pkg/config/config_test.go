package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAvailabilityDefaults(t *testing.T) {
	t.Setenv("MAX_SLOT_MINUTES", "45")
	t.Setenv("DEFAULT_SLOT_MINUTES", "90")
	t.Setenv("LOOKAHEAD_DAYS", "30")
	t.Setenv("MAX_LOOKAHEAD_DAYS", "10")
	t.Setenv("SESSION_TTL", "bogus")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 45, cfg.Availability.MaxSlotMinutes)
	assert.Equal(t, 45, cfg.Availability.DefaultSlotMinutes)
	assert.Equal(t, 30, cfg.Availability.LookaheadDays)
	assert.Equal(t, 30, cfg.Availability.MaxLookaheadDays)
	assert.Equal(t, 2*time.Hour, cfg.Availability.SessionTTL)
}

func TestAvailabilityLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, AvailabilityConfig{}.Location())
	assert.Equal(t, time.UTC, AvailabilityConfig{OperatingTimezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "Asia/Kolkata", AvailabilityConfig{OperatingTimezone: "Asia/Kolkata"}.Location().String())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitAndTrim(" https://a.example , ,https://b.example"))
	assert.Nil(t, splitAndTrim(""))
}
