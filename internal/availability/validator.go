package availability

import (
	"fmt"
	"time"
)

// DefaultMaxDuration is the longest bookable rule in minutes.
const DefaultMaxDuration = 60

// Validator checks a single rule in isolation.
type Validator struct {
	MaxDurationMinutes int
	// Location is the operating zone used for past-slot checks.
	Location *time.Location
	Now      func() time.Time
}

// NewValidator builds a validator for the operating zone.
func NewValidator(maxDuration int, loc *time.Location, now func() time.Time) *Validator {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{MaxDurationMinutes: maxDuration, Location: loc, Now: now}
}

// Validate returns every violation of rule filed under bucket; nil means valid.
func (v *Validator) Validate(rule Rule, bucket Weekday, index int) []Violation {
	var out []Violation
	add := func(kind ViolationKind, format string, args ...interface{}) {
		out = append(out, Violation{Kind: kind, Day: bucket, Index: index, Message: fmt.Sprintf(format, args...)})
	}

	if rule.Recurrence == nil {
		add(MissingRecurrence, "%s slot %s-%s has neither a weekday nor a date", bucket, rule.Start, rule.End)
	}

	if rule.Start < 0 || rule.End > LastMinute {
		add(OutsideDay, "%s slot %s-%s must start and end between 00:00 and 23:59", bucket, rule.Start, rule.End)
	} else if rule.Start >= rule.End {
		add(InvertedRange, "%s slot %s-%s: start time must be before end time", bucket, rule.Start, rule.End)
	} else if rule.DurationMinutes() > v.MaxDurationMinutes {
		add(DurationExceeded, "%s slot %s-%s lasts %d minutes; the maximum is %d", bucket, rule.Start, rule.End, rule.DurationMinutes(), v.MaxDurationMinutes)
	}

	date, specific := rule.SpecificDate()
	if !specific {
		return out
	}
	if violation := v.CheckDateBucket(date, bucket, index); violation != nil {
		out = append(out, *violation)
	}
	if !rule.Persisted() && v.isPast(date, rule.Start) {
		add(PastSlot, "%s slot on %s at %s is in the past", bucket, date, rule.Start)
	}
	return out
}

// CheckDateBucket verifies that date falls on bucket.
func (v *Validator) CheckDateBucket(date Date, bucket Weekday, index int) *Violation {
	actual := WeekdayOf(date)
	if actual == bucket {
		return nil
	}
	return &Violation{
		Kind:    WeekdayDateMismatch,
		Day:     bucket,
		Index:   index,
		Message: fmt.Sprintf("%s is a %s, not a %s", date, actual, bucket),
	}
}

// isPast holds when the start has gone by on the operating zone's wall clock or
// when its UTC instant, which is what expansion emits, is no longer ahead.
func (v *Validator) isPast(date Date, start TimeOfDay) bool {
	if ToUTCInstant(date, start).Before(v.Now().Truncate(time.Minute)) {
		return true
	}
	now := v.Now().In(v.Location)
	today := DateOf(now)
	if date.Before(today) {
		return true
	}
	if date == today {
		current := TimeOfDay(now.Hour()*60 + now.Minute())
		return start < current
	}
	return false
}

// Today is the current date in the operating zone.
func (v *Validator) Today() Date {
	return DateIn(v.Now(), v.Location)
}
