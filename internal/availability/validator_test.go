package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday 2025-01-08 10:00 UTC.
var fixedNow = time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(60, time.UTC, func() time.Time { return fixedNow })
}

func kinds(vs []Violation) []ViolationKind {
	out := make([]ViolationKind, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Kind)
	}
	return out
}

func TestValidatorAcceptsWellFormedRule(t *testing.T) {
	v := newTestValidator()
	rule := Rule{Recurrence: Weekly{Day: Monday}, Start: 9 * 60, End: 10 * 60, Tier: Solo}
	assert.Empty(t, v.Validate(rule, Monday, 0))
}

func TestValidatorInvertedRange(t *testing.T) {
	v := newTestValidator()
	rule := Rule{Recurrence: Weekly{Day: Monday}, Start: 10 * 60, End: 10 * 60}
	assert.Equal(t, []ViolationKind{InvertedRange}, kinds(v.Validate(rule, Monday, 0)))

	rule.End = 9 * 60
	assert.Equal(t, []ViolationKind{InvertedRange}, kinds(v.Validate(rule, Monday, 0)))
}

func TestValidatorDurationCap(t *testing.T) {
	v := newTestValidator()
	rule := Rule{Recurrence: Weekly{Day: Monday}, Start: 9 * 60, End: 10*60 + 1}
	violations := v.Validate(rule, Monday, 2)
	require.Len(t, violations, 1)
	assert.Equal(t, DurationExceeded, violations[0].Kind)
	assert.Equal(t, 2, violations[0].Index)
	assert.Contains(t, violations[0].Message, "61 minutes")
}

func TestValidatorWeekdayDateMismatch(t *testing.T) {
	v := newTestValidator()
	rule := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-13")}, Start: 9 * 60, End: 10 * 60}
	assert.Equal(t, []ViolationKind{WeekdayDateMismatch}, kinds(v.Validate(rule, Tuesday, 0)))
	assert.Empty(t, v.Validate(rule, Monday, 0))
}

func TestValidatorPastSlotOnlyForNewDateRules(t *testing.T) {
	v := newTestValidator()

	yesterday := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-07")}, Start: 9 * 60, End: 10 * 60}
	assert.Equal(t, []ViolationKind{PastSlot}, kinds(v.Validate(yesterday, Tuesday, 0)))

	earlierToday := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-08")}, Start: 9 * 60, End: 10 * 60}
	assert.Equal(t, []ViolationKind{PastSlot}, kinds(v.Validate(earlierToday, Wednesday, 0)))

	laterToday := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-08")}, Start: 10 * 60, End: 11 * 60}
	assert.Empty(t, v.Validate(laterToday, Wednesday, 0))

	persisted := yesterday
	persisted.ID = "tpl-1"
	assert.Empty(t, v.Validate(persisted, Tuesday, 0))

	recurring := Rule{Recurrence: Weekly{Day: Wednesday}, Start: 6 * 60, End: 7 * 60}
	assert.Empty(t, v.Validate(recurring, Wednesday, 0))
}

func TestValidatorPastSlotUsesOperatingZone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 20:00 UTC on Tuesday is already 01:30 Wednesday in Kolkata.
	now := time.Date(2025, 1, 7, 20, 0, 0, 0, time.UTC)
	v := NewValidator(60, kolkata, func() time.Time { return now })

	tuesday := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-07")}, Start: 22 * 60, End: 23 * 60}
	assert.Equal(t, []ViolationKind{PastSlot}, kinds(v.Validate(tuesday, Tuesday, 0)))
	assert.Equal(t, mustDate(t, "2025-01-08"), v.Today())
}

func TestValidatorPastSlotMatchesExpandedInstant(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 22:00 on Tuesday in New York is 03:00 UTC on Wednesday.
	now := time.Date(2025, 1, 8, 3, 0, 0, 0, time.UTC)
	v := NewValidator(60, newYork, func() time.Time { return now })

	early := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-08")}, Start: 60, End: 2 * 60}
	assert.Equal(t, []ViolationKind{PastSlot}, kinds(v.Validate(early, Wednesday, 0)))
	assert.Empty(t, Expand([]Rule{early}, ExpandOptions{From: mustDate(t, "2025-01-08"), To: mustDate(t, "2025-01-08"), Now: now}))

	later := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-08")}, Start: 4 * 60, End: 5 * 60}
	assert.Empty(t, v.Validate(later, Wednesday, 0))
}

func TestValidatorRejectsSlotPastMidnight(t *testing.T) {
	v := newTestValidator()
	rule := Rule{Recurrence: Weekly{Day: Monday}, Start: 23*60 + 30, End: 24*60 + 30}
	violations := v.Validate(rule, Monday, 0)
	require.Len(t, violations, 1)
	assert.Equal(t, OutsideDay, violations[0].Kind)
	assert.Contains(t, violations[0].Message, "23:30-24:30")

	rule.End = LastMinute
	assert.Empty(t, v.Validate(rule, Monday, 0))
}

func TestValidatorReportsEveryViolation(t *testing.T) {
	v := newTestValidator()
	rule := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-06")}, Start: 11 * 60, End: 9 * 60}
	assert.ElementsMatch(t, []ViolationKind{InvertedRange, WeekdayDateMismatch, PastSlot}, kinds(v.Validate(rule, Friday, 0)))
}

func TestValidatorMissingRecurrence(t *testing.T) {
	v := newTestValidator()
	assert.Equal(t, []ViolationKind{MissingRecurrence}, kinds(v.Validate(Rule{Start: 60, End: 120}, Monday, 0)))
}
