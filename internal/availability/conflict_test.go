package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(start, end string, tier SessionTier) Rule {
	s, _ := ParseTimeOfDay(start)
	e, _ := ParseTimeOfDay(end)
	return Rule{Recurrence: Weekly{Day: Monday}, Start: s, End: e, Tier: tier}
}

func TestOverlapsIsSymmetricAndHalfOpen(t *testing.T) {
	pairs := []struct {
		a, b Rule
		want bool
	}{
		{slot("09:00", "09:30", Solo), slot("09:15", "09:45", Solo), true},
		{slot("09:00", "10:00", Solo), slot("09:15", "09:30", Solo), true},
		{slot("09:00", "09:30", Solo), slot("09:00", "09:30", Solo), true},
		{slot("09:00", "09:30", Solo), slot("09:30", "10:00", Solo), false},
		{slot("09:00", "09:30", Solo), slot("11:00", "11:30", Solo), false},
	}
	for _, p := range pairs {
		assert.Equal(t, p.want, Overlaps(p.a, p.b))
		assert.Equal(t, Overlaps(p.a, p.b), Overlaps(p.b, p.a))
		assert.Equal(t, Conflicts(p.a, p.b), Conflicts(p.b, p.a))
	}
}

func TestDetectConflictsNeverPairsRuleWithItself(t *testing.T) {
	assert.Empty(t, DetectConflicts(Monday, []Rule{slot("09:00", "10:00", Solo)}, ScopeWeekday))
}

func TestSoloAndGroupCoexist(t *testing.T) {
	rules := []Rule{slot("09:00", "09:30", Solo), slot("09:00", "09:30", 2)}
	assert.Empty(t, DetectConflicts(Monday, rules, ScopeWeekday))
}

func TestDifferentGroupSizesCoexist(t *testing.T) {
	rules := []Rule{slot("09:00", "09:30", 3), slot("09:00", "09:30", 5)}
	assert.Empty(t, DetectConflicts(Monday, rules, ScopeWeekday))
}

func TestSameGroupTierConflicts(t *testing.T) {
	rules := []Rule{slot("09:00", "09:30", 3), slot("09:00", "09:30", 3)}
	conflicts := DetectConflicts(Monday, rules, ScopeWeekday)
	require.Len(t, conflicts, 1)
	assert.Equal(t, DuplicateGroupSlot, conflicts[0].Kind)
}

func TestOverlappingSoloConflictNamesBothTimes(t *testing.T) {
	rules := []Rule{slot("09:00", "09:30", Solo), slot("09:15", "09:45", Solo)}
	conflicts := DetectConflicts(Monday, rules, ScopeWeekday)
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, DuplicateSoloSlot, c.Kind)
	assert.Equal(t, Monday, c.Day)
	assert.Equal(t, 0, c.First)
	assert.Equal(t, 1, c.Second)
	assert.Contains(t, c.Message, "09:00-09:30")
	assert.Contains(t, c.Message, "09:15-09:45")
}

func TestConflictScopeAcrossRecurrenceModes(t *testing.T) {
	first := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-13")}, Start: 9 * 60, End: 10 * 60}
	second := Rule{Recurrence: OnDate{Date: mustDate(t, "2025-01-20")}, Start: 9 * 60, End: 10 * 60}
	weekly := Rule{Recurrence: Weekly{Day: Monday}, Start: 9*60 + 30, End: 10*60 + 30}

	assert.Len(t, DetectConflicts(Monday, []Rule{first, second}, ScopeWeekday), 1)
	assert.Empty(t, DetectConflicts(Monday, []Rule{first, second}, ScopeCalendarDate))
	assert.Len(t, DetectConflicts(Monday, []Rule{first, weekly}, ScopeCalendarDate), 1)
}

func TestParseConflictScope(t *testing.T) {
	assert.Equal(t, ScopeCalendarDate, ParseConflictScope("Calendar-Date"))
	assert.Equal(t, ScopeWeekday, ParseConflictScope(""))
	assert.Equal(t, ScopeWeekday, ParseConflictScope("bogus"))
}
