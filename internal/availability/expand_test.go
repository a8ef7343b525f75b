package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWeeklyAndDateSpecific(t *testing.T) {
	rules := []Rule{
		{ID: "weekly", Recurrence: Weekly{Day: Monday}, Start: 9 * 60, End: 10 * 60},
		{ID: "dated", Recurrence: OnDate{Date: mustDate(t, "2025-01-15")}, Start: 14 * 60, End: 14*60 + 30, Tier: 3},
		{ID: "outside", Recurrence: OnDate{Date: mustDate(t, "2025-02-15")}, Start: 14 * 60, End: 15 * 60},
	}

	occ := Expand(rules, ExpandOptions{
		From: mustDate(t, "2025-01-08"),
		To:   mustDate(t, "2025-01-21"),
		Now:  fixedNow,
	})

	require.Len(t, occ, 3)
	assert.Equal(t, "2025-01-13T09:00:00Z", occ[0].Start.Format(time.RFC3339))
	assert.Equal(t, "2025-01-15T14:00:00Z", occ[1].Start.Format(time.RFC3339))
	assert.Equal(t, 3, *occ[1].GroupTier)
	assert.Equal(t, "2025-01-20T09:00:00Z", occ[2].Start.Format(time.RFC3339))
	assert.Nil(t, occ[0].GroupTier)
}

func TestExpandSkipsPastAndBooked(t *testing.T) {
	rules := []Rule{{ID: "weekly", Recurrence: Weekly{Day: Wednesday}, Start: 9 * 60, End: 10 * 60}}
	booked := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	occ := Expand(rules, ExpandOptions{
		From:   mustDate(t, "2025-01-08"),
		To:     mustDate(t, "2025-01-22"),
		Now:    fixedNow,
		Booked: []time.Time{booked},
	})

	require.Len(t, occ, 1)
	assert.Equal(t, "2025-01-22T09:00:00Z", occ[0].Start.Format(time.RFC3339))
}

func TestExpandInvertedWindow(t *testing.T) {
	rules := []Rule{{Recurrence: Weekly{Day: Monday}, Start: 9 * 60, End: 10 * 60}}
	assert.Empty(t, Expand(rules, ExpandOptions{From: mustDate(t, "2025-01-20"), To: mustDate(t, "2025-01-10")}))
}

func TestFindOccurrencesReturnsHeterogeneousOffers(t *testing.T) {
	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	occ := []Occurrence{
		{Start: start, RuleID: "solo"},
		{Start: start, RuleID: "group", GroupTier: intPtr(2)},
		{Start: start.Add(time.Hour), RuleID: "later"},
	}
	matches := FindOccurrences(occ, start)
	assert.Len(t, matches, 2)
}
