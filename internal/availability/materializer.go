package availability

import (
	"fmt"
	"sort"
	"time"
)

// Occurrence is one concrete, bookable start produced by expansion.
type Occurrence struct {
	Start     time.Time `json:"startInstant"`
	End       time.Time `json:"endInstant"`
	GroupTier *int      `json:"groupTier"`
	RuleID    string    `json:"ruleId,omitempty"`
}

// MaterializedSlot groups the occurrences of one calendar date. DisplayTimes,
// StartInstants, GroupTiers and Badges are parallel and share indexes.
type MaterializedSlot struct {
	Date          Date        `json:"date"`
	DayLabel      string      `json:"dayLabel"`
	DisplayTimes  []string    `json:"displayTimes"`
	StartInstants []time.Time `json:"startInstants"`
	GroupTiers    []*int      `json:"groupTiers"`
	Badges        []string    `json:"badges"`
}

// Len is the number of bookable starts on the date.
func (m MaterializedSlot) Len() int {
	return len(m.StartInstants)
}

// Badge labels a tier: "Solo" or "Group of N".
func Badge(tier *int) string {
	if tier == nil || *tier <= 1 {
		return "Solo"
	}
	return fmt.Sprintf("Group of %d", *tier)
}

// Materialize groups occurrences by UTC calendar date, sorts each group by
// instant and the groups by date.
func Materialize(occurrences []Occurrence) []MaterializedSlot {
	byDate := make(map[Date][]Occurrence)
	for _, occ := range occurrences {
		key := DateOf(occ.Start.UTC())
		byDate[key] = append(byDate[key], occ)
	}

	dates := make([]Date, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]MaterializedSlot, 0, len(dates))
	for _, d := range dates {
		group := byDate[d]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Start.Before(group[j].Start) })

		slot := MaterializedSlot{
			Date:          d,
			DayLabel:      WeekdayOf(d).Abbrev(),
			DisplayTimes:  make([]string, 0, len(group)),
			StartInstants: make([]time.Time, 0, len(group)),
			GroupTiers:    make([]*int, 0, len(group)),
			Badges:        make([]string, 0, len(group)),
		}
		for _, occ := range group {
			tier := TierFrom(occ.GroupTier).Nullable()
			slot.DisplayTimes = append(slot.DisplayTimes, FormatAmPm(TimeOfDayOf(occ.Start)))
			slot.StartInstants = append(slot.StartInstants, occ.Start.UTC())
			slot.GroupTiers = append(slot.GroupTiers, tier)
			slot.Badges = append(slot.Badges, Badge(tier))
		}
		out = append(out, slot)
	}
	return out
}
