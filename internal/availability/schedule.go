package availability

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DaySchedule holds the rules filed under one weekday.
type DaySchedule struct {
	Enabled bool   `json:"enabled"`
	Rules   []Rule `json:"slots"`
}

// WeeklySchedule maps every weekday to its DaySchedule. Values are never
// mutated in place: every With* method returns a fresh copy.
type WeeklySchedule struct {
	days map[Weekday]DaySchedule
}

// NewWeeklySchedule returns a schedule with seven empty, disabled days.
func NewWeeklySchedule() WeeklySchedule {
	days := make(map[Weekday]DaySchedule, len(Weekdays))
	for _, d := range Weekdays {
		days[d] = DaySchedule{}
	}
	return WeeklySchedule{days: days}
}

// BuildWeeklySchedule files stored rules into day buckets. Recurring rules go
// under their weekday, date-specific rules under the weekday of their date; a
// day is enabled when it holds at least one rule.
func BuildWeeklySchedule(rules []Rule) WeeklySchedule {
	days := NewWeeklySchedule().days
	for _, r := range rules {
		bucket, ok := r.Bucket()
		if !ok {
			continue
		}
		day := days[bucket]
		day.Enabled = true
		day.Rules = append(day.Rules, r)
		days[bucket] = day
	}
	for d, day := range days {
		sort.SliceStable(day.Rules, func(i, j int) bool { return day.Rules[i].Start < day.Rules[j].Start })
		days[d] = day
	}
	return WeeklySchedule{days: days}
}

// Day returns a copy of the bucket.
func (w WeeklySchedule) Day(day Weekday) DaySchedule {
	ds := w.days[day]
	return DaySchedule{Enabled: ds.Enabled, Rules: append([]Rule(nil), ds.Rules...)}
}

// Rule returns the rule at index in day.
func (w WeeklySchedule) Rule(day Weekday, index int) (Rule, error) {
	if !day.Valid() {
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	rules := w.days[day].Rules
	if index < 0 || index >= len(rules) {
		return Rule{}, fmt.Errorf("%w: %s[%d]", ErrSlotIndex, day, index)
	}
	return rules[index], nil
}

// VisibleRules is what a UI renders: nothing for a disabled day.
func (w WeeklySchedule) VisibleRules(day Weekday) []Rule {
	ds := w.days[day]
	if !ds.Enabled {
		return nil
	}
	return append([]Rule(nil), ds.Rules...)
}

// AllRules flattens every bucket in weekday order.
func (w WeeklySchedule) AllRules() []Rule {
	var out []Rule
	for _, d := range Weekdays {
		out = append(out, w.days[d].Rules...)
	}
	return out
}

func (w WeeklySchedule) clone() WeeklySchedule {
	days := make(map[Weekday]DaySchedule, len(Weekdays))
	for _, d := range Weekdays {
		ds := w.days[d]
		days[d] = DaySchedule{Enabled: ds.Enabled, Rules: append([]Rule(nil), ds.Rules...)}
	}
	return WeeklySchedule{days: days}
}

// WithEnabled toggles a day without touching its rules.
func (w WeeklySchedule) WithEnabled(day Weekday, enabled bool) WeeklySchedule {
	next := w.clone()
	ds := next.days[day]
	ds.Enabled = enabled
	next.days[day] = ds
	return next
}

// WithRuleAppended adds rule at the end of day.
func (w WeeklySchedule) WithRuleAppended(day Weekday, rule Rule) WeeklySchedule {
	next := w.clone()
	ds := next.days[day]
	ds.Rules = append(ds.Rules, rule)
	next.days[day] = ds
	return next
}

// WithRuleReplaced swaps the rule at index.
func (w WeeklySchedule) WithRuleReplaced(day Weekday, index int, rule Rule) WeeklySchedule {
	next := w.clone()
	next.days[day].Rules[index] = rule
	return next
}

// WithRuleRemoved drops the rule at index.
func (w WeeklySchedule) WithRuleRemoved(day Weekday, index int) WeeklySchedule {
	next := w.clone()
	ds := next.days[day]
	ds.Rules = append(ds.Rules[:index], ds.Rules[index+1:]...)
	next.days[day] = ds
	return next
}

// MarshalJSON writes all seven days keyed by weekday name.
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[Weekday]DaySchedule, len(Weekdays))
	for _, d := range Weekdays {
		ds := w.days[d]
		if ds.Rules == nil {
			ds.Rules = []Rule{}
		}
		out[d] = ds
	}
	return json.Marshal(out)
}

// UnmarshalJSON fills in any missing weekday so the schedule stays complete.
func (w *WeeklySchedule) UnmarshalJSON(b []byte) error {
	var in map[string]DaySchedule
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	next := NewWeeklySchedule()
	for key, ds := range in {
		day, err := ParseWeekday(key)
		if err != nil {
			return err
		}
		next.days[day] = ds
	}
	*w = next
	return nil
}
