package availability

import (
	"encoding/json"
	"fmt"
)

// Recurrence is either Weekly or OnDate. The unexported method keeps the set closed.
type Recurrence interface {
	isRecurrence()
}

// Weekly repeats every week on Day.
type Weekly struct {
	Day Weekday
}

// OnDate applies to exactly one calendar date.
type OnDate struct {
	Date Date
}

func (Weekly) isRecurrence() {}
func (OnDate) isRecurrence() {}

// SessionTier is the participant capacity of a rule; 1 means solo.
type SessionTier int

// Solo is the default single-mentee tier.
const Solo SessionTier = 1

// IsGroup reports whether the tier admits more than one participant.
func (t SessionTier) IsGroup() bool {
	return t > 1
}

// Normalize maps zero and negative values onto Solo.
func (t SessionTier) Normalize() SessionTier {
	if t <= 1 {
		return Solo
	}
	return t
}

// Nullable returns nil for solo and the size for group tiers.
func (t SessionTier) Nullable() *int {
	if !t.IsGroup() {
		return nil
	}
	n := int(t)
	return &n
}

// TierFrom reads a nullable tier.
func TierFrom(v *int) SessionTier {
	if v == nil {
		return Solo
	}
	return SessionTier(*v).Normalize()
}

// Rule is a single availability template.
type Rule struct {
	ID         string
	Recurrence Recurrence
	Start      TimeOfDay
	End        TimeOfDay
	Tier       SessionTier
}

// Persisted reports whether the store has assigned an identifier.
func (r Rule) Persisted() bool {
	return r.ID != ""
}

// DurationMinutes is End minus Start.
func (r Rule) DurationMinutes() int {
	return int(r.End) - int(r.Start)
}

// IsRecurring reports whether the rule repeats weekly.
func (r Rule) IsRecurring() bool {
	_, ok := r.Recurrence.(Weekly)
	return ok
}

// SpecificDate returns the date of a date-specific rule.
func (r Rule) SpecificDate() (Date, bool) {
	on, ok := r.Recurrence.(OnDate)
	return on.Date, ok
}

// Bucket resolves the weekday a rule belongs under.
func (r Rule) Bucket() (Weekday, bool) {
	switch rec := r.Recurrence.(type) {
	case Weekly:
		return rec.Day, true
	case OnDate:
		return WeekdayOf(rec.Date), true
	default:
		return "", false
	}
}

// Label is a short human description, e.g. "09:00-10:00 (group of 3)".
func (r Rule) Label() string {
	if r.Tier.IsGroup() {
		return fmt.Sprintf("%s-%s (group of %d)", r.Start, r.End, r.Tier)
	}
	return fmt.Sprintf("%s-%s (solo)", r.Start, r.End)
}

// Equal compares every field, including the recurrence payload.
func (r Rule) Equal(other Rule) bool {
	return r.ID == other.ID &&
		r.Start == other.Start &&
		r.End == other.End &&
		r.Tier.Normalize() == other.Tier.Normalize() &&
		r.Recurrence == other.Recurrence
}

type ruleJSON struct {
	ID              string    `json:"id,omitempty"`
	DayOfWeek       *Weekday  `json:"dayOfWeek,omitempty"`
	SpecificDate    *Date     `json:"specificDate,omitempty"`
	StartTime       TimeOfDay `json:"startTime"`
	EndTime         TimeOfDay `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	GroupTier       *int      `json:"groupTier"`
}

// MarshalJSON writes the discriminated union as two mutually exclusive fields.
func (r Rule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{
		ID:              r.ID,
		StartTime:       r.Start,
		EndTime:         r.End,
		DurationMinutes: r.DurationMinutes(),
		GroupTier:       r.Tier.Nullable(),
	}
	switch rec := r.Recurrence.(type) {
	case Weekly:
		day := rec.Day
		out.DayOfWeek = &day
	case OnDate:
		date := rec.Date
		out.SpecificDate = &date
	}
	return json.Marshal(out)
}

// UnmarshalJSON rejects payloads carrying both or neither recurrence marker.
func (r *Rule) UnmarshalJSON(b []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	var rec Recurrence
	switch {
	case in.DayOfWeek != nil && in.SpecificDate != nil:
		return fmt.Errorf("rule carries both dayOfWeek and specificDate")
	case in.DayOfWeek != nil:
		day, err := ParseWeekday(string(*in.DayOfWeek))
		if err != nil {
			return err
		}
		rec = Weekly{Day: day}
	case in.SpecificDate != nil:
		rec = OnDate{Date: *in.SpecificDate}
	default:
		return fmt.Errorf("rule carries neither dayOfWeek nor specificDate")
	}
	*r = Rule{
		ID:         in.ID,
		Recurrence: rec,
		Start:      in.StartTime,
		End:        in.EndTime,
		Tier:       TierFrom(in.GroupTier),
	}
	return nil
}
