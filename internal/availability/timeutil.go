package availability

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Weekday is the symbolic day bucket a rule is filed under.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists every bucket in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayIndex = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// ParseWeekday accepts any casing of the weekday name.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := weekdayIndex[day]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownDay, raw)
	}
	return day, nil
}

// Valid reports whether the weekday is one of the seven symbols.
func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

// Abbrev returns the three letter label, e.g. "Mon".
func (d Weekday) Abbrev() string {
	if !d.Valid() {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:3])
}

func fromTimeWeekday(w time.Weekday) Weekday {
	for day, idx := range weekdayIndex {
		if idx == w {
			return day
		}
	}
	return ""
}

// Date is a calendar date without time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return DateOf(t), nil
}

// DateOf takes the calendar fields of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// DateIn returns the calendar date of t as observed in loc.
func DateIn(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(t.In(loc))
}

// UTCMidnight anchors the date at 00:00 UTC.
func (d Date) UTCMidnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays shifts the date, normalising month/year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(d.UTCMidnight().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.UTCMidnight().Before(other.UTCMidnight())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.UTCMidnight().After(other.UTCMidnight())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes YYYY-MM-DD.
func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekdayOf derives the weekday from UTC fields only, so the answer does not
// depend on the zone of the process evaluating it.
func WeekdayOf(d Date) Weekday {
	return fromTimeWeekday(d.UTCMidnight().Weekday())
}

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// LastMinute is the latest representable time of day, 23:59.
const LastMinute TimeOfDay = 23*60 + 59

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseTimeOfDay parses a zero-padded 24 hour HH:MM value.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	m := hhmmPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, &MalformedTimeError{Value: raw}
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return TimeOfDay(h*60 + mins), nil
}

// MinutesOf converts HH:MM into minutes since midnight.
func MinutesOf(raw string) (int, error) {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return 0, err
	}
	return int(t), nil
}

// Clock splits the value into hour and minute.
func (t TimeOfDay) Clock() (int, int) {
	return int(t) / 60, int(t) % 60
}

func (t TimeOfDay) String() string {
	h, m := t.Clock()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// MarshalJSON encodes as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "HH:MM".
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FormatAmPm renders the time as "09:00 AM".
func FormatAmPm(t TimeOfDay) string {
	h, m := t.Clock()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, m, suffix)
}

var ampmPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):([0-5][0-9])\s*([AaPp][Mm])$`)

// ParseAmPm is the inverse of FormatAmPm.
func ParseAmPm(raw string) (TimeOfDay, error) {
	m := ampmPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, &MalformedTimeError{Value: raw}
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	h %= 12
	if strings.EqualFold(m[3], "PM") {
		h += 12
	}
	return TimeOfDay(h*60 + mins), nil
}

// OccurrenceMode decides what NextOccurrence returns when from already falls on the weekday.
type OccurrenceMode int

const (
	// IncludeToday returns from itself when it matches; used for display.
	IncludeToday OccurrenceMode = iota
	// SkipToday jumps a full week; used when proposing dates for new rules.
	SkipToday
)

// NextOccurrence returns the first date at or after from that falls on day.
func NextOccurrence(day Weekday, from Date, mode OccurrenceMode) Date {
	target := weekdayIndex[day]
	current := from.UTCMidnight().Weekday()
	daysUntil := (int(target) - int(current) + 7) % 7
	if daysUntil == 0 && mode == SkipToday {
		daysUntil = 7
	}
	return from.AddDays(daysUntil)
}

// ToUTCInstant combines a calendar date and a wall-clock time into an absolute
// instant without consulting any process-local zone.
func ToUTCInstant(d Date, t TimeOfDay) time.Time {
	h, m := t.Clock()
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, time.UTC)
}

// TimeOfDayOf extracts the UTC wall-clock time of an instant.
func TimeOfDayOf(instant time.Time) TimeOfDay {
	u := instant.UTC()
	return TimeOfDay(u.Hour()*60 + u.Minute())
}
