package availability

import (
	"fmt"
	"strings"
)

// ConflictScope selects which rules of a day bucket are compared.
type ConflictScope string

const (
	// ScopeWeekday compares every rule filed under the same weekday.
	ScopeWeekday ConflictScope = "weekday"
	// ScopeCalendarDate skips pairs of date-specific rules on different dates.
	ScopeCalendarDate ConflictScope = "calendar-date"
)

// ParseConflictScope falls back to ScopeWeekday for unknown values.
func ParseConflictScope(raw string) ConflictScope {
	if ConflictScope(strings.ToLower(strings.TrimSpace(raw))) == ScopeCalendarDate {
		return ScopeCalendarDate
	}
	return ScopeWeekday
}

// Overlaps uses half-open intervals: [a.Start, a.End) and [b.Start, b.End).
func Overlaps(a, b Rule) bool {
	return a.Start < b.End && b.Start < a.End
}

// Classify returns the conflict kind for an overlapping pair, or false when the
// overlap is allowed (solo against group, or two different group sizes).
func Classify(a, b Rule) (ConflictKind, bool) {
	ta, tb := a.Tier.Normalize(), b.Tier.Normalize()
	switch {
	case !ta.IsGroup() && !tb.IsGroup():
		return DuplicateSoloSlot, true
	case ta.IsGroup() && ta == tb:
		return DuplicateGroupSlot, true
	default:
		return "", false
	}
}

// Conflicts reports whether a and b may not coexist in the same bucket.
func Conflicts(a, b Rule) bool {
	if !Overlaps(a, b) {
		return false
	}
	_, bad := Classify(a, b)
	return bad
}

func inScope(a, b Rule, scope ConflictScope) bool {
	if scope != ScopeCalendarDate {
		return true
	}
	da, okA := a.SpecificDate()
	db, okB := b.SpecificDate()
	if okA && okB {
		return da == db
	}
	return true
}

// DetectConflicts checks every unordered pair of rules in one day bucket.
func DetectConflicts(day Weekday, rules []Rule, scope ConflictScope) []Conflict {
	var out []Conflict
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			a, b := rules[i], rules[j]
			if !inScope(a, b, scope) || !Overlaps(a, b) {
				continue
			}
			kind, bad := Classify(a, b)
			if !bad {
				continue
			}
			out = append(out, Conflict{
				Kind:    kind,
				Day:     day,
				First:   i,
				Second:  j,
				Message: conflictMessage(kind, day, a, b),
			})
		}
	}
	return out
}

func conflictMessage(kind ConflictKind, day Weekday, a, b Rule) string {
	if kind == DuplicateGroupSlot {
		return fmt.Sprintf("%s: group-of-%d slots %s-%s and %s-%s overlap", day, a.Tier, a.Start, a.End, b.Start, b.End)
	}
	return fmt.Sprintf("%s: solo slots %s-%s and %s-%s overlap", day, a.Start, a.End, b.Start, b.End)
}
