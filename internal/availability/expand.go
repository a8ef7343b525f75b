package availability

import (
	"sort"
	"time"
)

// ExpandOptions bounds an expansion window.
type ExpandOptions struct {
	From Date
	To   Date
	// Now excludes occurrences that start at or before it.
	Now time.Time
	// Booked lists start instants that are already taken.
	Booked []time.Time
}

// Expand turns rules into concrete occurrences inside [From, To], one per
// matching date for weekly rules and at most one for date-specific rules.
func Expand(rules []Rule, opts ExpandOptions) []Occurrence {
	if opts.To.Before(opts.From) {
		return nil
	}
	booked := make(map[int64]struct{}, len(opts.Booked))
	for _, b := range opts.Booked {
		booked[b.UTC().Unix()] = struct{}{}
	}

	var out []Occurrence
	emit := func(d Date, r Rule) {
		start := ToUTCInstant(d, r.Start)
		if !start.After(opts.Now) {
			return
		}
		if _, taken := booked[start.Unix()]; taken {
			return
		}
		out = append(out, Occurrence{
			Start:     start,
			End:       ToUTCInstant(d, r.End),
			GroupTier: r.Tier.Nullable(),
			RuleID:    r.ID,
		})
	}

	for _, r := range rules {
		switch rec := r.Recurrence.(type) {
		case OnDate:
			if !rec.Date.Before(opts.From) && !rec.Date.After(opts.To) {
				emit(rec.Date, r)
			}
		case Weekly:
			for d := NextOccurrence(rec.Day, opts.From, IncludeToday); !d.After(opts.To); d = d.AddDays(7) {
				emit(d, r)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// FindOccurrences returns every occurrence starting exactly at instant.
func FindOccurrences(occurrences []Occurrence, instant time.Time) []Occurrence {
	var out []Occurrence
	for _, occ := range occurrences {
		if occ.Start.Equal(instant) {
			out = append(out, occ)
		}
	}
	return out
}
