package availability

import (
	"context"
	"fmt"
	"sync"
)

// TemplateStore is the persistence collaborator for one mentor's rules.
type TemplateStore interface {
	List(ctx context.Context) ([]Rule, error)
	Create(ctx context.Context, rule Rule) (Rule, error)
	Update(ctx context.Context, id string, rule Rule) (Rule, error)
	Delete(ctx context.Context, id string) error
}

// TimeField selects which bound UpdateTime changes.
type TimeField string

const (
	StartField TimeField = "start"
	EndField   TimeField = "end"
)

// SaveObserver receives one call per executed store operation.
type SaveObserver func(op string, ok bool)

// EditorConfig carries the knobs of an editing session. DefaultStart is taken
// as given; its zero value is midnight.
type EditorConfig struct {
	Validator       *Validator
	Pricing         GroupPricingTable
	Scope           ConflictScope
	DefaultStart    TimeOfDay
	DefaultDuration int
	Concurrency     int
	Observer        SaveObserver
}

// Snapshot is the serialisable state of an editing session.
type Snapshot struct {
	Schedule WeeklySchedule `json:"schedule"`
	Baseline []Rule         `json:"baseline"`
}

// Editor owns one mentor's WeeklySchedule for the length of an editing
// session. Mutations are serialised by mu and replace the schedule value.
type Editor struct {
	mu       sync.Mutex
	store    TemplateStore
	cfg      EditorConfig
	schedule WeeklySchedule
	baseline map[string]Rule
}

// NewEditor creates an editor with an empty schedule; call Load to populate it.
func NewEditor(store TemplateStore, cfg EditorConfig) *Editor {
	if cfg.Validator == nil {
		cfg.Validator = NewValidator(DefaultMaxDuration, nil, nil)
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = cfg.Validator.MaxDurationMinutes
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Scope == "" {
		cfg.Scope = ScopeWeekday
	}
	return &Editor{store: store, cfg: cfg, schedule: NewWeeklySchedule(), baseline: map[string]Rule{}}
}

// RestoreEditor resumes a session from a snapshot.
func RestoreEditor(store TemplateStore, cfg EditorConfig, snap Snapshot) *Editor {
	e := NewEditor(store, cfg)
	e.schedule = snap.Schedule.clone()
	for _, r := range snap.Baseline {
		e.baseline[r.ID] = r
	}
	return e
}

// Load replaces the session state with what the store holds.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.reload(ctx)
	return err
}

func (e *Editor) reload(ctx context.Context) (int, error) {
	rules, err := e.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	e.schedule = BuildWeeklySchedule(rules)
	e.baseline = make(map[string]Rule, len(rules))
	for _, r := range rules {
		if r.Persisted() {
			e.baseline[r.ID] = r
		}
	}
	return len(rules), nil
}

// Schedule returns the current value.
func (e *Editor) Schedule() WeeklySchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schedule
}

// Snapshot captures the session for later RestoreEditor.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	baseline := make([]Rule, 0, len(e.baseline))
	for _, r := range e.schedule.AllRules() {
		if b, ok := e.baseline[r.ID]; ok && r.Persisted() {
			baseline = append(baseline, b)
		}
	}
	return Snapshot{Schedule: e.schedule.clone(), Baseline: baseline}
}

// ToggleDay flips a day on or off. Rules stay in memory; a disabled day's
// persisted rules are deleted on the next Save.
func (e *Editor) ToggleDay(day Weekday, enabled bool) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.schedule = e.schedule.WithEnabled(day, enabled)
	return nil
}

// AddSlot appends a solo, date-specific rule on the next occurrence of day
// after today and returns its index. The day is switched on.
func (e *Editor) AddSlot(day Weekday) (int, error) {
	if !day.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	date := NextOccurrence(day, e.cfg.Validator.Today(), SkipToday)
	rule := Rule{
		Recurrence: OnDate{Date: date},
		Start:      e.cfg.DefaultStart,
		End:        e.cfg.DefaultStart + TimeOfDay(e.cfg.DefaultDuration),
		Tier:       Solo,
	}
	e.schedule = e.schedule.WithRuleAppended(day, rule).WithEnabled(day, true)
	return len(e.schedule.days[day].Rules) - 1, nil
}

// UpdateTime sets the start or end of a rule from an HH:MM value.
func (e *Editor) UpdateTime(day Weekday, index int, field TimeField, value string) error {
	t, err := ParseTimeOfDay(value)
	if err != nil {
		return err
	}
	return e.modify(day, index, func(r Rule) (Rule, error) {
		switch field {
		case StartField:
			r.Start = t
		case EndField:
			r.End = t
		default:
			return r, fmt.Errorf("unknown time field %q", field)
		}
		return r, nil
	})
}

// UpdateTier assigns a session tier that the mentor's pricing offers.
func (e *Editor) UpdateTier(day Weekday, index int, tier SessionTier) error {
	tier = tier.Normalize()
	if !e.cfg.Pricing.Offers(tier) {
		return fmt.Errorf("%w: group of %d", ErrTierNotOffered, tier)
	}
	return e.modify(day, index, func(r Rule) (Rule, error) {
		r.Tier = tier
		return r, nil
	})
}

// UpdateSpecificDate moves a rule onto date. A date whose weekday differs from
// the bucket is rejected and the schedule is left untouched.
func (e *Editor) UpdateSpecificDate(day Weekday, index int, date Date) error {
	if v := e.cfg.Validator.CheckDateBucket(date, day, index); v != nil {
		return &ValidationError{Violations: []Violation{*v}}
	}
	return e.modify(day, index, func(r Rule) (Rule, error) {
		r.Recurrence = OnDate{Date: date}
		return r, nil
	})
}

// SetRecurrenceMode switches a rule between weekly and date-specific.
func (e *Editor) SetRecurrenceMode(day Weekday, index int, recurring bool) error {
	return e.modify(day, index, func(r Rule) (Rule, error) {
		if recurring {
			r.Recurrence = Weekly{Day: day}
			return r, nil
		}
		if _, ok := r.SpecificDate(); !ok {
			r.Recurrence = OnDate{Date: NextOccurrence(day, e.cfg.Validator.Today(), SkipToday)}
		}
		return r, nil
	})
}

func (e *Editor) modify(day Weekday, index int, fn func(Rule) (Rule, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, err := e.schedule.Rule(day, index)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	e.schedule = e.schedule.WithRuleReplaced(day, index, next)
	return nil
}

// RemoveSlot drops a rule. A persisted rule is deleted from the store first
// and only removed locally once that succeeds.
func (e *Editor) RemoveSlot(ctx context.Context, day Weekday, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rule, err := e.schedule.Rule(day, index)
	if err != nil {
		return err
	}
	if rule.Persisted() {
		if err := e.store.Delete(ctx, rule.ID); err != nil {
			e.observe("delete", false)
			return &PersistenceError{Op: "delete", Day: day, Rule: rule, Err: err}
		}
		e.observe("delete", true)
		delete(e.baseline, rule.ID)
	}
	e.schedule = e.schedule.WithRuleRemoved(day, index)
	return nil
}

func (e *Editor) observe(op string, ok bool) {
	if e.cfg.Observer != nil {
		e.cfg.Observer(op, ok)
	}
}
