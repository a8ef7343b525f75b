package availability

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Operation names used in reports and observer callbacks.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// OperationFailure describes one store call that failed during Save.
type OperationFailure struct {
	Op      string    `json:"op"`
	Day     Weekday   `json:"day"`
	RuleID  string    `json:"ruleId,omitempty"`
	Start   TimeOfDay `json:"startTime"`
	End     TimeOfDay `json:"endTime"`
	Message string    `json:"message"`
}

// SaveReport is the aggregate outcome of a Save, including partial failures.
type SaveReport struct {
	Created   int                `json:"created"`
	Updated   int                `json:"updated"`
	Deleted   int                `json:"deleted"`
	Unchanged int                `json:"unchanged"`
	Failures  []OperationFailure `json:"failures,omitempty"`
}

// Summary renders "created X, updated Y, removed Z".
func (r SaveReport) Summary() string {
	s := fmt.Sprintf("created %d, updated %d, removed %d", r.Created, r.Updated, r.Deleted)
	if n := len(r.Failures); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	return s
}

type planItem struct {
	day  Weekday
	rule Rule
}

// SavePlan partitions a schedule into store operations.
type SavePlan struct {
	creates   []planItem
	updates   []planItem
	deletes   []planItem
	unchanged int
}

// Counts returns the number of creates, updates and deletes planned.
func (p SavePlan) Counts() (int, int, int) {
	return len(p.creates), len(p.updates), len(p.deletes)
}

// PlanSave partitions rules: new rules on enabled days are created, persisted
// rules on enabled days that differ from the baseline are updated, and
// persisted rules on disabled days are deleted. New rules on a day that was
// switched off after they were added are discarded.
func PlanSave(schedule WeeklySchedule, baseline map[string]Rule) SavePlan {
	var plan SavePlan
	for _, day := range Weekdays {
		ds := schedule.days[day]
		for _, r := range ds.Rules {
			switch {
			case !ds.Enabled && r.Persisted():
				plan.deletes = append(plan.deletes, planItem{day: day, rule: r})
			case !ds.Enabled:
			case !r.Persisted():
				plan.creates = append(plan.creates, planItem{day: day, rule: r})
			default:
				if prior, ok := baseline[r.ID]; ok && prior.Equal(r) {
					plan.unchanged++
					continue
				}
				plan.updates = append(plan.updates, planItem{day: day, rule: r})
			}
		}
	}
	return plan
}

// Check runs the validator and conflict detector over every enabled day.
// Nothing is sent to the store when it returns an error.
func (e *Editor) Check() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.check(e.schedule)
}

func (e *Editor) check(schedule WeeklySchedule) error {
	var violations []Violation
	for _, day := range Weekdays {
		for i, r := range schedule.VisibleRules(day) {
			violations = append(violations, e.cfg.Validator.Validate(r, day, i)...)
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	var conflicts []Conflict
	for _, day := range Weekdays {
		conflicts = append(conflicts, DetectConflicts(day, schedule.VisibleRules(day), e.cfg.Scope)...)
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

// Save reconciles the session with the store: deletes, then creates, then
// updates, each phase fanned out with bounded concurrency. Per-item failures
// are collected in the report rather than aborting siblings. The session is
// then rebuilt from a fresh List. A non-nil report accompanies any error that
// occurs after the first store call. Cancelling ctx does not interrupt a save.
func (e *Editor) Save(ctx context.Context) (*SaveReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	if err := e.check(e.schedule); err != nil {
		return nil, err
	}

	plan := PlanSave(e.schedule, e.baseline)
	report := &SaveReport{Unchanged: plan.unchanged}

	e.runPhase(ctx, OpDelete, plan.deletes, report, func(ctx context.Context, it planItem) error {
		return e.store.Delete(ctx, it.rule.ID)
	})
	e.runPhase(ctx, OpCreate, plan.creates, report, func(ctx context.Context, it planItem) error {
		_, err := e.store.Create(ctx, it.rule)
		return err
	})
	e.runPhase(ctx, OpUpdate, plan.updates, report, func(ctx context.Context, it planItem) error {
		_, err := e.store.Update(ctx, it.rule.ID, it.rule)
		return err
	})

	loaded, err := e.reload(ctx)
	if err != nil {
		return report, err
	}
	expected := report.Created + len(plan.updates) + plan.unchanged
	if loaded == 0 && expected > 0 {
		return report, fmt.Errorf("%w: expected %d rules", ErrContractViolation, expected)
	}
	return report, nil
}

func (e *Editor) runPhase(ctx context.Context, op string, items []planItem, report *SaveReport, call func(context.Context, planItem) error) {
	if len(items) == 0 {
		return
	}
	errs := make([]error, len(items))
	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			errs[i] = call(ctx, items[i])
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		it := items[i]
		e.observe(op, err == nil)
		if err != nil {
			report.Failures = append(report.Failures, OperationFailure{
				Op:      op,
				Day:     it.day,
				RuleID:  it.rule.ID,
				Start:   it.rule.Start,
				End:     it.rule.End,
				Message: err.Error(),
			})
			continue
		}
		switch op {
		case OpCreate:
			report.Created++
		case OpUpdate:
			report.Updated++
		case OpDelete:
			report.Deleted++
		}
	}
}
