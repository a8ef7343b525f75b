package availability

import (
	"errors"
	"fmt"
	"strings"
)

// ViolationKind names a single validation failure.
type ViolationKind string

const (
	InvertedRange       ViolationKind = "INVERTED_RANGE"
	DurationExceeded    ViolationKind = "DURATION_EXCEEDED"
	WeekdayDateMismatch ViolationKind = "WEEKDAY_DATE_MISMATCH"
	PastSlot            ViolationKind = "PAST_SLOT"
	MissingRecurrence   ViolationKind = "MISSING_RECURRENCE"
	OutsideDay          ViolationKind = "OUTSIDE_DAY"
)

// ConflictKind classifies an overlap that is not allowed.
type ConflictKind string

const (
	DuplicateSoloSlot  ConflictKind = "DUPLICATE_SOLO_SLOT"
	DuplicateGroupSlot ConflictKind = "DUPLICATE_GROUP_SLOT"
)

var (
	// ErrSlotIndex is returned when a day/index pair does not address a rule.
	ErrSlotIndex = errors.New("slot index out of range")
	// ErrUnknownDay is returned for an invalid weekday bucket.
	ErrUnknownDay = errors.New("unknown day")
	// ErrTierNotOffered is returned when a group tier has no positive price.
	ErrTierNotOffered = errors.New("group tier is not offered")
	// ErrContractViolation signals that the store returned nothing after a save that persisted rules.
	ErrContractViolation = errors.New("template store returned no rules after a non-empty save")
)

// MalformedTimeError reports an unparsable time-of-day.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: expected HH:MM", e.Value)
}

// Violation is one user-facing validation failure.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Day     Weekday       `json:"day"`
	Index   int           `json:"index"`
	Message string        `json:"message"`
}

func (v Violation) Error() string {
	return v.Message
}

// ValidationError aggregates every violation found before a save.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "invalid availability: " + strings.Join(msgs, "; ")
}

// Conflict is a disallowed overlap between two rules of one day.
type Conflict struct {
	Kind    ConflictKind `json:"kind"`
	Day     Weekday      `json:"day"`
	First   int          `json:"first"`
	Second  int          `json:"second"`
	Message string       `json:"message"`
}

// ConflictError aggregates every conflict found before a save.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Message)
	}
	return "conflicting availability: " + strings.Join(msgs, "; ")
}

// PersistenceError wraps a failed immediate delete.
type PersistenceError struct {
	Op   string
	Day  Weekday
	Rule Rule
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s %s-%s: %v", e.Op, e.Day, e.Rule.Start, e.Rule.End, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
