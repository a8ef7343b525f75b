package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Availability errors.
var (
	ErrInvertedRange       = New("INVERTED_RANGE", http.StatusUnprocessableEntity, "start time must be before end time")
	ErrDurationExceeded    = New("DURATION_EXCEEDED", http.StatusUnprocessableEntity, "slot exceeds the maximum duration")
	ErrWeekdayDateMismatch = New("WEEKDAY_DATE_MISMATCH", http.StatusUnprocessableEntity, "date does not fall on the selected weekday")
	ErrPastSlot            = New("PAST_SLOT", http.StatusUnprocessableEntity, "slot lies in the past")
	ErrOutsideDay          = New("OUTSIDE_DAY", http.StatusUnprocessableEntity, "slot must start and end within one day")
	ErrMalformedTime       = New("MALFORMED_TIME", http.StatusBadRequest, "time must be HH:MM")
	ErrDuplicateSoloSlot   = New("DUPLICATE_SOLO_SLOT", http.StatusConflict, "overlapping solo slots")
	ErrDuplicateGroupSlot  = New("DUPLICATE_GROUP_SLOT", http.StatusConflict, "overlapping group slots of the same size")
	ErrTierNotOffered      = New("TIER_NOT_OFFERED", http.StatusUnprocessableEntity, "group size is not priced for this mentor")
	ErrContractViolation   = New("CONTRACT_VIOLATION", http.StatusBadGateway, "template store returned no rules after save")
	ErrSaveInProgress      = New("SAVE_IN_PROGRESS", http.StatusConflict, "another save is in progress")
	ErrSessionNotFound     = New("SESSION_NOT_FOUND", http.StatusNotFound, "no open editing session")
	ErrSlotTaken           = New("SLOT_TAKEN", http.StatusConflict, "slot already booked")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying structured details.
func WithDetails(err *Error, details interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}
