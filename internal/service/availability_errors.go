package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

var (
	errBothRecurrences = appErrors.Clone(appErrors.ErrValidation, "provide either dayOfWeek or specificDate, not both")
	errNoRecurrence    = appErrors.Clone(appErrors.ErrValidation, "dayOfWeek or specificDate is required")
)

var violationErrors = map[availability.ViolationKind]*appErrors.Error{
	availability.InvertedRange:       appErrors.ErrInvertedRange,
	availability.DurationExceeded:    appErrors.ErrDurationExceeded,
	availability.WeekdayDateMismatch: appErrors.ErrWeekdayDateMismatch,
	availability.PastSlot:            appErrors.ErrPastSlot,
	availability.MissingRecurrence:   appErrors.ErrValidation,
	availability.OutsideDay:          appErrors.ErrOutsideDay,
}

var conflictErrors = map[availability.ConflictKind]*appErrors.Error{
	availability.DuplicateSoloSlot:  appErrors.ErrDuplicateSoloSlot,
	availability.DuplicateGroupSlot: appErrors.ErrDuplicateGroupSlot,
}

// mapEngineError translates scheduling engine errors into API errors. The
// first violation or conflict picks the code; all of them travel as details.
func mapEngineError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *availability.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Violations) > 0 {
		first := validationErr.Violations[0]
		base := violationErrors[first.Kind]
		if base == nil {
			base = appErrors.ErrValidation
		}
		return appErrors.WithDetails(
			appErrors.Wrap(err, base.Code, base.Status, summarize(first.Message, len(validationErr.Violations))),
			validationErr.Violations,
		)
	}

	var conflictErr *availability.ConflictError
	if errors.As(err, &conflictErr) && len(conflictErr.Conflicts) > 0 {
		first := conflictErr.Conflicts[0]
		base := conflictErrors[first.Kind]
		if base == nil {
			base = appErrors.ErrConflict
		}
		return appErrors.WithDetails(
			appErrors.Wrap(err, base.Code, base.Status, summarize(first.Message, len(conflictErr.Conflicts))),
			conflictErr.Conflicts,
		)
	}

	var malformed *availability.MalformedTimeError
	if errors.As(err, &malformed) {
		return appErrors.Wrap(err, appErrors.ErrMalformedTime.Code, appErrors.ErrMalformedTime.Status, malformed.Error())
	}

	var persistErr *availability.PersistenceError
	if errors.As(err, &persistErr) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s slot", persistErr.Op))
	}

	switch {
	case errors.Is(err, availability.ErrTierNotOffered):
		return appErrors.Wrap(err, appErrors.ErrTierNotOffered.Code, appErrors.ErrTierNotOffered.Status, err.Error())
	case errors.Is(err, availability.ErrSlotIndex):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "slot not found")
	case errors.Is(err, availability.ErrUnknownDay):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	case errors.Is(err, availability.ErrContractViolation):
		return appErrors.Wrap(err, appErrors.ErrContractViolation.Code, appErrors.ErrContractViolation.Status, appErrors.ErrContractViolation.Message)
	}

	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalEngineMessage)
}

// withSaveReport attaches the outcome of an interrupted save so the client
// learns which store calls were applied.
func withSaveReport(err error, report *availability.SaveReport) error {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return err
	}
	return appErrors.WithDetails(appErr, dto.SaveReportDetails{Summary: report.Summary(), Report: *report})
}

// internalEngineMessage is used when an engine error has no dedicated mapping.
const internalEngineMessage = "availability operation failed"

func summarize(message string, count int) string {
	if count <= 1 {
		return message
	}
	return fmt.Sprintf("%s (and %d more)", message, count-1)
}
