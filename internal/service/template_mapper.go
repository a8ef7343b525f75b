package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

func templateToRule(tpl models.AvailabilityTemplate) (availability.Rule, error) {
	start, err := availability.ParseTimeOfDay(tpl.StartTime)
	if err != nil {
		return availability.Rule{}, err
	}
	end, err := availability.ParseTimeOfDay(tpl.EndTime)
	if err != nil {
		return availability.Rule{}, err
	}

	rule := availability.Rule{ID: tpl.ID, Start: start, End: end, Tier: availability.TierFrom(tpl.GroupTier)}
	switch {
	case tpl.DayOfWeek != nil && tpl.SpecificDate != nil:
		return availability.Rule{}, fmt.Errorf("template %s has both day_of_week and specific_date", tpl.ID)
	case tpl.DayOfWeek != nil:
		day, err := availability.ParseWeekday(*tpl.DayOfWeek)
		if err != nil {
			return availability.Rule{}, err
		}
		rule.Recurrence = availability.Weekly{Day: day}
	case tpl.SpecificDate != nil:
		rule.Recurrence = availability.OnDate{Date: availability.DateOf(*tpl.SpecificDate)}
	default:
		return availability.Rule{}, fmt.Errorf("template %s has neither day_of_week nor specific_date", tpl.ID)
	}
	return rule, nil
}

func ruleToTemplate(mentorID string, rule availability.Rule) models.AvailabilityTemplate {
	tpl := models.AvailabilityTemplate{
		ID:              rule.ID,
		MentorID:        mentorID,
		StartTime:       rule.Start.String(),
		EndTime:         rule.End.String(),
		DurationMinutes: rule.DurationMinutes(),
		GroupTier:       rule.Tier.Nullable(),
	}
	switch rec := rule.Recurrence.(type) {
	case availability.Weekly:
		day := string(rec.Day)
		tpl.DayOfWeek = &day
	case availability.OnDate:
		date := rec.Date.UTCMidnight()
		tpl.SpecificDate = &date
	}
	return tpl
}

func requestToRule(req dto.TemplateRequest) (availability.Rule, error) {
	start, err := availability.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return availability.Rule{}, err
	}
	end, err := availability.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return availability.Rule{}, err
	}
	rule := availability.Rule{Start: start, End: end, Tier: availability.TierFrom(req.GroupTier)}

	switch {
	case req.DayOfWeek != nil && req.SpecificDate != nil:
		return availability.Rule{}, errBothRecurrences
	case req.DayOfWeek != nil:
		day, err := availability.ParseWeekday(*req.DayOfWeek)
		if err != nil {
			return availability.Rule{}, err
		}
		rule.Recurrence = availability.Weekly{Day: day}
	case req.SpecificDate != nil:
		date, err := availability.ParseDate(*req.SpecificDate)
		if err != nil {
			return availability.Rule{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "specificDate must be YYYY-MM-DD")
		}
		rule.Recurrence = availability.OnDate{Date: date}
	default:
		return availability.Rule{}, errNoRecurrence
	}
	return rule, nil
}

func ruleToResponse(rule availability.Rule, updatedAt *time.Time) dto.TemplateResponse {
	resp := dto.TemplateResponse{
		ID:              rule.ID,
		StartTime:       rule.Start.String(),
		EndTime:         rule.End.String(),
		DurationMinutes: rule.DurationMinutes(),
		GroupTier:       rule.Tier.Nullable(),
		UpdatedAt:       updatedAt,
	}
	switch rec := rule.Recurrence.(type) {
	case availability.Weekly:
		day := string(rec.Day)
		resp.DayOfWeek = &day
	case availability.OnDate:
		date := rec.Date.String()
		resp.SpecificDate = &date
	}
	return resp
}
