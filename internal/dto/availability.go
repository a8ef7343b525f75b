package dto

import (
	"time"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
)

// TemplateRequest creates or replaces a stored availability rule. Exactly one
// of dayOfWeek and specificDate must be provided.
type TemplateRequest struct {
	DayOfWeek    *string `json:"dayOfWeek" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	SpecificDate *string `json:"specificDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string  `json:"startTime" validate:"required"`
	EndTime      string  `json:"endTime" validate:"required"`
	GroupTier    *int    `json:"groupTier" validate:"omitempty,min=1,max=50"`
}

// TemplateResponse is a stored rule as returned by the template endpoints.
type TemplateResponse struct {
	ID              string     `json:"id"`
	DayOfWeek       *string    `json:"dayOfWeek,omitempty"`
	SpecificDate    *string    `json:"specificDate,omitempty"`
	StartTime       string     `json:"startTime"`
	EndTime         string     `json:"endTime"`
	DurationMinutes int        `json:"durationMinutes"`
	GroupTier       *int       `json:"groupTier"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// ToggleDayRequest enables or disables a weekday in the editing session.
type ToggleDayRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// UpdateSlotRequest patches one rule of the editing session. Absent fields
// are left untouched.
type UpdateSlotRequest struct {
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	GroupTier    *int    `json:"groupTier" validate:"omitempty,min=1,max=50"`
	SpecificDate *string `json:"specificDate" validate:"omitempty,datetime=2006-01-02"`
	Recurring    *bool   `json:"recurring"`
}

// SessionResponse is the current editing session.
type SessionResponse struct {
	MentorID        string                      `json:"mentorId"`
	Schedule        availability.WeeklySchedule `json:"schedule"`
	OfferableTiers  []availability.SessionTier  `json:"offerableTiers"`
	MaxDuration     int                         `json:"maxDurationMinutes"`
	DefaultDuration int                         `json:"defaultDurationMinutes"`
}

// AddSlotResponse reports where the new rule landed.
type AddSlotResponse struct {
	Day     availability.Weekday `json:"day"`
	Index   int                  `json:"index"`
	Session SessionResponse      `json:"session"`
}

// SaveResponse is the outcome of persisting the editing session.
type SaveResponse struct {
	Summary string                  `json:"summary"`
	Report  availability.SaveReport `json:"report"`
	Session SessionResponse         `json:"session"`
}

// SaveReportDetails travels as error details when a save touched storage but
// could not finish.
type SaveReportDetails struct {
	Summary string                  `json:"summary"`
	Report  availability.SaveReport `json:"report"`
}

// SlotWindowQuery bounds slot listings.
type SlotWindowQuery struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// SlotListResponse wraps materialized slots with the resolved window.
type SlotListResponse struct {
	MentorID string                          `json:"mentorId"`
	From     availability.Date               `json:"from"`
	To       availability.Date               `json:"to"`
	Slots    []availability.MaterializedSlot `json:"slots"`
}

// PricingTier is one priced group size.
type PricingTier struct {
	GroupSize  int   `json:"groupSize" validate:"required,min=2,max=50"`
	PriceCents int64 `json:"priceCents" validate:"min=0"`
}

// PricingRequest replaces a mentor's group pricing table.
type PricingRequest struct {
	Tiers []PricingTier `json:"tiers" validate:"dive"`
}

// PricingResponse lists the pricing table and the tiers it makes offerable.
type PricingResponse struct {
	MentorID       string                     `json:"mentorId"`
	Tiers          []PricingTier              `json:"tiers"`
	OfferableTiers []availability.SessionTier `json:"offerableTiers"`
}

// BookingRequest books one materialized slot instant.
type BookingRequest struct {
	StartInstant time.Time `json:"startInstant" validate:"required"`
	GroupTier    *int      `json:"groupTier" validate:"omitempty,min=1"`
	Participants int       `json:"participants" validate:"omitempty,min=1"`
}

// BookingResponse confirms a booking.
type BookingResponse struct {
	ID           string    `json:"id"`
	MentorID     string    `json:"mentorId"`
	MenteeID     string    `json:"menteeId"`
	TemplateID   string    `json:"templateId"`
	StartInstant time.Time `json:"startInstant"`
	EndInstant   time.Time `json:"endInstant"`
	GroupTier    *int      `json:"groupTier"`
	Badge        string    `json:"badge"`
	Participants int       `json:"participants"`
}
