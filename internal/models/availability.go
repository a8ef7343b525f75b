package models

import "time"

// AvailabilityTemplate is a stored availability rule row. Exactly one of
// DayOfWeek and SpecificDate is set.
type AvailabilityTemplate struct {
	ID              string     `db:"id" json:"id"`
	MentorID        string     `db:"mentor_id" json:"mentor_id"`
	DayOfWeek       *string    `db:"day_of_week" json:"day_of_week,omitempty"`
	SpecificDate    *time.Time `db:"specific_date" json:"specific_date,omitempty"`
	StartTime       string     `db:"start_time" json:"start_time"`
	EndTime         string     `db:"end_time" json:"end_time"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	GroupTier       *int       `db:"group_tier" json:"group_tier"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// GroupPricingTier is one priced group size on a mentor profile.
type GroupPricingTier struct {
	MentorID   string    `db:"mentor_id" json:"mentor_id"`
	GroupSize  int       `db:"group_size" json:"group_size"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Booking reserves one materialized slot instant.
type Booking struct {
	ID           string    `db:"id" json:"id"`
	MentorID     string    `db:"mentor_id" json:"mentor_id"`
	MenteeID     string    `db:"mentee_id" json:"mentee_id"`
	TemplateID   string    `db:"template_id" json:"template_id"`
	StartInstant time.Time `db:"start_instant" json:"start_instant"`
	EndInstant   time.Time `db:"end_instant" json:"end_instant"`
	GroupTier    *int      `db:"group_tier" json:"group_tier"`
	Participants int       `db:"participants" json:"participants"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
