package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-availability-api/internal/models"
)

// BookingRepository stores bookings against materialized slots.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookedStarts lists start instants already booked for mentorID in [from, to).
func (r *BookingRepository) BookedStarts(ctx context.Context, mentorID string, from, to time.Time) ([]time.Time, error) {
	const query = `SELECT start_instant FROM bookings WHERE mentor_id = $1 AND start_instant >= $2 AND start_instant < $3 ORDER BY start_instant ASC`
	var starts []time.Time
	if err := r.db.SelectContext(ctx, &starts, query, mentorID, from, to); err != nil {
		return nil, fmt.Errorf("list booked starts: %w", err)
	}
	for i := range starts {
		starts[i] = starts[i].UTC()
	}
	return starts, nil
}

// Create inserts a booking. It reports false when the instant is already
// taken; the unique (mentor_id, start_instant) index decides the winner.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (bool, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO bookings (id, mentor_id, mentee_id, template_id, start_instant, end_instant, group_tier, participants, created_at)
		VALUES (:id, :mentor_id, :mentee_id, :template_id, :start_instant, :end_instant, :group_tier, :participants, :created_at)
		ON CONFLICT (mentor_id, start_instant) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, booking)
	if err != nil {
		return false, fmt.Errorf("create booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}
