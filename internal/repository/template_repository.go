package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-availability-api/internal/models"
)

const templateColumns = `id, mentor_id, day_of_week, specific_date, start_time, end_time, duration_minutes, group_tier, created_at, updated_at`

// TemplateRepository persists availability templates.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository constructs the repository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListByMentor returns every template of a mentor ordered by start time.
func (r *TemplateRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.AvailabilityTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM availability_templates WHERE mentor_id = $1 ORDER BY start_time ASC, id ASC`
	var templates []models.AvailabilityTemplate
	if err := r.db.SelectContext(ctx, &templates, query, mentorID); err != nil {
		return nil, fmt.Errorf("list availability templates: %w", err)
	}
	return templates, nil
}

// FindByID returns a template owned by mentorID.
func (r *TemplateRepository) FindByID(ctx context.Context, mentorID, id string) (*models.AvailabilityTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM availability_templates WHERE id = $1 AND mentor_id = $2`
	var tpl models.AvailabilityTemplate
	if err := r.db.GetContext(ctx, &tpl, query, id, mentorID); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Create inserts a template and assigns its identifier.
func (r *TemplateRepository) Create(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	const query = `INSERT INTO availability_templates (id, mentor_id, day_of_week, specific_date, start_time, end_time, duration_minutes, group_tier, created_at, updated_at)
		VALUES (:id, :mentor_id, :day_of_week, :specific_date, :start_time, :end_time, :duration_minutes, :group_tier, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tpl); err != nil {
		return fmt.Errorf("create availability template: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a template. It returns
// sql.ErrNoRows when the template does not belong to the mentor.
func (r *TemplateRepository) Update(ctx context.Context, tpl *models.AvailabilityTemplate) error {
	tpl.UpdatedAt = time.Now().UTC()
	const query = `UPDATE availability_templates
		SET day_of_week = :day_of_week,
		    specific_date = :specific_date,
		    start_time = :start_time,
		    end_time = :end_time,
		    duration_minutes = :duration_minutes,
		    group_tier = :group_tier,
		    updated_at = :updated_at
		WHERE id = :id AND mentor_id = :mentor_id`
	res, err := r.db.NamedExecContext(ctx, query, tpl)
	if err != nil {
		return fmt.Errorf("update availability template: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a template owned by mentorID.
func (r *TemplateRepository) Delete(ctx context.Context, mentorID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM availability_templates WHERE id = $1 AND mentor_id = $2`, id, mentorID)
	if err != nil {
		return fmt.Errorf("delete availability template: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
