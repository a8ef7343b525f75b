package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentor-availability-api/internal/models"
)

// PricingRepository reads and replaces a mentor's group pricing table.
type PricingRepository struct {
	db *sqlx.DB
}

// NewPricingRepository constructs the repository.
func NewPricingRepository(db *sqlx.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// ListByMentor returns the priced group sizes of a mentor.
func (r *PricingRepository) ListByMentor(ctx context.Context, mentorID string) ([]models.GroupPricingTier, error) {
	const query = `SELECT mentor_id, group_size, price_cents, updated_at FROM group_pricing WHERE mentor_id = $1 ORDER BY group_size ASC`
	var tiers []models.GroupPricingTier
	if err := r.db.SelectContext(ctx, &tiers, query, mentorID); err != nil {
		return nil, fmt.Errorf("list group pricing: %w", err)
	}
	return tiers, nil
}

// Replace swaps the whole table for mentorID inside one transaction.
func (r *PricingRepository) Replace(ctx context.Context, mentorID string, tiers []models.GroupPricingTier) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pricing tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM group_pricing WHERE mentor_id = $1`, mentorID); err != nil {
		return fmt.Errorf("clear group pricing: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO group_pricing (mentor_id, group_size, price_cents, updated_at) VALUES (:mentor_id, :group_size, :price_cents, :updated_at)`
	for i := range tiers {
		tier := &tiers[i]
		tier.MentorID = mentorID
		tier.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, insert, tier); err != nil {
			return fmt.Errorf("insert group pricing: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit pricing tx: %w", err)
	}
	return nil
}
