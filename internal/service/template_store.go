package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/models"
)

type templateRepository interface {
	ListByMentor(ctx context.Context, mentorID string) ([]models.AvailabilityTemplate, error)
	FindByID(ctx context.Context, mentorID, id string) (*models.AvailabilityTemplate, error)
	Create(ctx context.Context, tpl *models.AvailabilityTemplate) error
	Update(ctx context.Context, tpl *models.AvailabilityTemplate) error
	Delete(ctx context.Context, mentorID, id string) error
}

type pricingRepository interface {
	ListByMentor(ctx context.Context, mentorID string) ([]models.GroupPricingTier, error)
	Replace(ctx context.Context, mentorID string, tiers []models.GroupPricingTier) error
}

var errTemplateNotFound = errors.New("template not found")

// mentorTemplateStore scopes the template repository to one mentor so the
// engine can treat it as its persistence collaborator.
type mentorTemplateStore struct {
	repo     templateRepository
	mentorID string
	metrics  *MetricsService
}

func newMentorTemplateStore(repo templateRepository, mentorID string, metrics *MetricsService) *mentorTemplateStore {
	return &mentorTemplateStore{repo: repo, mentorID: mentorID, metrics: metrics}
}

var _ availability.TemplateStore = (*mentorTemplateStore)(nil)

func (s *mentorTemplateStore) List(ctx context.Context) ([]availability.Rule, error) {
	start := time.Now()
	rows, err := s.repo.ListByMentor(ctx, s.mentorID)
	s.metrics.ObserveDBQuery("templates_list", time.Since(start))
	if err != nil {
		return nil, err
	}
	rules := make([]availability.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := templateToRule(row)
		if err != nil {
			return nil, fmt.Errorf("decode template %s: %w", row.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s *mentorTemplateStore) Create(ctx context.Context, rule availability.Rule) (availability.Rule, error) {
	tpl := ruleToTemplate(s.mentorID, rule)
	tpl.ID = ""
	if err := s.repo.Create(ctx, &tpl); err != nil {
		return availability.Rule{}, err
	}
	rule.ID = tpl.ID
	return rule, nil
}

func (s *mentorTemplateStore) Update(ctx context.Context, id string, rule availability.Rule) (availability.Rule, error) {
	tpl := ruleToTemplate(s.mentorID, rule)
	tpl.ID = id
	if err := s.repo.Update(ctx, &tpl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return availability.Rule{}, fmt.Errorf("%w: %s", errTemplateNotFound, id)
		}
		return availability.Rule{}, err
	}
	rule.ID = id
	return rule, nil
}

func (s *mentorTemplateStore) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, s.mentorID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", errTemplateNotFound, id)
		}
		return err
	}
	return nil
}

// loadPricing reads a mentor's group pricing table.
func loadPricing(ctx context.Context, repo pricingRepository, mentorID string) (availability.GroupPricingTable, error) {
	tiers, err := repo.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	table := make(availability.GroupPricingTable, len(tiers))
	for _, tier := range tiers {
		table[tier.GroupSize] = tier.PriceCents
	}
	return table, nil
}
