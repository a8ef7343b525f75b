package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

// TemplateService manages stored availability rules outside of an editing
// session. Every write is validated, tier-gated and conflict-checked against
// the mentor's other rules in the same day bucket.
type TemplateService struct {
	repo      templateRepository
	pricing   pricingRepository
	cache     *CacheService
	metrics   *MetricsService
	settings  EngineSettings
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(repo templateRepository, pricing pricingRepository, cache *CacheService, metrics *MetricsService, settings EngineSettings, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{
		repo:      repo,
		pricing:   pricing,
		cache:     cache,
		metrics:   metrics,
		settings:  settings.withDefaults(),
		validator: validate,
		logger:    logger,
	}
}

// List returns every stored rule of the mentor.
func (s *TemplateService) List(ctx context.Context, mentorID string) ([]dto.TemplateResponse, error) {
	rows, err := s.repo.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	out := make([]dto.TemplateResponse, 0, len(rows))
	for _, row := range rows {
		rule, err := templateToRule(row)
		if err != nil {
			s.logger.Warn("skipping undecodable template", zap.String("mentor_id", mentorID), zap.String("template_id", row.ID), zap.Error(err))
			continue
		}
		updatedAt := row.UpdatedAt
		out = append(out, ruleToResponse(rule, &updatedAt))
	}
	return out, nil
}

// Create stores a new rule.
func (s *TemplateService) Create(ctx context.Context, mentorID string, req dto.TemplateRequest) (*dto.TemplateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	rule, err := requestToRule(req)
	if err != nil {
		return nil, mapEngineError(err)
	}
	if err := s.check(ctx, mentorID, rule); err != nil {
		return nil, err
	}

	tpl := ruleToTemplate(mentorID, rule)
	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	rule.ID = tpl.ID
	s.cache.InvalidateMentor(ctx, mentorID)
	s.logger.Info("availability template created", zap.String("mentor_id", mentorID), zap.String("template_id", tpl.ID), zap.String("rule", rule.Label()))

	resp := ruleToResponse(rule, &tpl.UpdatedAt)
	return &resp, nil
}

// Update replaces a stored rule.
func (s *TemplateService) Update(ctx context.Context, mentorID, id string, req dto.TemplateRequest) (*dto.TemplateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if _, err := s.repo.FindByID(ctx, mentorID, id); err != nil {
		return nil, notFoundOr(err, "template not found", "failed to load template")
	}
	rule, err := requestToRule(req)
	if err != nil {
		return nil, mapEngineError(err)
	}
	rule.ID = id
	if err := s.check(ctx, mentorID, rule); err != nil {
		return nil, err
	}

	tpl := ruleToTemplate(mentorID, rule)
	if err := s.repo.Update(ctx, &tpl); err != nil {
		return nil, notFoundOr(err, "template not found", "failed to update template")
	}
	s.cache.InvalidateMentor(ctx, mentorID)

	resp := ruleToResponse(rule, &tpl.UpdatedAt)
	return &resp, nil
}

// Delete removes a stored rule.
func (s *TemplateService) Delete(ctx context.Context, mentorID, id string) error {
	if err := s.repo.Delete(ctx, mentorID, id); err != nil {
		return notFoundOr(err, "template not found", "failed to delete template")
	}
	s.cache.InvalidateMentor(ctx, mentorID)
	return nil
}

// check runs the rule validator, the tier gate and conflict detection with
// rule placed last in its day bucket.
func (s *TemplateService) check(ctx context.Context, mentorID string, rule availability.Rule) error {
	bucket, ok := rule.Bucket()
	if !ok {
		return errNoRecurrence
	}

	store := newMentorTemplateStore(s.repo, mentorID, s.metrics)
	existing, err := store.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load templates")
	}
	peers := make([]availability.Rule, 0, len(existing)+1)
	for _, r := range existing {
		if day, ok := r.Bucket(); ok && day == bucket && r.ID != rule.ID {
			peers = append(peers, r)
		}
	}
	index := len(peers)

	if violations := s.settings.Validator().Validate(rule, bucket, index); len(violations) > 0 {
		return mapEngineError(&availability.ValidationError{Violations: violations})
	}

	if rule.Tier.IsGroup() {
		table, err := loadPricing(ctx, s.pricing, mentorID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pricing")
		}
		if !table.Offers(rule.Tier) {
			return mapEngineError(fmt.Errorf("%w: group of %d", availability.ErrTierNotOffered, rule.Tier))
		}
	}

	var conflicts []availability.Conflict
	for _, c := range availability.DetectConflicts(bucket, append(peers, rule), s.settings.Scope) {
		if c.Second == index {
			conflicts = append(conflicts, c)
		}
	}
	if len(conflicts) > 0 {
		return mapEngineError(&availability.ConflictError{Conflicts: conflicts})
	}
	return nil
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}
