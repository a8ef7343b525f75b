package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-availability-api/internal/availability"
	"github.com/noah-isme/mentor-availability-api/internal/dto"
	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

// PricingService exposes the group pricing table that gates group tiers.
type PricingService struct {
	repo      pricingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPricingService constructs a PricingService.
func NewPricingService(repo pricingRepository, validate *validator.Validate, logger *zap.Logger) *PricingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{repo: repo, validator: validate, logger: logger}
}

// Get returns the mentor's pricing table.
func (s *PricingService) Get(ctx context.Context, mentorID string) (*dto.PricingResponse, error) {
	table, err := loadPricing(ctx, s.repo, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pricing")
	}
	return pricingResponse(mentorID, table), nil
}

// Replace overwrites the mentor's pricing table. Rules already stored with a
// tier that loses its price stay in place; the gate applies to edits only.
func (s *PricingService) Replace(ctx context.Context, mentorID string, req dto.PricingRequest) (*dto.PricingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing payload")
	}

	table := make(availability.GroupPricingTable, len(req.Tiers))
	rows := make([]models.GroupPricingTier, 0, len(req.Tiers))
	for _, tier := range req.Tiers {
		if _, dup := table[tier.GroupSize]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("group size %d is listed twice", tier.GroupSize))
		}
		table[tier.GroupSize] = tier.PriceCents
		rows = append(rows, models.GroupPricingTier{MentorID: mentorID, GroupSize: tier.GroupSize, PriceCents: tier.PriceCents})
	}

	if err := s.repo.Replace(ctx, mentorID, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save pricing")
	}
	s.logger.Info("group pricing replaced", zap.String("mentor_id", mentorID), zap.Int("tiers", len(rows)))
	return pricingResponse(mentorID, table), nil
}

func pricingResponse(mentorID string, table availability.GroupPricingTable) *dto.PricingResponse {
	tiers := make([]dto.PricingTier, 0, len(table))
	for size, price := range table {
		tiers = append(tiers, dto.PricingTier{GroupSize: size, PriceCents: price})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].GroupSize < tiers[j].GroupSize })
	return &dto.PricingResponse{MentorID: mentorID, Tiers: tiers, OfferableTiers: table.OfferableTiers()}
}
