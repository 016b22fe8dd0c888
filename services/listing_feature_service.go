package services

import (
	"context"
	"strings"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"
)

type ListingFeatureService interface {
	EntityService[domain.ListingFeature]
}

type listingFeatureService struct {
	*entityService[domain.ListingFeature]
	settings config.ListingRulesSettings
}

func NewListingFeatureService(dc repositories.DataContext, settings config.ListingRulesSettings) ListingFeatureService {
	return &listingFeatureService{
		entityService: newEntityService(dc, dc.ListingFeatures(), "ListingFeature"),
		settings:      settings,
	}
}

func (s *listingFeatureService) Create(ctx context.Context, feature *domain.ListingFeature, saveChanges bool) (*domain.ListingFeature, error) {
	if err := s.validate(feature); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, feature); err != nil {
		return nil, err
	}
	return s.add(ctx, feature, saveChanges)
}

// Update solo revisa unicidad si cambió el nombre o el tipo
func (s *listingFeatureService) Update(ctx context.Context, feature *domain.ListingFeature, saveChanges bool) (*domain.ListingFeature, error) {
	found, err := s.GetByID(ctx, feature.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(feature); err != nil {
		return nil, err
	}
	if !strings.EqualFold(found.Name, feature.Name) || found.ListingTypeID != feature.ListingTypeID {
		if err := s.checkUnique(ctx, feature); err != nil {
			return nil, err
		}
	}

	found.Name = feature.Name
	found.MinValue = feature.MinValue
	found.MaxValue = feature.MaxValue
	found.ListingTypeID = feature.ListingTypeID
	return s.update(ctx, found, saveChanges)
}

func (s *listingFeatureService) validate(feature *domain.ListingFeature) error {
	feature.Name = strings.TrimSpace(feature.Name)
	if feature.Name == "" {
		return s.invalid("feature name is required")
	}
	if feature.MinValue < s.settings.FeatureMinValue {
		return s.invalid("min value must be at least %d", s.settings.FeatureMinValue)
	}
	if feature.MaxValue < feature.MinValue {
		return s.invalid("max value must not be lower than min value")
	}
	return nil
}

func (s *listingFeatureService) checkUnique(ctx context.Context, feature *domain.ListingFeature) error {
	taken, err := s.exists(ctx, func(f *domain.ListingFeature) bool {
		return f.ID != feature.ID &&
			f.ListingTypeID == feature.ListingTypeID &&
			strings.EqualFold(f.Name, feature.Name)
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("feature %q already exists for this listing type", feature.Name)
	}
	return nil
}
