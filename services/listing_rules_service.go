package services

import (
	"context"
	"strings"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

const minutesPerDay = 24 * 60

type ListingRulesService interface {
	EntityService[domain.ListingRules]
	GetByListingID(ctx context.Context, listingID uuid.UUID) (*domain.ListingRules, error)
}

type listingRulesService struct {
	*entityService[domain.ListingRules]
	listings repositories.Set[domain.Listing]
	settings config.ListingRulesSettings
}

func NewListingRulesService(dc repositories.DataContext, settings config.ListingRulesSettings) ListingRulesService {
	return &listingRulesService{
		entityService: newEntityService(dc, dc.ListingRules(), "ListingRules"),
		listings:      dc.Listings(),
		settings:      settings,
	}
}

// Create exige que el listing exista y no tenga reglas todavía
func (s *listingRulesService) Create(ctx context.Context, rules *domain.ListingRules, saveChanges bool) (*domain.ListingRules, error) {
	if err := s.validate(rules); err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, s.listings, rules.ListingID, "Listing"); err != nil {
		return nil, err
	}
	taken, err := s.exists(ctx, func(r *domain.ListingRules) bool { return r.ListingID == rules.ListingID })
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, s.duplicate("listing %s already has rules", rules.ListingID)
	}
	return s.add(ctx, rules, saveChanges)
}

func (s *listingRulesService) Update(ctx context.Context, rules *domain.ListingRules, saveChanges bool) (*domain.ListingRules, error) {
	found, err := s.GetByID(ctx, rules.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(rules); err != nil {
		return nil, err
	}

	found.Guests = rules.Guests
	found.PetsAllowed = rules.PetsAllowed
	found.EventsAllowed = rules.EventsAllowed
	found.SmokingAllowed = rules.SmokingAllowed
	found.CheckInStart = rules.CheckInStart
	found.CheckInEnd = rules.CheckInEnd
	found.CheckOut = rules.CheckOut
	found.AdditionalRules = rules.AdditionalRules
	return s.update(ctx, found, saveChanges)
}

func (s *listingRulesService) GetByListingID(ctx context.Context, listingID uuid.UUID) (*domain.ListingRules, error) {
	rules, err := s.Get(ctx, func(r *domain.ListingRules) bool { return r.ListingID == listingID })
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, domain.NotFoundError(s.name, "rules for listing %s not found", listingID)
	}
	return rules[0], nil
}

// validate aplica las reglas de consistencia de horarios:
//   - sin inicio de check-in no puede haber fin
//   - con inicio, el fin es obligatorio y la ventana dura al menos MinCheckInDurationInHours
func (s *listingRulesService) validate(rules *domain.ListingRules) error {
	if rules.Guests < s.settings.GuestsMinCount {
		return s.invalid("guests must be at least %d", s.settings.GuestsMinCount)
	}

	for _, minute := range []*int{rules.CheckInStart, rules.CheckInEnd, rules.CheckOut} {
		if minute != nil && (*minute < 0 || *minute >= minutesPerDay) {
			return s.invalid("times must be between 00:00 and 23:59")
		}
	}

	if rules.CheckInStart == nil {
		if rules.CheckInEnd != nil {
			return s.invalid("check-in end requires a check-in start")
		}
	} else {
		if rules.CheckInEnd == nil {
			return s.invalid("check-in start requires a check-in end")
		}
		if *rules.CheckInEnd-*rules.CheckInStart < s.settings.MinCheckInDurationInHours*60 {
			return s.invalid("check-in window must last at least %d hours", s.settings.MinCheckInDurationInHours)
		}
	}

	if rules.AdditionalRules != nil && strings.TrimSpace(*rules.AdditionalRules) == "" {
		rules.AdditionalRules = nil
	}
	return nil
}
