package services

import (
	"context"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

const maxListingRating = 5.0

type ListingRatingService interface {
	EntityService[domain.ListingRating]
	GetByListingID(ctx context.Context, listingID uuid.UUID) (*domain.ListingRating, error)
}

type listingRatingService struct {
	*entityService[domain.ListingRating]
}

func NewListingRatingService(dc repositories.DataContext) ListingRatingService {
	return &listingRatingService{entityService: newEntityService(dc, dc.ListingRatings(), "ListingRating")}
}

// Create: una sola calificación por listing, entre 0 y 5
func (s *listingRatingService) Create(ctx context.Context, rating *domain.ListingRating, saveChanges bool) (*domain.ListingRating, error) {
	if err := s.validate(rating); err != nil {
		return nil, err
	}
	taken, err := s.exists(ctx, func(r *domain.ListingRating) bool { return r.ListingID == rating.ListingID })
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, s.duplicate("listing %s already has a rating", rating.ListingID)
	}
	return s.add(ctx, rating, saveChanges)
}

func (s *listingRatingService) Update(ctx context.Context, rating *domain.ListingRating, saveChanges bool) (*domain.ListingRating, error) {
	found, err := s.GetByID(ctx, rating.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(rating); err != nil {
		return nil, err
	}

	found.Rating = rating.Rating
	found.ReviewsCount = rating.ReviewsCount
	return s.update(ctx, found, saveChanges)
}

func (s *listingRatingService) GetByListingID(ctx context.Context, listingID uuid.UUID) (*domain.ListingRating, error) {
	ratings, err := s.Get(ctx, func(r *domain.ListingRating) bool { return r.ListingID == listingID })
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, domain.NotFoundError(s.name, "rating for listing %s not found", listingID)
	}
	return ratings[0], nil
}

func (s *listingRatingService) validate(rating *domain.ListingRating) error {
	if rating.ListingID == uuid.Nil {
		return s.invalid("listing is required")
	}
	if rating.Rating < 0 || rating.Rating > maxListingRating {
		return s.invalid("rating must be between 0 and %.0f", maxListingRating)
	}
	if rating.ReviewsCount < 0 {
		return s.invalid("reviews count cannot be negative")
	}
	return nil
}
