package services

import (
	"context"
	"math"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

// ListingRatingManagementService mantiene la calificación agregada de cada
// listing al día con sus reseñas
type ListingRatingManagementService interface {
	AddReview(ctx context.Context, review *domain.Review, saveChanges bool) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review, saveChanges bool) (*domain.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.Review, error)
	Recalculate(ctx context.Context, listingID uuid.UUID, saveChanges bool) (*domain.ListingRating, error)
}

type listingRatingManagementService struct {
	reviews ReviewService
	ratings ListingRatingService
	dc      repositories.DataContext
}

func NewListingRatingManagementService(reviews ReviewService, ratings ListingRatingService, dc repositories.DataContext) ListingRatingManagementService {
	return &listingRatingManagementService{reviews: reviews, ratings: ratings, dc: dc}
}

func (s *listingRatingManagementService) AddReview(ctx context.Context, review *domain.Review, saveChanges bool) (*domain.Review, error) {
	created, err := s.reviews.Create(ctx, review, false)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, created, saveChanges); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *listingRatingManagementService) UpdateReview(ctx context.Context, review *domain.Review, saveChanges bool) (*domain.Review, error) {
	updated, err := s.reviews.Update(ctx, review, false)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, updated, saveChanges); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *listingRatingManagementService) DeleteReview(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.Review, error) {
	deleted, err := s.reviews.Delete(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, deleted, saveChanges); err != nil {
		return nil, err
	}
	return deleted, nil
}

// Recalculate vuelve a calcular la calificación con las reseñas guardadas
func (s *listingRatingManagementService) Recalculate(ctx context.Context, listingID uuid.UUID, saveChanges bool) (*domain.ListingRating, error) {
	if err := requireExisting(ctx, s.dc.Listings(), listingID, "Listing"); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.GetByListingID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, listingID, reviews, saveChanges)
}

// apply recalcula incluyendo el cambio recién hecho, que puede no estar
// guardado todavía si hay un change scope abierto
func (s *listingRatingManagementService) apply(ctx context.Context, changed *domain.Review, saveChanges bool) error {
	reviews, err := s.reviews.GetByListingID(ctx, changed.ListingID)
	if err != nil {
		return err
	}

	merged := make([]*domain.Review, 0, len(reviews)+1)
	for _, r := range reviews {
		if r.ID != changed.ID {
			merged = append(merged, r)
		}
	}
	if !changed.IsDeleted {
		merged = append(merged, changed)
	}

	if _, err := s.store(ctx, changed.ListingID, merged, false); err != nil {
		return err
	}
	if saveChanges {
		return s.dc.SaveChanges(ctx)
	}
	return nil
}

func (s *listingRatingManagementService) store(ctx context.Context, listingID uuid.UUID, reviews []*domain.Review, saveChanges bool) (*domain.ListingRating, error) {
	value := averageRating(reviews)

	existing, err := s.ratings.GetByListingID(ctx, listingID)
	if err != nil && domain.KindOf(err) != domain.KindNotFound {
		return nil, err
	}
	if existing == nil {
		return s.ratings.Create(ctx, &domain.ListingRating{
			ListingID:    listingID,
			Rating:       value,
			ReviewsCount: len(reviews),
		}, saveChanges)
	}

	existing.Rating = value
	existing.ReviewsCount = len(reviews)
	return s.ratings.Update(ctx, existing, saveChanges)
}

// averageRating redondea a dos decimales, sin reseñas es 0
func averageRating(reviews []*domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return math.Round(float64(total)/float64(len(reviews))*100) / 100
}
