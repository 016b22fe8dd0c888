package services

import (
	"context"
	"strings"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

const (
	minReviewRating = 1
	maxReviewRating = 5
)

type ReviewService interface {
	EntityService[domain.Review]
	GetByListingID(ctx context.Context, listingID uuid.UUID) ([]*domain.Review, error)
}

type reviewService struct {
	*entityService[domain.Review]
	reservations repositories.Set[domain.Reservation]
	settings     config.ReviewSettings
}

func NewReviewService(dc repositories.DataContext, settings config.ReviewSettings) ReviewService {
	return &reviewService{
		entityService: newEntityService(dc, dc.Reviews(), "Review"),
		reservations:  dc.Reservations(),
		settings:      settings,
	}
}

// Create toma el listing y el autor de la reserva. Solo se puede reseñar
// una reserva terminada y una sola vez.
func (s *reviewService) Create(ctx context.Context, review *domain.Review, saveChanges bool) (*domain.Review, error) {
	if err := s.validate(review); err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, s.reservations, review.ReservationID, "Reservation"); err != nil {
		return nil, err
	}
	reservation, err := s.reservations.Find(ctx, review.ReservationID)
	if err != nil {
		return nil, err
	}
	if reservation.EndDate.After(s.now()) {
		return nil, s.invalid("reservation has not ended yet")
	}
	if review.AuthorID != uuid.Nil && review.AuthorID != reservation.GuestID {
		return nil, s.invalid("only the guest of the reservation can review it")
	}

	taken, err := s.exists(ctx, func(r *domain.Review) bool { return r.ReservationID == review.ReservationID })
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, s.duplicate("reservation %s was already reviewed", review.ReservationID)
	}

	review.ListingID = reservation.ListingID
	review.AuthorID = reservation.GuestID
	return s.add(ctx, review, saveChanges)
}

// Update solo cambia la calificación y el comentario
func (s *reviewService) Update(ctx context.Context, review *domain.Review, saveChanges bool) (*domain.Review, error) {
	found, err := s.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(review); err != nil {
		return nil, err
	}

	found.Rating = review.Rating
	found.Comment = review.Comment
	return s.update(ctx, found, saveChanges)
}

func (s *reviewService) GetByListingID(ctx context.Context, listingID uuid.UUID) ([]*domain.Review, error) {
	return s.Get(ctx, func(r *domain.Review) bool { return r.ListingID == listingID })
}

func (s *reviewService) validate(review *domain.Review) error {
	if review.Rating < minReviewRating || review.Rating > maxReviewRating {
		return s.invalid("rating must be between %d and %d", minReviewRating, maxReviewRating)
	}
	review.Comment = strings.TrimSpace(review.Comment)
	if n := len([]rune(review.Comment)); n < s.settings.MinCommentLength || n > s.settings.MaxCommentLength {
		return s.invalid("comment length must be between %d and %d", s.settings.MinCommentLength, s.settings.MaxCommentLength)
	}
	return nil
}
