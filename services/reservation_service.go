package services

import (
	"context"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

type ReservationService interface {
	EntityService[domain.Reservation]
	GetByListingID(ctx context.Context, listingID uuid.UUID) ([]*domain.Reservation, error)
}

type reservationService struct {
	*entityService[domain.Reservation]
	listings repositories.Set[domain.Listing]
	users    repositories.Set[domain.User]
	rules    repositories.Set[domain.ListingRules]
	settings config.ReservationSettings
}

func NewReservationService(dc repositories.DataContext, settings config.ReservationSettings) ReservationService {
	return &reservationService{
		entityService: newEntityService(dc, dc.Reservations(), "Reservation"),
		listings:      dc.Listings(),
		users:         dc.Users(),
		rules:         dc.ListingRules(),
		settings:      settings,
	}
}

// Create calcula el precio total a partir del precio por noche del listing
func (s *reservationService) Create(ctx context.Context, reservation *domain.Reservation, saveChanges bool) (*domain.Reservation, error) {
	if err := requireExisting(ctx, s.users, reservation.GuestID, "User"); err != nil {
		return nil, err
	}
	listing, err := s.validate(ctx, reservation)
	if err != nil {
		return nil, err
	}

	reservation.TotalPrice = float64(reservation.Nights()) * listing.Price.Amount
	return s.add(ctx, reservation, saveChanges)
}

// Update permite mover las fechas y la cantidad de huéspedes, no el listing ni el huésped
func (s *reservationService) Update(ctx context.Context, reservation *domain.Reservation, saveChanges bool) (*domain.Reservation, error) {
	found, err := s.GetByID(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}

	reservation.ListingID = found.ListingID
	reservation.GuestID = found.GuestID
	listing, err := s.validate(ctx, reservation)
	if err != nil {
		return nil, err
	}

	found.StartDate = reservation.StartDate
	found.EndDate = reservation.EndDate
	found.GuestsCount = reservation.GuestsCount
	found.TotalPrice = float64(found.Nights()) * listing.Price.Amount
	return s.update(ctx, found, saveChanges)
}

func (s *reservationService) GetByListingID(ctx context.Context, listingID uuid.UUID) ([]*domain.Reservation, error) {
	return s.Get(ctx, func(r *domain.Reservation) bool { return r.ListingID == listingID })
}

func (s *reservationService) validate(ctx context.Context, reservation *domain.Reservation) (*domain.Listing, error) {
	if err := requireExisting(ctx, s.listings, reservation.ListingID, "Listing"); err != nil {
		return nil, err
	}
	listing, err := s.listings.Find(ctx, reservation.ListingID)
	if err != nil {
		return nil, err
	}

	reservation.StartDate = reservation.StartDate.UTC()
	reservation.EndDate = reservation.EndDate.UTC()
	if !reservation.StartDate.Before(reservation.EndDate) {
		return nil, s.invalid("start date must be before end date")
	}
	if s.settings.MaxStayDays > 0 && reservation.Nights() > s.settings.MaxStayDays {
		return nil, s.invalid("stay cannot be longer than %d days", s.settings.MaxStayDays)
	}
	if reservation.GuestsCount < 1 {
		return nil, s.invalid("at least one guest is required")
	}

	rules, err := s.rules.Query(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		if r.ListingID == reservation.ListingID && reservation.GuestsCount > r.Guests {
			return nil, s.invalid("listing allows at most %d guests", r.Guests)
		}
	}

	overlapping, err := s.exists(ctx, func(r *domain.Reservation) bool {
		return r.ID != reservation.ID &&
			r.ListingID == reservation.ListingID &&
			r.Overlaps(reservation.StartDate, reservation.EndDate)
	})
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, s.duplicate("listing is already reserved for these dates")
	}
	return listing, nil
}
