package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-api/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, offset)
}

func TestReservationService_CreateComputesTotal(t *testing.T) {
	dc := newTestContext(t)
	host := createUser(t, dc, "host@example.com")
	guest := createUser(t, dc, "guest@example.com")
	listing := createListing(t, dc, host, "Casa", 80)

	reservation, err := NewReservationService(dc, testSettings().Reservations).Create(context.Background(), &domain.Reservation{
		ListingID:   listing.ID,
		GuestID:     guest.ID,
		StartDate:   day(10),
		EndDate:     day(13),
		GuestsCount: 2,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, reservation.Nights())
	assert.Equal(t, 240.0, reservation.TotalPrice)
}

// Test: check-in a la tarde y check-out a la mañana siguiente cobra una noche
func TestReservationService_TotalUsesCalendarNights(t *testing.T) {
	dc := newTestContext(t)
	host := createUser(t, dc, "host@example.com")
	guest := createUser(t, dc, "guest@example.com")
	listing := createListing(t, dc, host, "Casa", 80)

	reservation, err := NewReservationService(dc, testSettings().Reservations).Create(context.Background(), &domain.Reservation{
		ListingID:   listing.ID,
		GuestID:     guest.ID,
		StartDate:   day(10).Add(14 * time.Hour),
		EndDate:     day(11).Add(10 * time.Hour),
		GuestsCount: 1,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, reservation.Nights())
	assert.Equal(t, 80.0, reservation.TotalPrice)
}

func TestReservationService_Validation(t *testing.T) {
	dc := newTestContext(t)
	ctx := context.Background()
	host := createUser(t, dc, "host@example.com")
	guest := createUser(t, dc, "guest@example.com")
	listing := createListing(t, dc, host, "Casa", 80)

	_, err := NewListingRulesService(dc, testSettings().ListingRules).Create(ctx, &domain.ListingRules{ListingID: listing.ID, Guests: 3}, true)
	require.NoError(t, err)

	service := NewReservationService(dc, testSettings().Reservations)
	_, err = service.Create(ctx, &domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(1), EndDate: day(4), GuestsCount: 2}, true)
	require.NoError(t, err)

	tests := []struct {
		name        string
		reservation domain.Reservation
		kind        error
	}{
		{"unknown listing", domain.Reservation{ListingID: uuid.New(), GuestID: guest.ID, StartDate: day(20), EndDate: day(22), GuestsCount: 1}, domain.ErrNotFound},
		{"unknown guest", domain.Reservation{ListingID: listing.ID, GuestID: uuid.New(), StartDate: day(20), EndDate: day(22), GuestsCount: 1}, domain.ErrNotFound},
		{"end before start", domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(22), EndDate: day(20), GuestsCount: 1}, domain.ErrValidation},
		{"same day", domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(20), EndDate: day(20), GuestsCount: 1}, domain.ErrValidation},
		{"no guests", domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(20), EndDate: day(22), GuestsCount: 0}, domain.ErrValidation},
		{"above rules cap", domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(20), EndDate: day(22), GuestsCount: 4}, domain.ErrValidation},
		{"stay too long", domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(20), EndDate: day(200), GuestsCount: 1}, domain.ErrValidation},
		{"overlapping", domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(3), EndDate: day(6), GuestsCount: 1}, domain.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation := tt.reservation
			_, err := service.Create(ctx, &reservation, true)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}

	// Rango contiguo: termina el día que empieza la otra
	_, err = service.Create(ctx, &domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(4), EndDate: day(6), GuestsCount: 1}, true)
	require.NoError(t, err)
}

func TestReservationService_UpdateKeepsListingAndGuest(t *testing.T) {
	dc := newTestContext(t)
	ctx := context.Background()
	host := createUser(t, dc, "host@example.com")
	guest := createUser(t, dc, "guest@example.com")
	listing := createListing(t, dc, host, "Casa", 50)
	service := NewReservationService(dc, testSettings().Reservations)

	reservation, err := service.Create(ctx, &domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(1), EndDate: day(3), GuestsCount: 1}, true)
	require.NoError(t, err)

	changes := *reservation
	changes.ListingID = uuid.New()
	changes.EndDate = day(5)
	updated, err := service.Update(ctx, &changes, true)
	require.NoError(t, err)
	assert.Equal(t, listing.ID, updated.ListingID)
	assert.Equal(t, 200.0, updated.TotalPrice)

	byListing, err := service.GetByListingID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Len(t, byListing, 1)
}
