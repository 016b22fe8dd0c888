package services

import (
	"context"
	"errors"
	"testing"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	dc       repositories.DataContext
	listing  *domain.Listing
	guest    *domain.User
	past     *domain.Reservation
	upcoming *domain.Reservation
}

func newReviewFixture(t *testing.T) reviewFixture {
	dc := newTestContext(t)
	ctx := context.Background()
	host := createUser(t, dc, "host@example.com")
	guest := createUser(t, dc, "guest@example.com")
	listing := createListing(t, dc, host, "Casa", 50)
	reservations := NewReservationService(dc, testSettings().Reservations)

	past, err := reservations.Create(ctx, &domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(-10), EndDate: day(-7), GuestsCount: 1}, true)
	require.NoError(t, err)
	upcoming, err := reservations.Create(ctx, &domain.Reservation{ListingID: listing.ID, GuestID: guest.ID, StartDate: day(5), EndDate: day(7), GuestsCount: 1}, true)
	require.NoError(t, err)

	return reviewFixture{dc: dc, listing: listing, guest: guest, past: past, upcoming: upcoming}
}

func TestReviewService_Create(t *testing.T) {
	f := newReviewFixture(t)
	service := NewReviewService(f.dc, testSettings().Reviews)
	ctx := context.Background()

	review, err := service.Create(ctx, &domain.Review{ReservationID: f.past.ID, Rating: 5, Comment: "  Excelente  "}, true)
	require.NoError(t, err)
	assert.Equal(t, f.listing.ID, review.ListingID)
	assert.Equal(t, f.guest.ID, review.AuthorID)
	assert.Equal(t, "Excelente", review.Comment)

	_, err = service.Create(ctx, &domain.Review{ReservationID: f.past.ID, Rating: 4}, true)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = service.Create(ctx, &domain.Review{ReservationID: f.upcoming.ID, Rating: 4}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = service.Create(ctx, &domain.Review{ReservationID: f.past.ID, Rating: 6}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

// Test: la calificación del listing se recalcula con cada reseña
func TestListingRatingManagement(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	reservations := NewReservationService(f.dc, testSettings().Reservations)
	second, err := reservations.Create(ctx, &domain.Reservation{ListingID: f.listing.ID, GuestID: f.guest.ID, StartDate: day(-5), EndDate: day(-3), GuestsCount: 1}, true)
	require.NoError(t, err)

	ratings := NewListingRatingService(f.dc)
	management := NewListingRatingManagementService(NewReviewService(f.dc, testSettings().Reviews), ratings, f.dc)

	first, err := management.AddReview(ctx, &domain.Review{ReservationID: f.past.ID, Rating: 5}, true)
	require.NoError(t, err)
	_, err = management.AddReview(ctx, &domain.Review{ReservationID: second.ID, Rating: 2}, true)
	require.NoError(t, err)

	rating, err := ratings.GetByListingID(ctx, f.listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, rating.Rating)
	assert.Equal(t, 2, rating.ReviewsCount)

	changes := *first
	changes.Rating = 4
	_, err = management.UpdateReview(ctx, &changes, true)
	require.NoError(t, err)
	rating, err = ratings.GetByListingID(ctx, f.listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rating.Rating)

	_, err = management.DeleteReview(ctx, first.ID, true)
	require.NoError(t, err)
	rating, err = ratings.GetByListingID(ctx, f.listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, rating.Rating)
	assert.Equal(t, 1, rating.ReviewsCount)
}

// Test: dentro de un change scope la reseña y la calificación se guardan juntas
func TestListingRatingManagement_InScope(t *testing.T) {
	f := newReviewFixture(t)
	ctx := repositories.WithChangeScope(context.Background())
	ratings := NewListingRatingService(f.dc)
	management := NewListingRatingManagementService(NewReviewService(f.dc, testSettings().Reviews), ratings, f.dc)

	_, err := management.AddReview(ctx, &domain.Review{ReservationID: f.past.ID, Rating: 4}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, repositories.PendingChanges(ctx))

	_, err = ratings.GetByListingID(ctx, f.listing.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, f.dc.SaveChanges(ctx))
	rating, err := ratings.GetByListingID(ctx, f.listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rating.Rating)
}

func TestListingRatingService_Range(t *testing.T) {
	f := newReviewFixture(t)
	service := NewListingRatingService(f.dc)
	ctx := context.Background()

	_, err := service.Create(ctx, &domain.ListingRating{ListingID: f.listing.ID, Rating: 5.5}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = service.Create(ctx, &domain.ListingRating{ListingID: f.listing.ID, Rating: 4.5}, true)
	require.NoError(t, err)
	_, err = service.Create(ctx, &domain.ListingRating{ListingID: f.listing.ID, Rating: 3}, true)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}
