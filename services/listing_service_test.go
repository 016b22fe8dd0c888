package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"booking-api/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	invalidations int
}

func (c *countingCache) Get(string) ([]domain.Listing, int, bool) {
	return nil, 0, false
}

func (c *countingCache) Set(string, []domain.Listing, int) {}

func (c *countingCache) Delete(string) {}

func (c *countingCache) Key(query string) string {
	return query
}

func (c *countingCache) Invalidate() {
	c.invalidations++
}

func TestListingService_CreateDefaultsToDraft(t *testing.T) {
	dc := newTestContext(t)
	host := createUser(t, dc, "host@example.com")

	listing := createListing(t, dc, host, "Casa en la sierra", 80)
	assert.Equal(t, domain.ListingStatusDraft, listing.Status)
	assert.Equal(t, host.ID, listing.HostID)
}

func TestListingService_Validation(t *testing.T) {
	dc := newTestContext(t)
	host := createUser(t, dc, "host@example.com")
	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name    string
		listing domain.Listing
		kind    error
	}{
		{"title too short", domain.Listing{Title: "ab", HostID: host.ID, Price: domain.Money{Amount: 10}}, domain.ErrValidation},
		{"title too long", domain.Listing{Title: strings.Repeat("x", 129), HostID: host.ID, Price: domain.Money{Amount: 10}}, domain.ErrValidation},
		{"price too low", domain.Listing{Title: "Casa", HostID: host.ID, Price: domain.Money{Amount: 0.5}}, domain.ErrValidation},
		{"invalid status", domain.Listing{Title: "Casa", HostID: host.ID, Status: "sold", Price: domain.Money{Amount: 10}}, domain.ErrValidation},
		{"built in the future", domain.Listing{Title: "Casa", HostID: host.ID, BuiltDate: &future, Price: domain.Money{Amount: 10}}, domain.ErrValidation},
		{"unknown host", domain.Listing{Title: "Casa", HostID: uuid.New(), Price: domain.Money{Amount: 10}}, domain.ErrNotFound},
	}

	service := NewListingService(dc, testSettings().Listing, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := tt.listing
			_, err := service.Create(context.Background(), &listing, true)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

// Test: cada escritura invalida el caché de búsqueda
func TestListingService_WritesInvalidateCache(t *testing.T) {
	dc := newTestContext(t)
	host := createUser(t, dc, "host@example.com")
	cache := &countingCache{}
	service := NewListingService(dc, testSettings().Listing, cache)
	ctx := context.Background()

	listing, err := service.Create(ctx, &domain.Listing{Title: "Casa", HostID: host.ID, Price: domain.Money{Amount: 10}}, true)
	require.NoError(t, err)

	changes := *listing
	changes.Title = "Casa grande"
	changes.HostID = uuid.New()
	updated, err := service.Update(ctx, &changes, true)
	require.NoError(t, err)
	assert.Equal(t, "Casa grande", updated.Title)
	assert.Equal(t, host.ID, updated.HostID)

	_, err = service.Delete(ctx, listing.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.invalidations)
}

func TestListingCategoryService_RequiresStorageFile(t *testing.T) {
	dc := newTestContext(t)
	service := NewListingCategoryService(dc)
	ctx := context.Background()

	_, err := service.Create(ctx, &domain.ListingCategory{Name: "Beach"}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = service.Create(ctx, &domain.ListingCategory{Name: "Beach", StorageFileID: uuid.New()}, true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	file, err := NewStorageFileService(dc).Create(ctx, &domain.StorageFile{FileName: "beach.png"}, true)
	require.NoError(t, err)
	_, err = service.Create(ctx, &domain.ListingCategory{Name: "Beach", StorageFileID: file.ID}, true)
	require.NoError(t, err)

	_, err = service.Create(ctx, &domain.ListingCategory{Name: "BEACH", StorageFileID: file.ID}, true)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = service.Create(ctx, &domain.ListingCategory{Name: strings.Repeat("b", 65), StorageFileID: file.ID}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListingCategoryManagementService(t *testing.T) {
	dc := newTestContext(t)
	ctx := context.Background()
	host := createUser(t, dc, "host@example.com")
	listing := createListing(t, dc, host, "Cabaña", 50)
	other := createListing(t, dc, host, "Depto", 40)

	file, err := NewStorageFileService(dc).Create(ctx, &domain.StorageFile{FileName: "cabins.png"}, true)
	require.NoError(t, err)
	category, err := NewListingCategoryService(dc).Create(ctx, &domain.ListingCategory{Name: "Cabins", StorageFileID: file.ID}, true)
	require.NoError(t, err)

	listings := NewListingService(dc, testSettings().Listing, nil)
	management := NewListingCategoryManagementService(listings, NewListingCategoryService(dc), NewListingCategoryAssociationService(dc))

	_, err = management.AttachCategory(ctx, listing.ID, category.ID, true)
	require.NoError(t, err)
	_, err = management.AttachCategory(ctx, listing.ID, category.ID, true)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	_, err = management.AttachCategory(ctx, uuid.New(), category.ID, true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	inCategory, err := management.GetListingsByCategoryID(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, inCategory, 1)
	assert.Equal(t, listing.ID, inCategory[0].ID)
	assert.NotEqual(t, other.ID, inCategory[0].ID)

	categories, err := management.GetCategoriesByListingID(ctx, listing.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	_, err = management.DeleteCategory(ctx, category.ID, true)
	assert.True(t, errors.Is(err, domain.ErrNotDeletable))

	_, err = management.DetachCategory(ctx, listing.ID, category.ID, true)
	require.NoError(t, err)
	_, err = management.DetachCategory(ctx, listing.ID, category.ID, true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = management.DeleteCategory(ctx, category.ID, true)
	require.NoError(t, err)
}

// Test: borrar un listing borra sus asociaciones y la categoría queda libre
func TestListingCategoryManagementService_DeletedListingReleasesCategory(t *testing.T) {
	dc := newTestContext(t)
	ctx := context.Background()
	host := createUser(t, dc, "host@example.com")
	listing := createListing(t, dc, host, "Cabaña", 50)

	file, err := NewStorageFileService(dc).Create(ctx, &domain.StorageFile{FileName: "cabins.png"}, true)
	require.NoError(t, err)
	category, err := NewListingCategoryService(dc).Create(ctx, &domain.ListingCategory{Name: "Cabins", StorageFileID: file.ID}, true)
	require.NoError(t, err)

	listings := NewListingService(dc, testSettings().Listing, nil)
	management := NewListingCategoryManagementService(listings, NewListingCategoryService(dc), NewListingCategoryAssociationService(dc))
	_, err = management.AttachCategory(ctx, listing.ID, category.ID, true)
	require.NoError(t, err)

	_, err = management.DeleteCategory(ctx, category.ID, true)
	assert.True(t, errors.Is(err, domain.ErrNotDeletable))

	_, err = listings.Delete(ctx, listing.ID, true)
	require.NoError(t, err)

	inCategory, err := management.GetListingsByCategoryID(ctx, category.ID)
	require.NoError(t, err)
	assert.Empty(t, inCategory)

	_, err = management.DeleteCategory(ctx, category.ID, true)
	require.NoError(t, err)
}

func TestListingFeatureService(t *testing.T) {
	service := NewListingFeatureService(newTestContext(t), testSettings().ListingRules)
	ctx := context.Background()
	typeID := uuid.New()

	bedrooms, err := service.Create(ctx, &domain.ListingFeature{Name: "Bedrooms", MinValue: 1, MaxValue: 10, ListingTypeID: typeID}, true)
	require.NoError(t, err)

	_, err = service.Create(ctx, &domain.ListingFeature{Name: "bedrooms", MinValue: 1, MaxValue: 5, ListingTypeID: typeID}, true)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	// Mismo nombre en otro tipo de listing es válido
	_, err = service.Create(ctx, &domain.ListingFeature{Name: "Bedrooms", MinValue: 1, MaxValue: 5, ListingTypeID: uuid.New()}, true)
	require.NoError(t, err)

	_, err = service.Create(ctx, &domain.ListingFeature{Name: "Beds", MinValue: 5, MaxValue: 2, ListingTypeID: typeID}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = service.Create(ctx, &domain.ListingFeature{Name: "Beds", MinValue: -1, MaxValue: 2, ListingTypeID: typeID}, true)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	// Update sin cambiar nombre ni tipo no choca consigo mismo
	changes := *bedrooms
	changes.MaxValue = 12
	updated, err := service.Update(ctx, &changes, true)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.MaxValue)
}

func minutes(hour, minute int) *int {
	value := hour*60 + minute
	return &value
}

func TestListingRulesService_Validation(t *testing.T) {
	blank := "   "
	tests := []struct {
		name  string
		rules domain.ListingRules
		ok    bool
	}{
		{"no times", domain.ListingRules{Guests: 2}, true},
		{"full window", domain.ListingRules{Guests: 2, CheckInStart: minutes(14, 0), CheckInEnd: minutes(20, 0), CheckOut: minutes(11, 0)}, true},
		{"no guests", domain.ListingRules{Guests: 0}, false},
		{"end without start", domain.ListingRules{Guests: 2, CheckInEnd: minutes(20, 0)}, false},
		{"start without end", domain.ListingRules{Guests: 2, CheckInStart: minutes(14, 0)}, false},
		{"window too short", domain.ListingRules{Guests: 2, CheckInStart: minutes(14, 0), CheckInEnd: minutes(14, 30)}, false},
		{"checkout out of range", domain.ListingRules{Guests: 2, CheckOut: minutes(24, 0)}, false},
		{"blank additional rules", domain.ListingRules{Guests: 2, AdditionalRules: &blank}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc := newTestContext(t)
			host := createUser(t, dc, "host@example.com")
			listing := createListing(t, dc, host, "Casa", 10)

			rules := tt.rules
			rules.ListingID = listing.ID
			created, err := NewListingRulesService(dc, testSettings().ListingRules).Create(context.Background(), &rules, true)
			if !tt.ok {
				assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, created.AdditionalRules)
		})
	}
}

func TestListingRulesService_OnePerListing(t *testing.T) {
	dc := newTestContext(t)
	host := createUser(t, dc, "host@example.com")
	listing := createListing(t, dc, host, "Casa", 10)
	service := NewListingRulesService(dc, testSettings().ListingRules)
	ctx := context.Background()

	_, err := service.Create(ctx, &domain.ListingRules{ListingID: listing.ID, Guests: 4}, true)
	require.NoError(t, err)
	_, err = service.Create(ctx, &domain.ListingRules{ListingID: listing.ID, Guests: 2}, true)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	rules, err := service.GetByListingID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, rules.Guests)
}
