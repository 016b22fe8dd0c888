package services

import (
	"context"
	"strings"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

type ListingService interface {
	EntityService[domain.Listing]
	GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Listing, error)
	// InvalidateSearchCache descarta las páginas de búsqueda cacheadas
	InvalidateSearchCache()
}

// listingService valida títulos y precios según ListingSettings.
// Cada escritura invalida las páginas de búsqueda cacheadas.
type listingService struct {
	*entityService[domain.Listing]
	users        repositories.Set[domain.User]
	associations repositories.Set[domain.ListingCategoryAssociation]
	amenities    repositories.Set[domain.ListingAmenities]
	settings     config.ListingSettings
	cache        repositories.CacheRepository
}

// NewListingService crea el servicio; cache puede ser nil
func NewListingService(dc repositories.DataContext, settings config.ListingSettings, cache repositories.CacheRepository) ListingService {
	return &listingService{
		entityService: newEntityService(dc, dc.Listings(), "Listing"),
		users:         dc.Users(),
		associations:  dc.ListingCategoryAssociations(),
		amenities:     dc.ListingAmenities(),
		settings:      settings,
		cache:         cache,
	}
}

func (s *listingService) Create(ctx context.Context, listing *domain.Listing, saveChanges bool) (*domain.Listing, error) {
	if listing.Status == "" {
		listing.Status = domain.ListingStatusDraft
	}
	if err := s.validate(listing); err != nil {
		return nil, err
	}
	if err := requireExisting(ctx, s.users, listing.HostID, "User"); err != nil {
		return nil, err
	}

	created, err := s.add(ctx, listing, saveChanges)
	if err != nil {
		return nil, err
	}
	s.InvalidateSearchCache()
	return created, nil
}

// Update no permite cambiar el host
func (s *listingService) Update(ctx context.Context, listing *domain.Listing, saveChanges bool) (*domain.Listing, error) {
	found, err := s.GetByID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	if listing.Status == "" {
		listing.Status = found.Status
	}
	if err := s.validate(listing); err != nil {
		return nil, err
	}

	found.Title = listing.Title
	found.Description = listing.Description
	found.Status = listing.Status
	found.City = listing.City
	found.Country = listing.Country
	found.BuiltDate = listing.BuiltDate
	found.Price = listing.Price

	updated, err := s.update(ctx, found, saveChanges)
	if err != nil {
		return nil, err
	}
	s.InvalidateSearchCache()
	return updated, nil
}

// Delete borra también las asociaciones a categorías y amenities del listing,
// todo en el mismo SaveChanges
func (s *listingService) Delete(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.Listing, error) {
	if saveChanges {
		ctx = repositories.WithChangeScope(ctx)
	}
	deleted, err := s.entityService.Delete(ctx, id, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	associations, err := s.associations.Query(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range associations {
		if a.ListingID != id {
			continue
		}
		a.MarkDeleted(now)
		if err := s.associations.Update(ctx, a); err != nil {
			return nil, err
		}
	}

	links, err := s.amenities.Query(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		if l.ListingID != id {
			continue
		}
		l.MarkDeleted(now)
		if err := s.amenities.Update(ctx, l); err != nil {
			return nil, err
		}
	}

	if err := s.commit(ctx, saveChanges); err != nil {
		return nil, err
	}
	s.InvalidateSearchCache()
	return deleted, nil
}

// GetByCategoryID devuelve los listings asociados a una categoría
func (s *listingService) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Listing, error) {
	associations, err := s.associations.Query(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(associations))
	for _, a := range associations {
		if a.ListingCategoryID == categoryID {
			ids = append(ids, a.ListingID)
		}
	}
	if len(ids) == 0 {
		return []*domain.Listing{}, nil
	}
	return s.GetByIDs(ctx, ids)
}

func (s *listingService) validate(listing *domain.Listing) error {
	listing.Title = strings.TrimSpace(listing.Title)
	if n := len([]rune(listing.Title)); n < s.settings.MinTitleLength || n > s.settings.MaxTitleLength || n == 0 {
		return s.invalid("title length must be between %d and %d", s.settings.MinTitleLength, s.settings.MaxTitleLength)
	}
	if listing.Price.Amount < s.settings.MinListingPrice {
		return s.invalid("price must be at least %.2f", s.settings.MinListingPrice)
	}
	if !listing.Status.IsValid() {
		return s.invalid("invalid status %q", listing.Status)
	}
	if listing.BuiltDate != nil && listing.BuiltDate.After(s.now()) {
		return s.invalid("built date cannot be in the future")
	}
	return nil
}

func (s *listingService) InvalidateSearchCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
