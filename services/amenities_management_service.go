package services

import (
	"context"

	"booking-api/domain"

	"github.com/google/uuid"
)

// AmenitiesManagementService coordina amenities, sus categorías y la relación con listings
type AmenitiesManagementService interface {
	AddAmenity(ctx context.Context, amenity *domain.Amenity, saveChanges bool) (*domain.Amenity, error)
	UpdateAmenity(ctx context.Context, amenity *domain.Amenity, saveChanges bool) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.Amenity, error)
	GetAmenitiesByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Amenity, error)
	DeleteAmenityCategory(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.AmenityCategory, error)
	AddListingAmenity(ctx context.Context, link *domain.ListingAmenities, saveChanges bool) (*domain.ListingAmenities, error)
}

type amenitiesManagementService struct {
	amenities        AmenityService
	categories       AmenityCategoryService
	listingAmenities ListingAmenitiesService
	listings         ListingService
}

func NewAmenitiesManagementService(
	amenities AmenityService,
	categories AmenityCategoryService,
	listingAmenities ListingAmenitiesService,
	listings ListingService,
) AmenitiesManagementService {
	return &amenitiesManagementService{
		amenities:        amenities,
		categories:       categories,
		listingAmenities: listingAmenities,
		listings:         listings,
	}
}

func (s *amenitiesManagementService) AddAmenity(ctx context.Context, amenity *domain.Amenity, saveChanges bool) (*domain.Amenity, error) {
	if _, err := s.categories.GetByID(ctx, amenity.CategoryID); err != nil {
		return nil, err
	}
	return s.amenities.Create(ctx, amenity, saveChanges)
}

func (s *amenitiesManagementService) UpdateAmenity(ctx context.Context, amenity *domain.Amenity, saveChanges bool) (*domain.Amenity, error) {
	if _, err := s.amenities.GetByID(ctx, amenity.ID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, amenity.CategoryID); err != nil {
		return nil, err
	}
	return s.amenities.Update(ctx, amenity, saveChanges)
}

// DeleteAmenity rechaza el borrado si algún listing usa el amenity
func (s *amenitiesManagementService) DeleteAmenity(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.Amenity, error) {
	if _, err := s.amenities.GetByID(ctx, id); err != nil {
		return nil, err
	}
	links, err := s.listingAmenities.Get(ctx, func(l *domain.ListingAmenities) bool { return l.AmenityID == id })
	if err != nil {
		return nil, err
	}
	if len(links) > 0 {
		return nil, domain.NotDeletableError("Amenity", "amenity %s is used by %d listings", id, len(links))
	}
	return s.amenities.Delete(ctx, id, saveChanges)
}

func (s *amenitiesManagementService) GetAmenitiesByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Amenity, error) {
	return s.amenities.Get(ctx, func(a *domain.Amenity) bool { return a.CategoryID == categoryID })
}

// DeleteAmenityCategory rechaza el borrado si la categoría todavía tiene amenities
func (s *amenitiesManagementService) DeleteAmenityCategory(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.AmenityCategory, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	amenities, err := s.GetAmenitiesByCategoryID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(amenities) > 0 {
		return nil, domain.NotDeletableError("AmenityCategory", "amenity category %s still has %d amenities", id, len(amenities))
	}
	return s.categories.Delete(ctx, id, saveChanges)
}

func (s *amenitiesManagementService) AddListingAmenity(ctx context.Context, link *domain.ListingAmenities, saveChanges bool) (*domain.ListingAmenities, error) {
	if _, err := s.amenities.GetByID(ctx, link.AmenityID); err != nil {
		return nil, err
	}
	if _, err := s.listings.GetByID(ctx, link.ListingID); err != nil {
		return nil, err
	}
	return s.listingAmenities.Create(ctx, link, saveChanges)
}
