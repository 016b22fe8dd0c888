package services

import (
	"context"
	"strings"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

type AmenityService interface {
	EntityService[domain.Amenity]
}

type amenityService struct {
	*entityService[domain.Amenity]
}

func NewAmenityService(dc repositories.DataContext) AmenityService {
	return &amenityService{entityService: newEntityService(dc, dc.Amenities(), "Amenity")}
}

func (s *amenityService) Create(ctx context.Context, amenity *domain.Amenity, saveChanges bool) (*domain.Amenity, error) {
	if err := s.validate(ctx, amenity); err != nil {
		return nil, err
	}
	return s.add(ctx, amenity, saveChanges)
}

func (s *amenityService) Update(ctx context.Context, amenity *domain.Amenity, saveChanges bool) (*domain.Amenity, error) {
	found, err := s.GetByID(ctx, amenity.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, amenity); err != nil {
		return nil, err
	}

	found.AmenityName = amenity.AmenityName
	found.CategoryID = amenity.CategoryID
	return s.update(ctx, found, saveChanges)
}

// validate: el nombre es único dentro de la categoría
func (s *amenityService) validate(ctx context.Context, amenity *domain.Amenity) error {
	amenity.AmenityName = strings.TrimSpace(amenity.AmenityName)
	if amenity.AmenityName == "" {
		return s.invalid("amenity name is required")
	}
	if amenity.CategoryID == uuid.Nil {
		return s.invalid("amenity category is required")
	}

	taken, err := s.exists(ctx, func(a *domain.Amenity) bool {
		return a.ID != amenity.ID &&
			a.CategoryID == amenity.CategoryID &&
			strings.EqualFold(a.AmenityName, amenity.AmenityName)
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("amenity %q already exists in this category", amenity.AmenityName)
	}
	return nil
}

type AmenityCategoryService interface {
	EntityService[domain.AmenityCategory]
}

type amenityCategoryService struct {
	*entityService[domain.AmenityCategory]
}

func NewAmenityCategoryService(dc repositories.DataContext) AmenityCategoryService {
	return &amenityCategoryService{entityService: newEntityService(dc, dc.AmenityCategories(), "AmenityCategory")}
}

func (s *amenityCategoryService) Create(ctx context.Context, category *domain.AmenityCategory, saveChanges bool) (*domain.AmenityCategory, error) {
	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}
	return s.add(ctx, category, saveChanges)
}

func (s *amenityCategoryService) Update(ctx context.Context, category *domain.AmenityCategory, saveChanges bool) (*domain.AmenityCategory, error) {
	found, err := s.GetByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}

	found.CategoryName = category.CategoryName
	return s.update(ctx, found, saveChanges)
}

func (s *amenityCategoryService) validate(ctx context.Context, category *domain.AmenityCategory) error {
	category.CategoryName = strings.TrimSpace(category.CategoryName)
	if category.CategoryName == "" {
		return s.invalid("category name is required")
	}
	taken, err := s.exists(ctx, func(c *domain.AmenityCategory) bool {
		return c.ID != category.ID && strings.EqualFold(c.CategoryName, category.CategoryName)
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("amenity category %q already exists", category.CategoryName)
	}
	return nil
}

type ListingAmenitiesService interface {
	EntityService[domain.ListingAmenities]
}

type listingAmenitiesService struct {
	*entityService[domain.ListingAmenities]
}

func NewListingAmenitiesService(dc repositories.DataContext) ListingAmenitiesService {
	return &listingAmenitiesService{entityService: newEntityService(dc, dc.ListingAmenities(), "ListingAmenities")}
}

func (s *listingAmenitiesService) Create(ctx context.Context, link *domain.ListingAmenities, saveChanges bool) (*domain.ListingAmenities, error) {
	if err := s.validate(ctx, link); err != nil {
		return nil, err
	}
	return s.add(ctx, link, saveChanges)
}

func (s *listingAmenitiesService) Update(ctx context.Context, link *domain.ListingAmenities, saveChanges bool) (*domain.ListingAmenities, error) {
	found, err := s.GetByID(ctx, link.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, link); err != nil {
		return nil, err
	}

	found.ListingID = link.ListingID
	found.AmenityID = link.AmenityID
	return s.update(ctx, found, saveChanges)
}

func (s *listingAmenitiesService) validate(ctx context.Context, link *domain.ListingAmenities) error {
	if link.ListingID == uuid.Nil || link.AmenityID == uuid.Nil {
		return s.invalid("listing and amenity are required")
	}
	taken, err := s.exists(ctx, func(l *domain.ListingAmenities) bool {
		return l.ID != link.ID && l.ListingID == link.ListingID && l.AmenityID == link.AmenityID
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("listing already has this amenity")
	}
	return nil
}
