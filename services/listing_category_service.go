package services

import (
	"context"
	"strings"

	"booking-api/domain"
	"booking-api/repositories"

	"github.com/google/uuid"
)

const maxCategoryNameLength = 64

type ListingCategoryService interface {
	EntityService[domain.ListingCategory]
}

type listingCategoryService struct {
	*entityService[domain.ListingCategory]
	files repositories.Set[domain.StorageFile]
}

func NewListingCategoryService(dc repositories.DataContext) ListingCategoryService {
	return &listingCategoryService{
		entityService: newEntityService(dc, dc.ListingCategories(), "ListingCategory"),
		files:         dc.StorageFiles(),
	}
}

func (s *listingCategoryService) Create(ctx context.Context, category *domain.ListingCategory, saveChanges bool) (*domain.ListingCategory, error) {
	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}
	return s.add(ctx, category, saveChanges)
}

func (s *listingCategoryService) Update(ctx context.Context, category *domain.ListingCategory, saveChanges bool) (*domain.ListingCategory, error) {
	found, err := s.GetByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, category); err != nil {
		return nil, err
	}

	found.Name = category.Name
	found.IsSpecialCategory = category.IsSpecialCategory
	found.StorageFileID = category.StorageFileID
	return s.update(ctx, found, saveChanges)
}

// validate: nombre obligatorio, hasta 64 caracteres, único sin distinguir mayúsculas,
// y la imagen tiene que existir
func (s *listingCategoryService) validate(ctx context.Context, category *domain.ListingCategory) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return s.invalid("category name is required")
	}
	if len([]rune(category.Name)) > maxCategoryNameLength {
		return s.invalid("category name must be at most %d characters", maxCategoryNameLength)
	}

	taken, err := s.exists(ctx, func(c *domain.ListingCategory) bool {
		return c.ID != category.ID && strings.EqualFold(c.Name, category.Name)
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("category %q already exists", category.Name)
	}

	if category.StorageFileID == uuid.Nil {
		return s.invalid("category image is required")
	}
	return requireExisting(ctx, s.files, category.StorageFileID, "StorageFile")
}

type ListingCategoryAssociationService interface {
	EntityService[domain.ListingCategoryAssociation]
}

type listingCategoryAssociationService struct {
	*entityService[domain.ListingCategoryAssociation]
}

func NewListingCategoryAssociationService(dc repositories.DataContext) ListingCategoryAssociationService {
	return &listingCategoryAssociationService{
		entityService: newEntityService(dc, dc.ListingCategoryAssociations(), "ListingCategoryAssociation"),
	}
}

func (s *listingCategoryAssociationService) Create(ctx context.Context, association *domain.ListingCategoryAssociation, saveChanges bool) (*domain.ListingCategoryAssociation, error) {
	if err := s.validate(ctx, association); err != nil {
		return nil, err
	}
	return s.add(ctx, association, saveChanges)
}

func (s *listingCategoryAssociationService) Update(ctx context.Context, association *domain.ListingCategoryAssociation, saveChanges bool) (*domain.ListingCategoryAssociation, error) {
	found, err := s.GetByID(ctx, association.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, association); err != nil {
		return nil, err
	}

	found.ListingID = association.ListingID
	found.ListingCategoryID = association.ListingCategoryID
	return s.update(ctx, found, saveChanges)
}

func (s *listingCategoryAssociationService) validate(ctx context.Context, association *domain.ListingCategoryAssociation) error {
	if association.ListingID == uuid.Nil || association.ListingCategoryID == uuid.Nil {
		return s.invalid("listing and category are required")
	}
	taken, err := s.exists(ctx, func(a *domain.ListingCategoryAssociation) bool {
		return a.ID != association.ID &&
			a.ListingID == association.ListingID &&
			a.ListingCategoryID == association.ListingCategoryID
	})
	if err != nil {
		return err
	}
	if taken {
		return s.duplicate("listing already belongs to this category")
	}
	return nil
}
