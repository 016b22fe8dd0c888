package services

import (
	"context"

	"booking-api/domain"

	"github.com/google/uuid"
)

// ListingCategoryManagementService maneja la relación entre listings y categorías
type ListingCategoryManagementService interface {
	AttachCategory(ctx context.Context, listingID, categoryID uuid.UUID, saveChanges bool) (*domain.ListingCategoryAssociation, error)
	DetachCategory(ctx context.Context, listingID, categoryID uuid.UUID, saveChanges bool) (*domain.ListingCategoryAssociation, error)
	GetListingsByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Listing, error)
	GetCategoriesByListingID(ctx context.Context, listingID uuid.UUID) ([]*domain.ListingCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.ListingCategory, error)
}

type listingCategoryManagementService struct {
	listings     ListingService
	categories   ListingCategoryService
	associations ListingCategoryAssociationService
}

func NewListingCategoryManagementService(
	listings ListingService,
	categories ListingCategoryService,
	associations ListingCategoryAssociationService,
) ListingCategoryManagementService {
	return &listingCategoryManagementService{
		listings:     listings,
		categories:   categories,
		associations: associations,
	}
}

func (s *listingCategoryManagementService) AttachCategory(ctx context.Context, listingID, categoryID uuid.UUID, saveChanges bool) (*domain.ListingCategoryAssociation, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	created, err := s.associations.Create(ctx, &domain.ListingCategoryAssociation{
		ListingID:         listingID,
		ListingCategoryID: categoryID,
	}, saveChanges)
	if err != nil {
		return nil, err
	}
	// La búsqueda filtra por categoría
	s.listings.InvalidateSearchCache()
	return created, nil
}

func (s *listingCategoryManagementService) DetachCategory(ctx context.Context, listingID, categoryID uuid.UUID, saveChanges bool) (*domain.ListingCategoryAssociation, error) {
	found, err := s.associations.Get(ctx, func(a *domain.ListingCategoryAssociation) bool {
		return a.ListingID == listingID && a.ListingCategoryID == categoryID
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.NotFoundError("ListingCategoryAssociation", "listing %s is not in category %s", listingID, categoryID)
	}
	deleted, err := s.associations.Delete(ctx, found[0].ID, saveChanges)
	if err != nil {
		return nil, err
	}
	s.listings.InvalidateSearchCache()
	return deleted, nil
}

func (s *listingCategoryManagementService) GetListingsByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*domain.Listing, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.listings.GetByCategoryID(ctx, categoryID)
}

func (s *listingCategoryManagementService) GetCategoriesByListingID(ctx context.Context, listingID uuid.UUID) ([]*domain.ListingCategory, error) {
	associations, err := s.associations.Get(ctx, func(a *domain.ListingCategoryAssociation) bool { return a.ListingID == listingID })
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(associations))
	for i, a := range associations {
		ids[i] = a.ListingCategoryID
	}
	return s.categories.GetByIDs(ctx, ids)
}

// DeleteCategory rechaza el borrado si hay listings en la categoría
func (s *listingCategoryManagementService) DeleteCategory(ctx context.Context, id uuid.UUID, saveChanges bool) (*domain.ListingCategory, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	associations, err := s.associations.Get(ctx, func(a *domain.ListingCategoryAssociation) bool { return a.ListingCategoryID == id })
	if err != nil {
		return nil, err
	}
	if len(associations) > 0 {
		return nil, domain.NotDeletableError("ListingCategory", "category %s still has %d listings", id, len(associations))
	}
	return s.categories.Delete(ctx, id, saveChanges)
}
