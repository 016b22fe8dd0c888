package dto

import (
	"booking-api/domain"

	"github.com/google/uuid"
)

// ListingSearchRequest representa los filtros de GET /listings
type ListingSearchRequest struct {
	Query      string  `json:"query" form:"query"`
	HostID     string  `json:"host_id" form:"host_id"`
	CategoryID string  `json:"category_id" form:"category_id"`
	City       string  `json:"city" form:"city"`
	Country    string  `json:"country" form:"country"`
	Status     string  `json:"status" form:"status"`
	MinPrice   float64 `json:"min_price" form:"min_price"`
	MaxPrice   float64 `json:"max_price" form:"max_price"`
	Page       int     `json:"page" form:"page"`
	PageSize   int     `json:"page_size" form:"page_size"`
	SortBy     string  `json:"sort_by" form:"sort_by"`
	SortOrder  string  `json:"sort_order" form:"sort_order"`
}

// ListingSearchResponse es una página de resultados
type ListingSearchResponse struct {
	Results      []domain.Listing `json:"results"`
	TotalResults int              `json:"total_results"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	TotalPages   int              `json:"total_pages"`
}

// AttachCategoryRequest asocia una categoría a un listing
type AttachCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
}

type AddListingAmenityRequest struct {
	AmenityID uuid.UUID `json:"amenity_id" binding:"required"`
}
