package services

import (
	"context"
	"crypto/md5"
	"fmt"
	"sort"
	"strings"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListingQueryService pagina y filtra listings con caché
type ListingQueryService interface {
	Search(ctx context.Context, request dto.ListingSearchRequest) (*dto.ListingSearchResponse, error)
}

type listingQueryService struct {
	listings ListingService
	cache    repositories.CacheRepository
	log      *zap.Logger
}

// NewListingQueryService crea el servicio; cache puede ser nil
func NewListingQueryService(listings ListingService, cache repositories.CacheRepository, log *zap.Logger) ListingQueryService {
	return &listingQueryService{listings: listings, cache: cache, log: log}
}

// generateCacheKey genera una clave de caché basada en los parámetros del request
func (s *listingQueryService) generateCacheKey(request dto.ListingSearchRequest) string {
	keyParts := []string{
		fmt.Sprintf("query:%s", strings.ToLower(request.Query)),
		fmt.Sprintf("host:%s", request.HostID),
		fmt.Sprintf("category:%s", request.CategoryID),
		fmt.Sprintf("city:%s", strings.ToLower(request.City)),
		fmt.Sprintf("country:%s", strings.ToLower(request.Country)),
		fmt.Sprintf("status:%s", request.Status),
		fmt.Sprintf("min_price:%.2f", request.MinPrice),
		fmt.Sprintf("max_price:%.2f", request.MaxPrice),
		fmt.Sprintf("page:%d", request.Page),
		fmt.Sprintf("page_size:%d", request.PageSize),
		fmt.Sprintf("sort_by:%s", request.SortBy),
		fmt.Sprintf("sort_order:%s", request.SortOrder),
	}

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))
	return s.cache.Key(fmt.Sprintf("%x", hash))
}

// Search consulta primero el caché, si no hay hit filtra los listings guardados
func (s *listingQueryService) Search(ctx context.Context, request dto.ListingSearchRequest) (*dto.ListingSearchResponse, error) {
	filter, err := s.validateSearchRequest(&request)
	if err != nil {
		return nil, err
	}

	var cacheKey string
	if s.cache != nil {
		cacheKey = s.generateCacheKey(request)
		if listings, total, found := s.cache.Get(cacheKey); found {
			s.log.Debug("listing search cache hit", zap.String("key", cacheKey))
			return newSearchResponse(listings, total, request), nil
		}
		s.log.Debug("listing search cache miss", zap.String("key", cacheKey))
	}

	var candidates []*domain.Listing
	if filter.categoryID != uuid.Nil {
		candidates, err = s.listings.GetByCategoryID(ctx, filter.categoryID)
	} else {
		candidates, err = s.listings.Get(ctx, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("error searching listings: %w", err)
	}

	matches := make([]domain.Listing, 0, len(candidates))
	for _, listing := range candidates {
		if filter.matches(listing, request) {
			matches = append(matches, *listing)
		}
	}
	sortListings(matches, request.SortBy, request.SortOrder)

	total := len(matches)
	start := (request.Page - 1) * request.PageSize
	if start > total {
		start = total
	}
	end := start + request.PageSize
	if end > total {
		end = total
	}
	page := matches[start:end]

	if s.cache != nil {
		s.cache.Set(cacheKey, page, total)
	}
	return newSearchResponse(page, total, request), nil
}

type listingFilter struct {
	hostID     uuid.UUID
	categoryID uuid.UUID
}

func (f listingFilter) matches(listing *domain.Listing, request dto.ListingSearchRequest) bool {
	if f.hostID != uuid.Nil && listing.HostID != f.hostID {
		return false
	}
	if request.Status != "" && string(listing.Status) != request.Status {
		return false
	}
	if request.City != "" && !strings.EqualFold(listing.City, request.City) {
		return false
	}
	if request.Country != "" && !strings.EqualFold(listing.Country, request.Country) {
		return false
	}
	if request.MinPrice > 0 && listing.Price.Amount < request.MinPrice {
		return false
	}
	if request.MaxPrice > 0 && listing.Price.Amount > request.MaxPrice {
		return false
	}
	if request.Query != "" {
		query := strings.ToLower(request.Query)
		if !strings.Contains(strings.ToLower(listing.Title), query) &&
			!strings.Contains(strings.ToLower(listing.Description), query) {
			return false
		}
	}
	return true
}

func sortListings(listings []domain.Listing, sortBy, sortOrder string) {
	less := func(i, j int) bool {
		switch sortBy {
		case "price":
			return listings[i].Price.Amount < listings[j].Price.Amount
		case "title":
			return strings.ToLower(listings[i].Title) < strings.ToLower(listings[j].Title)
		default:
			return listings[i].CreatedTime.Before(listings[j].CreatedTime)
		}
	}
	if sortOrder == "desc" {
		sort.SliceStable(listings, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(listings, less)
}

func newSearchResponse(listings []domain.Listing, total int, request dto.ListingSearchRequest) *dto.ListingSearchResponse {
	return &dto.ListingSearchResponse{
		Results:      listings,
		TotalResults: total,
		Page:         request.Page,
		PageSize:     request.PageSize,
		TotalPages:   (total + request.PageSize - 1) / request.PageSize,
	}
}

// validateSearchRequest aplica valores por defecto y valida los filtros
func (s *listingQueryService) validateSearchRequest(request *dto.ListingSearchRequest) (listingFilter, error) {
	var filter listingFilter

	if request.Page < 1 {
		request.Page = 1
	}
	if request.PageSize < 1 {
		request.PageSize = defaultPageSize
	}
	if request.PageSize > maxPageSize {
		request.PageSize = maxPageSize
	}
	if request.SortBy == "" {
		request.SortBy = "created_time"
	}
	if request.SortOrder == "" {
		request.SortOrder = "asc"
	}

	switch request.SortBy {
	case "created_time", "price", "title":
	default:
		return filter, domain.ValidationError("Listing", "invalid sort_by %q", request.SortBy)
	}
	if request.SortOrder != "asc" && request.SortOrder != "desc" {
		return filter, domain.ValidationError("Listing", "invalid sort_order: must be 'asc' or 'desc'")
	}
	if request.Status != "" && !domain.ListingStatus(request.Status).IsValid() {
		return filter, domain.ValidationError("Listing", "invalid status %q", request.Status)
	}
	if request.MinPrice < 0 || request.MaxPrice < 0 {
		return filter, domain.ValidationError("Listing", "prices cannot be negative")
	}
	if request.MinPrice > 0 && request.MaxPrice > 0 && request.MinPrice > request.MaxPrice {
		return filter, domain.ValidationError("Listing", "min_price cannot be greater than max_price")
	}

	var err error
	if request.HostID != "" {
		if filter.hostID, err = uuid.Parse(request.HostID); err != nil {
			return filter, domain.ValidationError("Listing", "invalid host_id %q", request.HostID)
		}
	}
	if request.CategoryID != "" {
		if filter.categoryID, err = uuid.Parse(request.CategoryID); err != nil {
			return filter, domain.ValidationError("Listing", "invalid category_id %q", request.CategoryID)
		}
	}
	return filter, nil
}
