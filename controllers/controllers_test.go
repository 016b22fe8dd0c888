package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booking-api/config"
	"booking-api/domain"
	"booking-api/dto"
	"booking-api/repositories"
	"booking-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI arma un router con los servicios reales sobre el data context en archivos
type testAPI struct {
	router   *gin.Engine
	dc       repositories.DataContext
	users    services.UserService
	listings services.ListingService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	dc, err := repositories.NewFileContext(t.TempDir())
	require.NoError(t, err)
	settings := config.DefaultSettings()

	users := services.NewUserService(dc)
	listings := services.NewListingService(dc, settings.Listing, nil)
	amenities := services.NewAmenityService(dc)
	amenityCategories := services.NewAmenityCategoryService(dc)
	listingAmenities := services.NewListingAmenitiesService(dc)
	management := services.NewAmenitiesManagementService(amenities, amenityCategories, listingAmenities, listings)
	categories := services.NewListingCategoryService(dc)
	categoryManagement := services.NewListingCategoryManagementService(listings, categories, services.NewListingCategoryAssociationService(dc))
	ratings := services.NewListingRatingService(dc)
	ratingManagement := services.NewListingRatingManagementService(services.NewReviewService(dc, settings.Reviews), ratings, dc)

	router := gin.New()
	api := router.Group("/api")
	NewUserController(users).Register(api.Group("/users"))
	NewEntityController[domain.Role]("Role", services.NewRoleService(dc)).Register(api.Group("/roles"))
	NewEntityController[domain.Amenity]("Amenity", amenities).
		WithCreate(management.AddAmenity).
		WithUpdate(management.UpdateAmenity).
		WithDelete(management.DeleteAmenity).
		Register(api.Group("/amenities"))
	NewEntityController[domain.AmenityCategory]("Amenity category", amenityCategories).
		WithDelete(management.DeleteAmenityCategory).
		Register(api.Group("/amenityCategories"))
	NewListingController(ListingServices{
		Listings:         listings,
		Query:            services.NewListingQueryService(listings, nil, zap.NewNop()),
		Categories:       categoryManagement,
		Rules:            services.NewListingRulesService(dc, settings.ListingRules),
		Ratings:          ratings,
		RatingManagement: ratingManagement,
		Amenities:        management,
		ListingAmenities: listingAmenities,
		AmenityEntities:  amenities,
		Reservations:     services.NewReservationService(dc, settings.Reservations),
		Reviews:          services.NewReviewService(dc, settings.Reviews),
	}).Register(api.Group("/listings"))
	router.GET("/health", NewHealthController("booking-api", nil).HealthCheck)

	return &testAPI{router: router, dc: dc, users: users, listings: listings}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) createUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := a.users.Create(context.Background(), &domain.User{
		FirstName:    "Ana",
		LastName:     "Pérez",
		EmailAddress: email,
		Password:     "secret123",
	}, true)
	require.NoError(t, err)
	return user
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestWriteError_MapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.NotFoundError("Listing", "missing"), http.StatusNotFound, "not_found"},
		{"validation", domain.ValidationError("Listing", "bad"), http.StatusBadRequest, "validation_error"},
		{"duplicate", domain.DuplicateError("Role", "taken"), http.StatusConflict, "duplicate_entity"},
		{"not deletable", domain.NotDeletableError("Amenity", "in use"), http.StatusConflict, "not_deletable"},
		{"wrapped", fmt.Errorf("outer: %w", domain.NotFoundError("User", "x")), http.StatusNotFound, "not_found"},
		{"infrastructure", errors.New("disk full"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, w).Error)
		})
	}
}

// Test: registro, duplicado, lectura y login
func TestUserController(t *testing.T) {
	api := newTestAPI(t)
	body := dto.CreateUserRequest{
		FirstName:    "Ana",
		LastName:     "Pérez",
		EmailAddress: "ana@example.com",
		Password:     "secret123",
	}

	w := api.do(t, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = api.do(t, http.MethodPost, "/api/users", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/users", dto.CreateUserRequest{FirstName: "Ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/users/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/users/login", dto.LoginRequest{EmailAddress: "ana@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", decode[dto.UserResponse](t, w).EmailAddress)

	w = api.do(t, http.MethodPost, "/api/users/login", dto.LoginRequest{EmailAddress: "ana@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEntityController_CRUD(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/roles", domain.Role{Type: domain.RoleTypeHost})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Data domain.Role `json:"data"`
	}](t, w).Data
	require.NotEqual(t, uuid.Nil, created.ID)

	w = api.do(t, http.MethodPost, "/api/roles", domain.Role{Type: domain.RoleTypeHost})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/roles", domain.Role{Type: "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/roles/"+created.ID.String(), domain.Role{Type: domain.RoleTypeHost, IsDisabled: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/roles/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.Role](t, w).IsDisabled)

	w = api.do(t, http.MethodDelete, "/api/roles/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodDelete, "/api/roles/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/roles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.Role](t, w))
}

// Test: una amenity usada por un listing no se puede borrar (409)
func TestAmenityDelete_InUse(t *testing.T) {
	api := newTestAPI(t)
	host := api.createUser(t, "host@example.com")

	w := api.do(t, http.MethodPost, "/api/amenityCategories", domain.AmenityCategory{CategoryName: "Kitchen"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[struct {
		Data domain.AmenityCategory `json:"data"`
	}](t, w).Data

	w = api.do(t, http.MethodPost, "/api/amenities", domain.Amenity{AmenityName: "Oven", CategoryID: category.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	amenity := decode[struct {
		Data domain.Amenity `json:"data"`
	}](t, w).Data

	w = api.do(t, http.MethodPost, "/api/amenities", domain.Amenity{AmenityName: "Grill", CategoryID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	listing, err := api.listings.Create(context.Background(), &domain.Listing{
		Title:  "Casa en las sierras",
		HostID: host.ID,
		Price:  domain.Money{Amount: 80, Currency: "USD"},
	}, true)
	require.NoError(t, err)

	w = api.do(t, http.MethodPost, "/api/listings/"+listing.ID.String()+"/amenities", dto.AddListingAmenityRequest{AmenityID: amenity.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/listings/"+listing.ID.String()+"/amenities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Amenity](t, w), 1)

	w = api.do(t, http.MethodDelete, "/api/amenities/"+amenity.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodDelete, "/api/amenityCategories/"+category.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListingController_SearchAndRules(t *testing.T) {
	api := newTestAPI(t)
	host := api.createUser(t, "host@example.com")

	for i, price := range []float64{50, 120, 200} {
		w := api.do(t, http.MethodPost, "/api/listings", domain.Listing{
			Title:  fmt.Sprintf("Depto %d", i+1),
			HostID: host.ID,
			Price:  domain.Money{Amount: price, Currency: "USD"},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := api.do(t, http.MethodGet, "/api/listings?min_price=100&sort_by=price&sort_order=desc&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[dto.ListingSearchResponse](t, w)
	assert.Equal(t, 2, page.TotalResults)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 200.0, page.Results[0].Price.Amount)

	w = api.do(t, http.MethodGet, "/api/listings?sort_by=rating", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/listings?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	listingID := page.Results[0].ID.String()
	start, end := 14*60, 18*60

	w = api.do(t, http.MethodGet, "/api/listings/"+listingID+"/rules", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPut, "/api/listings/"+listingID+"/rules", domain.ListingRules{Guests: 4, CheckInStart: &start, CheckInEnd: &end})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPut, "/api/listings/"+listingID+"/rules", domain.ListingRules{Guests: 6, PetsAllowed: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/listings/"+listingID+"/rules", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rules := decode[domain.ListingRules](t, w)
	assert.Equal(t, 6, rules.Guests)
	assert.True(t, rules.PetsAllowed)

	w = api.do(t, http.MethodPut, "/api/listings/"+listingID+"/rules", domain.ListingRules{Guests: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Test: recalcular toma las reseñas guardadas aunque la calificación esté desactualizada
func TestListingController_RecalculateRating(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	host := api.createUser(t, "host@example.com")
	listing, err := api.listings.Create(ctx, &domain.Listing{
		Title:  "Casa",
		HostID: host.ID,
		Price:  domain.Money{Amount: 100, Currency: "USD"},
	}, true)
	require.NoError(t, err)

	for _, value := range []int{4, 5} {
		review := &domain.Review{ListingID: listing.ID, ReservationID: uuid.New(), AuthorID: uuid.New(), Rating: value}
		review.MarkCreated(time.Now().UTC())
		require.NoError(t, api.dc.Reviews().Add(ctx, review))
	}

	w := api.do(t, http.MethodGet, "/api/listings/"+listing.ID.String()+"/rating", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/listings/"+listing.ID.String()+"/rating/recalculate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/listings/"+listing.ID.String()+"/rating", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rating := decode[domain.ListingRating](t, w)
	assert.Equal(t, 4.5, rating.Rating)
	assert.Equal(t, 2, rating.ReviewsCount)

	w = api.do(t, http.MethodPost, "/api/listings/"+uuid.New().String()+"/rating/recalculate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/listings/not-a-uuid/rating/recalculate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"booking-api"}`, w.Body.String())
}
