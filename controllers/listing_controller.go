package controllers

import (
	"errors"
	"net/http"

	"booking-api/domain"
	"booking-api/dto"
	"booking-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListingServices agrupa lo que necesita el controlador de listings
type ListingServices struct {
	Listings         services.ListingService
	Query            services.ListingQueryService
	Categories       services.ListingCategoryManagementService
	Rules            services.ListingRulesService
	Ratings          services.ListingRatingService
	RatingManagement services.ListingRatingManagementService
	Amenities        services.AmenitiesManagementService
	ListingAmenities services.ListingAmenitiesService
	AmenityEntities  services.AmenityService
	Reservations     services.ReservationService
	Reviews          services.ReviewService
}

// ListingController maneja /listings y sus sub-recursos
type ListingController struct {
	*EntityController[domain.Listing]
	svc ListingServices
}

func NewListingController(svc ListingServices) *ListingController {
	return &ListingController{
		EntityController: NewEntityController[domain.Listing]("Listing", svc.Listings),
		svc:              svc,
	}
}

func (ctrl *ListingController) Register(group *gin.RouterGroup) {
	group.GET("", ctrl.Search)
	group.GET("/:id", ctrl.GetByID)
	group.POST("", ctrl.Create)
	group.PUT("/:id", ctrl.Update)
	group.DELETE("/:id", ctrl.Delete)

	group.GET("/:id/categories", ctrl.GetCategories)
	group.POST("/:id/categories", ctrl.AttachCategory)
	group.DELETE("/:id/categories/:categoryId", ctrl.DetachCategory)
	group.GET("/:id/rules", ctrl.GetRules)
	group.PUT("/:id/rules", ctrl.PutRules)
	group.GET("/:id/rating", ctrl.GetRating)
	group.POST("/:id/rating/recalculate", ctrl.RecalculateRating)
	group.GET("/:id/amenities", ctrl.GetAmenities)
	group.POST("/:id/amenities", ctrl.AddAmenity)
	group.GET("/:id/reservations", ctrl.GetReservations)
	group.GET("/:id/reviews", ctrl.GetReviews)
}

// Search maneja GET /listings?query=...&page=...
func (ctrl *ListingController) Search(c *gin.Context) {
	// 1. Parsear los query params
	var req dto.ListingSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   string(domain.KindValidation),
			Message: err.Error(),
		})
		return
	}

	// 2. Buscar (defaults y validación los aplica el servicio)
	response, err := ctrl.svc.Query.Search(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCategories maneja GET /listings/:id/categories
func (ctrl *ListingController) GetCategories(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	categories, err := ctrl.svc.Categories.GetCategoriesByListingID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// AttachCategory maneja POST /listings/:id/categories
func (ctrl *ListingController) AttachCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AttachCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	association, err := ctrl.svc.Categories.AttachCategory(c.Request.Context(), id, req.CategoryID, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Category attached successfully",
		Data:    association,
	})
}

// DetachCategory maneja DELETE /listings/:id/categories/:categoryId
func (ctrl *ListingController) DetachCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}

	if _, err := ctrl.svc.Categories.DetachCategory(c.Request.Context(), id, categoryID, true); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Category detached successfully",
	})
}

// GetRules maneja GET /listings/:id/rules
func (ctrl *ListingController) GetRules(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rules, err := ctrl.svc.Rules.GetByListingID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// PutRules maneja PUT /listings/:id/rules: crea las reglas o las reemplaza
func (ctrl *ListingController) PutRules(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var rules domain.ListingRules
	if !bindJSON(c, &rules) {
		return
	}
	rules.ListingID = id

	ctx := c.Request.Context()
	existing, err := ctrl.svc.Rules.GetByListingID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		rules.ID = uuid.Nil
		created, err := ctrl.svc.Rules.Create(ctx, &rules, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.SuccessResponse{
			Message: "Listing rules created successfully",
			Data:    created,
		})
	case err != nil:
		writeError(c, err)
	default:
		rules.ID = existing.ID
		updated, err := ctrl.svc.Rules.Update(ctx, &rules, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.SuccessResponse{
			Message: "Listing rules updated successfully",
			Data:    updated,
		})
	}
}

// GetRating maneja GET /listings/:id/rating
func (ctrl *ListingController) GetRating(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rating, err := ctrl.svc.Ratings.GetByListingID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// RecalculateRating maneja POST /listings/:id/rating/recalculate
func (ctrl *ListingController) RecalculateRating(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rating, err := ctrl.svc.RatingManagement.Recalculate(c.Request.Context(), id, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Listing rating recalculated successfully",
		Data:    rating,
	})
}

// GetAmenities maneja GET /listings/:id/amenities
func (ctrl *ListingController) GetAmenities(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := ctrl.svc.Listings.GetByID(ctx, id); err != nil {
		writeError(c, err)
		return
	}
	links, err := ctrl.svc.ListingAmenities.Get(ctx, func(l *domain.ListingAmenities) bool {
		return l.ListingID == id
	})
	if err != nil {
		writeError(c, err)
		return
	}

	ids := make([]uuid.UUID, len(links))
	for i, l := range links {
		ids[i] = l.AmenityID
	}
	amenities, err := ctrl.svc.AmenityEntities.GetByIDs(ctx, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, amenities)
}

// AddAmenity maneja POST /listings/:id/amenities
func (ctrl *ListingController) AddAmenity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddListingAmenityRequest
	if !bindJSON(c, &req) {
		return
	}

	link := &domain.ListingAmenities{ListingID: id, AmenityID: req.AmenityID}
	created, err := ctrl.svc.Amenities.AddListingAmenity(c.Request.Context(), link, true)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Amenity added successfully",
		Data:    created,
	})
}

// GetReservations maneja GET /listings/:id/reservations
func (ctrl *ListingController) GetReservations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservations, err := ctrl.svc.Reservations.GetByListingID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetReviews maneja GET /listings/:id/reviews
func (ctrl *ListingController) GetReviews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.svc.Reviews.GetByListingID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
