package main

import (
	"booking-api/config"
	"booking-api/controllers"
	"booking-api/domain"
	"booking-api/middleware"
	"booking-api/repositories"
	"booking-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// appServices son los servicios que usan los controladores y el consumer
type appServices struct {
	users               services.UserService
	roles               services.RoleService
	listings            services.ListingService
	listingQuery        services.ListingQueryService
	listingCategories   services.ListingCategoryService
	categoryManagement  services.ListingCategoryManagementService
	listingFeatures     services.ListingFeatureService
	listingRules        services.ListingRulesService
	listingRatings      services.ListingRatingService
	ratingManagement    services.ListingRatingManagementService
	amenities           services.AmenityService
	amenityCategories   services.AmenityCategoryService
	listingAmenities    services.ListingAmenitiesService
	amenitiesManagement services.AmenitiesManagementService
	reservations        services.ReservationService
	reviews             services.ReviewService
	storageFiles        services.StorageFileService
	scenicViews         services.ScenicViewService
	emailTemplates      services.EmailTemplateService
	smsTemplates        services.SmsTemplateService
	emailHistories      services.EmailHistoryService
	smsHistories        services.SmsHistoryService
	emailManagement     services.EmailManagementService
	smsManagement       services.SmsManagementService
	verificationCodes   services.VerificationCodeService
}

func newServices(
	dc repositories.DataContext,
	settings config.Settings,
	cache repositories.CacheRepository,
	archive repositories.HistoryArchive,
	emailBrokers []services.EmailSenderBroker,
	smsBrokers []services.SmsSenderBroker,
	log *zap.Logger,
) (*appServices, error) {
	s := &appServices{
		users:             services.NewUserService(dc),
		roles:             services.NewRoleService(dc),
		listings:          services.NewListingService(dc, settings.Listing, cache),
		listingCategories: services.NewListingCategoryService(dc),
		listingFeatures:   services.NewListingFeatureService(dc, settings.ListingRules),
		listingRules:      services.NewListingRulesService(dc, settings.ListingRules),
		listingRatings:    services.NewListingRatingService(dc),
		amenities:         services.NewAmenityService(dc),
		amenityCategories: services.NewAmenityCategoryService(dc),
		listingAmenities:  services.NewListingAmenitiesService(dc),
		reservations:      services.NewReservationService(dc, settings.Reservations),
		reviews:           services.NewReviewService(dc, settings.Reviews),
		storageFiles:      services.NewStorageFileService(dc),
		scenicViews:       services.NewScenicViewService(dc),
		emailTemplates:    services.NewEmailTemplateService(dc),
		smsTemplates:      services.NewSmsTemplateService(dc),
		emailHistories:    services.NewEmailHistoryService(dc),
		smsHistories:      services.NewSmsHistoryService(dc),
		verificationCodes: services.NewVerificationCodeService(dc, settings.Verification),
	}

	s.listingQuery = services.NewListingQueryService(s.listings, cache, log)
	s.categoryManagement = services.NewListingCategoryManagementService(
		s.listings, s.listingCategories, services.NewListingCategoryAssociationService(dc))
	s.ratingManagement = services.NewListingRatingManagementService(s.reviews, s.listingRatings, dc)
	s.amenitiesManagement = services.NewAmenitiesManagementService(
		s.amenities, s.amenityCategories, s.listingAmenities, s.listings)

	placeholders, err := services.NewEmailPlaceholderService(s.users, settings.EmailSender)
	if err != nil {
		return nil, err
	}
	messages := services.NewEmailMessageService(settings.EmailSender)
	s.emailManagement = services.NewEmailManagementService(
		s.users, s.emailTemplates, placeholders, messages,
		services.NewEmailSenderService(log, emailBrokers...), s.emailHistories, archive, log)
	s.smsManagement = services.NewSmsManagementService(
		s.users, s.smsTemplates, placeholders, messages,
		services.NewSmsSenderService(log, smsBrokers...), s.smsHistories, archive, log)

	return s, nil
}

// newRouter registra middlewares y rutas. db puede ser nil.
func newRouter(cfg *config.Config, log *zap.Logger, dc repositories.DataContext, s *appServices, db controllers.Pinger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics := middleware.NewMetrics()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORS(),
		middleware.RequestLogger(log),
		metrics.Middleware(),
	)

	router.GET("/health", controllers.NewHealthController(serviceName, db).HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.Use(middleware.ChangeScope(dc, log))

	controllers.NewUserController(s.users).Register(api.Group("/users"))
	controllers.NewEntityController[domain.Role]("Role", s.roles).Register(api.Group("/roles"))

	controllers.NewListingController(controllers.ListingServices{
		Listings:         s.listings,
		Query:            s.listingQuery,
		Categories:       s.categoryManagement,
		Rules:            s.listingRules,
		Ratings:          s.listingRatings,
		RatingManagement: s.ratingManagement,
		Amenities:        s.amenitiesManagement,
		ListingAmenities: s.listingAmenities,
		AmenityEntities:  s.amenities,
		Reservations:     s.reservations,
		Reviews:          s.reviews,
	}).Register(api.Group("/listings"))

	controllers.NewEntityController[domain.ListingCategory]("Listing category", s.listingCategories).
		WithDelete(s.categoryManagement.DeleteCategory).
		Register(api.Group("/listingCategories"))
	controllers.NewEntityController[domain.ListingFeature]("Listing feature", s.listingFeatures).
		Register(api.Group("/listingFeatures"))

	controllers.NewEntityController[domain.Amenity]("Amenity", s.amenities).
		WithCreate(s.amenitiesManagement.AddAmenity).
		WithUpdate(s.amenitiesManagement.UpdateAmenity).
		WithDelete(s.amenitiesManagement.DeleteAmenity).
		Register(api.Group("/amenities"))
	controllers.NewEntityController[domain.AmenityCategory]("Amenity category", s.amenityCategories).
		WithDelete(s.amenitiesManagement.DeleteAmenityCategory).
		Register(api.Group("/amenityCategories"))

	controllers.NewEntityController[domain.Reservation]("Reservation", s.reservations).
		Register(api.Group("/reservations"))
	controllers.NewEntityController[domain.Review]("Review", s.reviews).
		WithCreate(s.ratingManagement.AddReview).
		WithUpdate(s.ratingManagement.UpdateReview).
		WithDelete(s.ratingManagement.DeleteReview).
		Register(api.Group("/reviews"))

	controllers.NewEntityController[domain.StorageFile]("Storage file", s.storageFiles).
		Register(api.Group("/storageFiles"))
	controllers.NewEntityController[domain.ScenicView]("Scenic view", s.scenicViews).
		Register(api.Group("/scenicViews"))

	controllers.NewNotificationController(
		s.emailTemplates, s.smsTemplates,
		s.emailManagement, s.smsManagement,
		s.emailHistories, s.smsHistories,
	).Register(api.Group("/notifications"))
	controllers.NewVerificationCodeController(s.verificationCodes).Register(api.Group("/verificationCodes"))

	log.Info("routes configured", zap.Int("count", len(router.Routes())))
	return router
}
