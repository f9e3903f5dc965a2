package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"calmspot/config"
	"calmspot/internal/calm"
	"calmspot/internal/handler"
	"calmspot/internal/middleware"
	"calmspot/internal/repository"
	"calmspot/internal/service"
	"calmspot/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers. cloud may be nil, image
// uploads then answer 503. Background limiter sweeps stop with ctx.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, calc *calm.Calculator, cloud cloudinary.Client, logger *slog.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	globalLimiter := middleware.NewInMemoryRateLimiter(cfg.Server.RateLimit, time.Minute)
	globalLimiter.StartSweeper(ctx, 5*time.Minute)
	r.Use(middleware.RateLimit(globalLimiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	placeTypeRepo := repository.NewPlaceTypeRepository(db)
	noiseRepo := repository.NewNoiseCategoryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	var images service.ImageStore
	if cloud != nil {
		images = cloud
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	userSvc := service.NewUserService(userRepo)
	placeSvc := service.NewPlaceService(service.PlaceServiceDeps{
		Places:      placeRepo,
		Types:       placeTypeRepo,
		Reviews:     reviewRepo,
		Favorites:   favRepo,
		Scorer:      calc,
		Projector:   calm.UTM(cfg.Calm.UTMZone),
		Images:      images,
		ImageFolder: cfg.Cloudinary.Folder,
		Logger:      logger,
	})
	noiseSvc := service.NewNoiseCategoryService(noiseRepo, calc)
	reviewSvc := service.NewReviewService(reviewRepo, placeRepo, userRepo)
	favSvc := service.NewFavoriteService(favRepo, placeRepo)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(userSvc, reviewSvc, favSvc)
	placeHandler := handler.NewPlaceHandler(placeSvc)
	calmHandler := handler.NewCalmHandler(placeSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	favoriteHandler := handler.NewFavoriteHandler(favSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	adminHandler := handler.NewAdminHandler(userSvc, adminRepo)
	adminPlaceHandler := handler.NewAdminPlaceHandler(placeSvc)
	noiseHandler := handler.NewNoiseCategoryHandler(noiseSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalAuth := middleware.OptionalAuth(&cfg.JWT)
	previewLimiter := middleware.NewInMemoryRateLimiter(cfg.Calm.PreviewRateLimit, time.Minute)
	previewLimiter.StartSweeper(ctx, 5*time.Minute)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", meHandler.Get)
			me.PATCH("", meHandler.Update)
			me.GET("/reviews", meHandler.Reviews)
			me.GET("/favorites", meHandler.Favorites)
		}

		places := api.Group("/places")
		places.Use(optionalAuth)
		{
			places.GET("/types", placeHandler.ListTypes)
			places.GET("", placeHandler.List)
			places.GET("/:id", placeHandler.Get)
		}

		api.POST("/calm/score", authMw,
			middleware.RateLimitBy(previewLimiter, middleware.UserOrIPKey), calmHandler.Score)

		reviews := api.Group("/reviews/places")
		reviews.Use(authMw)
		{
			reviews.POST("/:place_id", reviewHandler.Rate)
			reviews.GET("/:place_id", reviewHandler.ListByPlace)
			reviews.DELETE("/:place_id", reviewHandler.Delete)
		}

		favorites := api.Group("/favorites")
		favorites.Use(authMw)
		{
			favorites.POST("/:place_id", favoriteHandler.Add)
			favorites.DELETE("/:place_id", favoriteHandler.Remove)
		}

		api.POST("/feedback", optionalAuth, feedbackHandler.Submit)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/dashboard/activity", adminHandler.Activity)

			admin.GET("/places", adminPlaceHandler.List)
			admin.POST("/places", adminPlaceHandler.Create)
			admin.POST("/places/upload", adminPlaceHandler.Upload)
			admin.POST("/places/recalculate", adminPlaceHandler.RecalculateAll)
			admin.GET("/places/type/:type_id", adminPlaceHandler.ListByType)
			admin.GET("/places/:id", adminPlaceHandler.Get)
			admin.PATCH("/places/:id", adminPlaceHandler.Update)
			admin.DELETE("/places/:id", adminPlaceHandler.Delete)
			admin.POST("/places/:id/recalculate", adminPlaceHandler.Recalculate)

			admin.GET("/place-types", adminPlaceHandler.ListTypes)
			admin.GET("/place-types/:id", adminPlaceHandler.GetType)

			admin.GET("/noise-categories", noiseHandler.List)
			admin.PATCH("/noise-categories/:id", noiseHandler.Update)
			admin.POST("/noise-categories/reload", noiseHandler.Reload)

			admin.GET("/admins", adminHandler.ListAdmins)
			admin.POST("/admins", adminHandler.CreateAdmin)
			admin.GET("/admins/:id", adminHandler.GetAdmin)
			admin.PATCH("/admins/:id", adminHandler.UpdateAdmin)
			admin.DELETE("/admins/:id", adminHandler.DeleteAdmin)

			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/feedback", feedbackHandler.List)
			admin.GET("/feedback/:id", feedbackHandler.Get)
			admin.DELETE("/feedback/:id", feedbackHandler.Delete)
		}
	}

	return r
}
