package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aeropark-service/internal/domain/entity"
	"aeropark-service/internal/domain/repository"
	"aeropark-service/internal/infrastructure/auth"
	"aeropark-service/internal/infrastructure/config"
	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
)

// Services groups everything the router wires into handlers.
type Services struct {
	Auth         *usecase.AuthService
	Users        *usecase.UserService
	Parkings     *usecase.ParkingService
	Airports     *usecase.AirportService
	Airlines     *usecase.AirlineService
	ActivityLogs *usecase.ActivityLogService
	CommandLogs  *usecase.CommandLogService
	Feedbacks    *usecase.FeedbackService
}

// NewRouter builds the gin engine with all routes, auth and metrics wired.
func NewRouter(cfg *config.Config, svc Services, tokens *auth.JWTService, users repository.UserRepository, m *metrics.Metrics, log logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestMetrics(m))
	router.Use(RequestTimeout(cfg.RequestTimeout))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.AppVersion})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protect := Protect(tokens, users, log)
	adminOnly := Authorize(entity.RoleAdmin)

	authHandler := NewAuthHandler(svc.Auth, log)
	userHandler := NewUserHandler(svc.Users, log)
	parkingHandler := NewParkingHandler(svc.Parkings, log)
	airportHandler := NewAirportHandler(svc.Airports, log)
	airlineHandler := NewAirlineHandler(svc.Airlines, log)
	activityLogHandler := NewActivityLogHandler(svc.ActivityLogs, log)
	commandLogHandler := NewCommandLogHandler(svc.CommandLogs, log)
	feedbackHandler := NewFeedbackHandler(svc.Feedbacks, log)

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/verify-token", authHandler.VerifyToken)
		authRoutes.POST("/register", protect, adminOnly, authHandler.Register)
	}

	userRoutes := api.Group("/users")
	{
		userRoutes.POST("/register", userHandler.SelfRegister)
		userRoutes.GET("", protect, adminOnly, userHandler.List)
		userRoutes.GET("/:id", protect, adminOnly, userHandler.Get)
		userRoutes.PATCH("/:id/activate", protect, adminOnly, userHandler.Activate)
		userRoutes.PATCH("/:id/deactivate", protect, adminOnly, userHandler.Deactivate)
	}

	parkingRoutes := api.Group("/parkings")
	{
		parkingRoutes.GET("", parkingHandler.List)
		parkingRoutes.GET("/airlines/unique", parkingHandler.UniqueAirlines)
		parkingRoutes.GET("/unique-airport-icaos", parkingHandler.UniqueAirportICAOs)
		parkingRoutes.GET("/by-country", parkingHandler.ByCountry)
		parkingRoutes.GET("/stats/global", parkingHandler.GlobalStats)
		parkingRoutes.GET("/:id", parkingHandler.Get)
		parkingRoutes.POST("", protect, adminOnly, parkingHandler.Create)
		parkingRoutes.POST("/bulk", protect, adminOnly, parkingHandler.BulkCreate)
		parkingRoutes.POST("/check-duplicates", protect, adminOnly, parkingHandler.CheckDuplicates)
		parkingRoutes.PUT("/:id", protect, adminOnly, parkingHandler.Update)
		parkingRoutes.PATCH("/:id/map", protect, adminOnly, parkingHandler.UpdateMap)
		// PUT alias kept for older dashboard builds.
		parkingRoutes.PUT("/:id/map", protect, adminOnly, parkingHandler.UpdateMap)
		parkingRoutes.DELETE("/bulk", protect, adminOnly, parkingHandler.BulkDelete)
		// POST alias kept for clients that cannot send a DELETE body.
		parkingRoutes.POST("/bulk-delete", protect, adminOnly, parkingHandler.BulkDelete)
		parkingRoutes.DELETE("/:id", protect, adminOnly, parkingHandler.Delete)
	}

	airportRoutes := api.Group("/airports")
	{
		airportRoutes.GET("", airportHandler.List)
		airportRoutes.GET("/:id", airportHandler.Get)
		airportRoutes.POST("", protect, adminOnly, airportHandler.Create)
		airportRoutes.PUT("/:id", protect, adminOnly, airportHandler.Update)
		airportRoutes.DELETE("/:id", protect, adminOnly, airportHandler.Delete)
	}

	airlineRoutes := api.Group("/airlines")
	{
		airlineRoutes.GET("", airlineHandler.List)
		airlineRoutes.GET("/managed", airlineHandler.Managed)
		airlineRoutes.GET("/:id", airlineHandler.Get)
		airlineRoutes.POST("", protect, adminOnly, airlineHandler.Create)
		airlineRoutes.PUT("/:id", protect, adminOnly, airlineHandler.Update)
		airlineRoutes.PUT("/:id/logo", protect, adminOnly, airlineHandler.UpdateLogo)
		airlineRoutes.DELETE("/:id", protect, adminOnly, airlineHandler.Delete)
	}

	activityLogRoutes := api.Group("/activity-logs", protect, adminOnly)
	{
		activityLogRoutes.GET("", activityLogHandler.List)
		activityLogRoutes.DELETE("/:id", activityLogHandler.Delete)
	}

	commandLogRoutes := api.Group("/discord-logs", protect, adminOnly)
	{
		commandLogRoutes.GET("", commandLogHandler.List)
		commandLogRoutes.GET("/stats", commandLogHandler.Stats)
		commandLogRoutes.GET("/oldest", commandLogHandler.Oldest)
		commandLogRoutes.POST("/clean", commandLogHandler.Clean)
		commandLogRoutes.POST("/stats/reset", commandLogHandler.ResetStats)
		commandLogRoutes.DELETE("/:id", commandLogHandler.Delete)
	}

	feedbackRoutes := api.Group("/discord-feedback")
	{
		feedbackRoutes.POST("", BotAuth(cfg.BotAPIKey, log), feedbackHandler.Create)
		feedbackRoutes.GET("", protect, adminOnly, feedbackHandler.List)
		feedbackRoutes.GET("/stats", protect, adminOnly, feedbackHandler.Stats)
		feedbackRoutes.GET("/:id", protect, adminOnly, feedbackHandler.Get)
		feedbackRoutes.PATCH("/:id/status", protect, adminOnly, feedbackHandler.UpdateStatus)
		feedbackRoutes.DELETE("/:id", protect, adminOnly, feedbackHandler.Delete)
	}

	return router
}
