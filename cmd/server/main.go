package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aeropark-service/internal/infrastructure/assetstore"
	"aeropark-service/internal/infrastructure/auth"
	"aeropark-service/internal/infrastructure/config"
	"aeropark-service/internal/infrastructure/persistence"
	"aeropark-service/internal/interface/api"
	mongoRepo "aeropark-service/internal/interface/repository"
	"aeropark-service/internal/usecase"
	"aeropark-service/pkg/logger"
	"aeropark-service/pkg/metrics"
)

const retentionHour = 3

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Aeropark Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up metrics
	m := metrics.NewMetrics("aeropark")

	// Set up asset store
	assets, err := assetstore.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, log)
	if err != nil {
		log.Fatal("Failed to init asset store", "error", err)
	}

	// Set up repositories
	parkingRepo := mongoRepo.NewMongoParkingRepository(db)
	airportRepo := mongoRepo.NewMongoAirportRepository(db)
	airlineRepo := mongoRepo.NewMongoAirlineRepository(db)
	userRepo := mongoRepo.NewMongoUserRepository(db)
	activityLogRepo := mongoRepo.NewMongoActivityLogRepository(db)
	commandLogRepo := mongoRepo.NewMongoCommandLogRepository(db)
	feedbackRepo := mongoRepo.NewMongoDiscordFeedbackRepository(db)

	// Set up auth primitives
	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)

	// Set up the audit trail worker
	audit := usecase.NewActivityLogger(activityLogRepo, log, m)

	// Set up services
	svc := api.Services{
		Auth:         usecase.NewAuthService(userRepo, tokens, hasher, audit, log),
		Users:        usecase.NewUserService(userRepo, hasher, audit, log),
		Parkings:     usecase.NewParkingService(parkingRepo, assets, audit, m, log),
		Airports:     usecase.NewAirportService(airportRepo, parkingRepo, audit, log),
		Airlines:     usecase.NewAirlineService(airlineRepo, parkingRepo, assets, audit, m, log),
		ActivityLogs: usecase.NewActivityLogService(activityLogRepo, audit, log),
		CommandLogs:  usecase.NewCommandLogService(commandLogRepo, audit, m, log),
		Feedbacks:    usecase.NewFeedbackService(feedbackRepo, audit, log),
	}

	// Start the nightly command-log retention job
	go func() {
		for {
			next := nextRun(time.Now(), retentionHour)
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info("Retention job stopped")
				return
			case <-timer.C:
				log.Info("Running command-log retention", "daysKept", cfg.LogRetentionDays)
				if _, err := svc.CommandLogs.PurgeExpired(ctx, cfg.LogRetentionDays); err != nil {
					log.Error("Command-log retention failed", "error", err)
				}
			}
		}
	}()

	// Set up HTTP server
	router := api.NewRouter(cfg, svc, tokens, userRepo, m, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Drain pending audit entries before disconnecting
	audit.Close()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Aeropark Service stopped")
}

// nextRun returns the next occurrence of hour o'clock local time after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
