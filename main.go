package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"healthpulse-server/internal/ai"
	"healthpulse-server/internal/config"
	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/routes"
	"healthpulse-server/internal/scheduler"
	"healthpulse-server/internal/seed"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
)

func main() {
	// Load environment variables; a missing .env is fine in production
	_ = godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := zap.NewProduction()
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}

	// Seed the doctor directory on first run
	if seeded, err := seed.Doctors(db); err != nil {
		logger.Fatal("Error seeding doctors", zap.Error(err))
	} else if seeded > 0 {
		logger.Info("Seeded doctor directory", zap.Int("doctors", seeded))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Realtime notification fan-out; a configured Redis address bridges
	// events across instances, otherwise everything stays in-process.
	hub := notify.NewHub(logger)
	var notifier notify.Publisher = hub
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bridge := notify.NewRedisBridge(rdb, hub, cfg.Redis.Channel, logger)
		go bridge.Run(ctx)
		notifier = bridge
		logger.Info("Redis event bridge enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Appointment auto-assignment scheduler
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatal("Invalid scheduler timezone", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
	}

	appointmentStore := storage.NewAppointmentStore(db)
	directory := storage.NewDoctorDirectory(db, time.Duration(cfg.Scheduler.DoctorCacheTTLSeconds)*time.Second)
	resolver := specialization.NewResolver(nil)

	engine := scheduler.NewEngine(appointmentStore, directory, notifier, logger, scheduler.EngineConfig{
		Location:       location,
		DateOffsetDays: cfg.Scheduler.DateOffsetDays,
		Resolver:       resolver,
	})
	loop := scheduler.NewLoop(engine, time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second, logger)
	go loop.Run(ctx)

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		DB:        db,
		Cfg:       cfg,
		Directory: directory,
		Resolver:  resolver,
		Hub:       hub,
		Notifier:  notifier,
		Engine:    engine,
		AI: ai.NewClient(ai.Config{
			APIKey:  cfg.AI.APIKey,
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
		}),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
