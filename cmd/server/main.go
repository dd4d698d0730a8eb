package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobile-bio-lab/lab-service/internal/cache"
	"github.com/mobile-bio-lab/lab-service/internal/config"
	"github.com/mobile-bio-lab/lab-service/internal/events"
	"github.com/mobile-bio-lab/lab-service/internal/handlers"
	"github.com/mobile-bio-lab/lab-service/internal/mailer"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories/postgres"
	"github.com/mobile-bio-lab/lab-service/internal/services"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
	"github.com/mobile-bio-lab/lab-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.IsProduction() {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Reservation{},
		&models.Sample{},
		&models.Report{},
	); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NoopCache{}
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	} else {
		logger.Warn("REDIS_URL not set, caching disabled")
	}

	var publisher events.EventPublisher = events.NopEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.KafkaTopic,
			Logger:       utils.ToSlogLogger(logger),
		})
		if err != nil {
			logger.Error("kafka publisher init failed", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	} else {
		logger.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}
	defer publisher.Close()

	var mailSender mailer.Mailer = mailer.NopMailer{}
	if cfg.SMTPHost != "" {
		mailSender = mailer.NewSMTPMailer(cfg)
	} else {
		logger.Warn("SMTP_HOST not set, verification emails disabled")
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		logger.Error("failed to create uploads directory", "error", err)
		os.Exit(1)
	}

	serviceManager := services.NewServiceManager(services.Dependencies{
		Users:        postgres.NewUserPostgreSQL(db),
		Reservations: postgres.NewReservationPostgreSQL(db),
		Samples:      postgres.NewSamplePostgreSQL(db),
		Reports:      postgres.NewReportPostgreSQL(db),
		Config:       cfg,
		Cache:        cacheService,
		Mailer:       mailSender,
		Publisher:    publisher,
		Validator:    utils.NewValidator(),
		Logger:       logger,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, cfg, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
