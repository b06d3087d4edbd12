package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sealgrade/sealgrade-api/internal/config"
	"github.com/sealgrade/sealgrade-api/internal/database"
	"github.com/sealgrade/sealgrade-api/internal/handler"
	"github.com/sealgrade/sealgrade-api/internal/ledger"
	"github.com/sealgrade/sealgrade-api/internal/middleware"
	"github.com/sealgrade/sealgrade-api/internal/models"
	"github.com/sealgrade/sealgrade-api/internal/repository"
	"github.com/sealgrade/sealgrade-api/internal/router"
	"github.com/sealgrade/sealgrade-api/internal/service"
	"github.com/sealgrade/sealgrade-api/pkg/cipherstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Assignment{}, &models.Submission{}, &models.Grade{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, gradebook summaries will not be cached")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, workflow events will not be published")
	}

	store, err := buildCipherStore(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create cipher engine client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	sequencer := ledger.New()

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	events := service.NewNATSEventPublisher(natsConn, cfg.EventSubjectPrefix, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, sequencer, validate, events, activityService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, store, sequencer, validate, events, activityService, logger)
	gradingService := service.NewGradingService(gradeRepo, submissionRepo, assignmentRepo, store, sequencer, validate, events, activityService, logger)
	gradebookService := service.NewGradebookService(assignmentRepo, submissionRepo, gradeRepo, redisClient, cfg.GradebookCacheTTL, logger)

	assignmentHandler := handler.NewAssignmentHandler(assignmentService, gradebookService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	gradeHandler := handler.NewGradeHandler(gradingService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		GradeHandler:      gradeHandler,
		ActivityHandler:   activityHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildCipherStore(cfg config.Config, logger zerolog.Logger) (cipherstore.Store, error) {
	if cfg.CipherEngineURL == "" {
		logger.Warn().Msg("cipher engine url not configured, falling back to in-memory store")
		return cipherstore.NewMemory(), nil
	}

	return cipherstore.NewClient(cipherstore.Config{
		BaseURL: cfg.CipherEngineURL,
		APIKey:  cfg.CipherEngineAPIKey,
		Timeout: cfg.CipherEngineTimeout,
	}, logger)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
