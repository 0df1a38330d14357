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
	"gorm.io/gorm"

	"github.com/noah-isme/lingua-exam-api/internal/config"
	"github.com/noah-isme/lingua-exam-api/internal/database"
	"github.com/noah-isme/lingua-exam-api/internal/grading"
	"github.com/noah-isme/lingua-exam-api/internal/handler"
	"github.com/noah-isme/lingua-exam-api/internal/middleware"
	"github.com/noah-isme/lingua-exam-api/internal/models"
	"github.com/noah-isme/lingua-exam-api/internal/repository"
	"github.com/noah-isme/lingua-exam-api/internal/router"
	"github.com/noah-isme/lingua-exam-api/internal/service"
	"github.com/noah-isme/lingua-exam-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxOpenConns / 2,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.CourseTest{}, &models.CourseModule{}, &models.TestResult{}); err != nil {
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
		logger.Warn().Msg("redis url not set, result cache and redis events disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var evaluator ai.Evaluator
	if cfg.OpenAIAPIKey != "" {
		openAIEvaluator, err := ai.NewOpenAIEvaluator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create writing evaluator: %v", err)
		}
		evaluator = openAIEvaluator
	} else {
		logger.Warn().Msg("openai api key not set, writing answers receive the fallback score")
	}

	judge := ai.NewJudge(evaluator, ai.JudgeConfig{Timeout: cfg.JudgeTimeout, Logger: logger})
	engine := grading.NewEngine(judge, grading.WithDefaultWritingPoints(cfg.WritingDefaultPoints))

	validate := validator.New(validator.WithRequiredStructEnabled())

	contentRepo := repository.NewContentRepository(db)
	resultRepo := repository.NewResultRepository(db)

	publisher := service.NewResultPublisher(redisClient, cfg.EventsChannel, natsConn, logger)
	contentService := service.NewContentService(contentRepo, validate, logger)
	submissionService := service.NewSubmissionService(contentRepo, resultRepo, engine, publisher, redisClient, service.SubmissionConfig{
		DefaultLanguage: cfg.WritingLanguage,
		CacheTTL:        cfg.ResultCacheTTL,
	}, logger)

	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	contentHandler := handler.NewContentHandler(contentService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		SubmissionHandler: submissionHandler,
		ContentHandler:    contentHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		HealthProbes:      healthProbes(db, redisClient, natsConn),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func healthProbes(db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) map[string]handler.HealthProbe {
	probes := map[string]handler.HealthProbe{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		probes["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if natsConn != nil {
		probes["nats"] = func(context.Context) error {
			if !natsConn.IsConnected() {
				return nats.ErrConnectionClosed
			}
			return nil
		}
	}
	return probes
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
