package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/config"
	"trident/onboarding-portal/internal/handlers"
	applog "trident/onboarding-portal/internal/logger"
	"trident/onboarding-portal/internal/repositories"
	"trident/onboarding-portal/internal/services"
)

func main() {
	cfg := config.Load()

	log := applog.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	checkRepo := repositories.NewCheckRequestRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	validator, err := services.NewMetadataValidator()
	if err != nil {
		log.Fatal("❌ Failed to build metadata validator", zap.Error(err))
	}

	candidateClient := services.NewCandidateClient(cfg.Upstream.CandidateAPIURL, cfg.Upstream.Timeout, log)
	candidateService := services.NewCandidateService(candidateClient, cfg.Upstream.DocumentBaseURL, log)

	registrationClient := services.NewRegistrationClient(cfg.Upstream.RegistrationAPIURL, cfg.Upstream.Timeout, log)
	forwarder := services.NewCheckForwarder(checkRepo, registrationClient, storageService, log)
	log.Info("✅ Services initialized successfully")

	worker := services.NewWorker(checkRepo, forwarder, services.WorkerOptions{
		Concurrency:  cfg.Worker.Concurrency,
		QueueSize:    cfg.Worker.QueueSize,
		PollInterval: cfg.Worker.PollInterval,
		PollBatch:    cfg.Worker.PollBatch,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	candidateHandler := handlers.NewCandidateHandler(candidateService, log)
	checkHandler := handlers.NewCheckHandler(checkRepo, storageService, validator, worker, log)

	app := fiber.New(fiber.Config{
		AppName:      "Onboarding Portal API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, candidateHandler, checkHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
