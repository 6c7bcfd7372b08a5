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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/excel-interviewer/internal/config"
	"alfredoptarigan/excel-interviewer/internal/handlers"
	"alfredoptarigan/excel-interviewer/internal/repositories"
	"alfredoptarigan/excel-interviewer/internal/services"
	"alfredoptarigan/excel-interviewer/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.Server.Env)
	defer log.Sync()
	log.Info("config loaded", zap.String("env", cfg.Server.Env))

	// Session store and blob storage
	store := services.NewMemorySessionStore(cfg.Interview.LockWaitTimeout)

	blobs := services.NewDiskBlobStore(cfg.Storage.UploadPath)
	if err := blobs.EnsureRoot(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	// Optional durable archive: sessions survive restarts for offline review
	var archiver services.Archiver = services.NoopArchiver{}
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatal("failed to initialize archive database", zap.Error(err))
		}
		archiveRepo := repositories.NewSessionArchiveRepository(db)
		archiver = services.NewSessionArchiver(store, archiveRepo, cfg.Archiver.Concurrency, log)
		log.Info("session archive enabled", zap.String("db", cfg.Database.DBName))
	}
	archiver.Start(context.Background())

	// Generation capability
	gemini, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, log)
	if err != nil {
		log.Fatal("failed to initialize gemini client", zap.Error(err))
	}
	log.Info("gemini client initialized", zap.String("model", cfg.Gemini.Model))

	// Core services
	prompts := services.NewPromptBuilder(log)
	registry := services.NewArtifactRegistry(store, blobs, archiver, log)
	orchestrator := services.NewInterviewOrchestrator(
		store,
		gemini,
		prompts,
		archiver,
		cfg.Interview.GenerationTimeout,
		log,
	)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(orchestrator)
	artifactHandler := handlers.NewArtifactHandler(registry)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Excel Mock Interviewer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/rubric", sessionHandler.HandleGetRubric)
	api.Post("/sessions", sessionHandler.HandleCreateSession)
	api.Post("/sessions/:id/chat", sessionHandler.HandleChat)
	api.Get("/sessions/:id/summary", sessionHandler.HandleSummary)
	api.Post("/sessions/:id/artifacts/upload", artifactHandler.HandleUpload)
	api.Post("/sessions/:id/artifacts/link", artifactHandler.HandleLink)
	api.Get("/sessions/:id/artifacts", artifactHandler.HandleList)
	api.Get("/sessions/:id/artifacts/:artifactID", artifactHandler.HandleDownload)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Excel Mock Interviewer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/sessions",
				"POST /api/v1/sessions/:id/chat",
				"GET /api/v1/sessions/:id/summary",
				"POST /api/v1/sessions/:id/artifacts/upload",
				"POST /api/v1/sessions/:id/artifacts/link",
				"GET /api/v1/sessions/:id/artifacts",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		archiver.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
