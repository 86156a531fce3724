package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/meetscribe/meetscribe/internal/adapter/handler"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/internal/infrastructure/cache"
	"github.com/meetscribe/meetscribe/internal/infrastructure/storage"
	"github.com/meetscribe/meetscribe/internal/usecase/extraction"
	meetingusecase "github.com/meetscribe/meetscribe/internal/usecase/meeting"
	"github.com/meetscribe/meetscribe/internal/usecase/transcription"
	pkgai "github.com/meetscribe/meetscribe/pkg/ai"
	"github.com/meetscribe/meetscribe/pkg/config"
	pkgvalidator "github.com/meetscribe/meetscribe/pkg/validator"
)

// @title           MeetScribe API
// @version         1.0
// @description     Turns meeting recordings and transcripts into structured summaries, action items and requirements.

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Uploads can be large, everything else stays small
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxUploadMB)))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize object storage
	log.Println("📦 Connecting to object storage...")
	store, err := storage.NewMinIOStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize the metadata index. Redis is optional; without it both
	// meeting listings and transcription jobs live in process memory.
	var meetingIndex repositories.MeetingIndex
	var jobStore repositories.JobStore
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		index := cache.NewRedisIndex(redisClient)
		meetingIndex = index
		jobStore = index
	} else {
		log.Println("⚠️  Redis disabled, using in-memory index (state is lost on restart)")
		index := cache.NewMemoryIndex()
		meetingIndex = index
		jobStore = index
	}

	// Initialize the extraction pipeline
	log.Println("🤖 Initializing extraction pipeline...")
	extractionCfg := extraction.Config{
		TopKPhrases:      cfg.Pipeline.TopKPhrases,
		SummarySentences: cfg.Pipeline.SummarySentences,
		SpeakingRateWPM:  cfg.Pipeline.SpeakingRateWPM,
	}
	var generative extraction.Extractor
	if cfg.LLM.Enabled {
		log.Printf("✨ Generative extraction enabled (model %s)", cfg.LLM.Model)
		completer := pkgai.NewOpenAICompleter(&cfg.LLM)
		generative = extraction.NewGenerativeExtractor(completer, extractionCfg)
	} else {
		log.Println("✨ Generative extraction disabled, heuristic pipeline only")
	}
	pipeline := extraction.NewPipeline(extractionCfg, generative, logger)

	// Initialize transcription service and its workers
	log.Println("🎙️  Initializing transcription service...")
	transcriptionService := transcription.NewService(jobStore, cfg, logger)
	if err := transcriptionService.StartWorkerPool(context.Background(), 2); err != nil {
		log.Fatalf("Failed to start transcription workers: %v", err)
	}

	// Initialize meeting service
	log.Println("📋 Initializing meeting service...")
	meetingService := meetingusecase.NewService(store, meetingIndex, pipeline, cfg.Storage.PresignTTL, logger)

	// Initialize handlers
	uploadHandler := handler.NewUpload(store, cfg, logger)
	transcriptionHandler := handler.NewTranscription(transcriptionService, store, cfg, logger)
	webhookHandler := handler.NewWebhook(transcriptionService, logger)
	meetingHandler := handler.NewMeeting(meetingService, pipeline, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, uploadHandler, transcriptionHandler, webhookHandler, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if err := transcriptionService.StopWorkerPool(); err != nil {
		log.Printf("Failed to stop transcription workers: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// newLogger builds the zap logger for the environment.
func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
