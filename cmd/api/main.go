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

	pkgvalidator "github.com/johnquangdev/meeting-automation/pkg/validator"

	"github.com/johnquangdev/meeting-automation/internal/adapter/handler"
	"github.com/johnquangdev/meeting-automation/internal/adapter/repository"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/calendar"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/email"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/jira"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/slack"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/transcription"
	"github.com/johnquangdev/meeting-automation/internal/usecase/auth"
	"github.com/johnquangdev/meeting-automation/internal/usecase/dispatch"
	"github.com/johnquangdev/meeting-automation/internal/usecase/mom"
	"github.com/johnquangdev/meeting-automation/pkg/config"
	"github.com/johnquangdev/meeting-automation/pkg/jwt"
	"github.com/johnquangdev/meeting-automation/pkg/llm"
)

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

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should apply sql-migrate from CI/CD.
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; apply migrations/ with sql-migrate in CI/CD")
	}

	// Initialize cache; fall back to in-memory when Redis is unreachable
	log.Println("📦 Connecting to Redis...")
	var store cache.Store
	redisStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, using in-memory cache: %v", err)
		store = cache.NewMemoryStore()
	} else {
		defer redisStore.Close()
		store = redisStore
	}

	// Initialize object storage for audio uploads
	log.Println("📦 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	minutesRepo := repository.NewMinutesRepository(db)
	actionItemRepo := repository.NewActionItemRepository(db)
	deliveryJobRepo := repository.NewDeliveryJobRepository(db)

	// Initialize external clients
	log.Println("🤖 Initializing LLM and transcription clients...")
	groqClient := llm.NewGroqClient(&cfg.Groq)
	transcriber := transcription.NewTranscriber(&cfg.Assembly, logger)

	log.Println("🔌 Initializing delivery integrations...")
	jiraClient := jira.NewClient(&cfg.Jira)
	slackClient := slack.NewClient(&cfg.Slack)
	emailSender := email.NewSender(&cfg.Email)
	calendarInviter := calendar.NewInviter(&cfg.Invite)

	// Initialize JWT manager and auth service
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiry,
		cfg.Auth.RefreshExpiry,
	)
	authService := auth.NewService(cfg, jwtManager, store)

	// Initialize minutes pipeline
	log.Println("📝 Initializing minutes service...")
	momService := mom.NewService(
		meetingRepo,
		transcriptRepo,
		minutesRepo,
		actionItemRepo,
		groqClient,
		transcriber,
		minioClient,
		cfg.Groq.Model,
		logger,
	)

	// Initialize dispatch service and worker pool
	log.Println("📬 Initializing dispatch service...")
	dispatchService := dispatch.NewService(
		deliveryJobRepo,
		meetingRepo,
		minutesRepo,
		actionItemRepo,
		jiraClient,
		slackClient,
		emailSender,
		calendarInviter,
		store,
		cfg,
		logger,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if err := dispatchService.StartWorkerPool(workerCtx, cfg.Dispatch.WorkerCount); err != nil {
		log.Fatalf("Failed to start delivery worker pool: %v", err)
	}

	// Schedule overdue action-item reminders
	reminder := dispatch.NewReminder(actionItemRepo, slackClient, cfg, logger)
	if err := reminder.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)
	meetingHandler := handler.NewMeeting(momService, dispatchService, logger)
	webhookHandler := handler.NewWebhook(momService, cfg, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, authHandler, meetingHandler, webhookHandler)
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

	reminder.Stop()
	if err := dispatchService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
