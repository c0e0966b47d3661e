package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	commissionapp "github.com/commtrack/backend/internal/application/commission"
	exportapp "github.com/commtrack/backend/internal/application/export"
	identityapp "github.com/commtrack/backend/internal/application/identity"
	reviewapp "github.com/commtrack/backend/internal/application/review"
	"github.com/commtrack/backend/internal/infrastructure/auth"
	"github.com/commtrack/backend/internal/infrastructure/config"
	"github.com/commtrack/backend/internal/infrastructure/extraction"
	"github.com/commtrack/backend/internal/infrastructure/logger"
	"github.com/commtrack/backend/internal/infrastructure/migration"
	"github.com/commtrack/backend/internal/infrastructure/persistence"
	"github.com/commtrack/backend/internal/infrastructure/storage"
	"github.com/commtrack/backend/internal/interfaces/http/handler"
	"github.com/commtrack/backend/internal/interfaces/http/middleware"
	"github.com/commtrack/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CommTrack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Schema migrations
	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB for migrations", zap.Error(err))
		}
		migrator, err := migration.New(sqlDB, cfg.Database.Driver, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Up(); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
	}

	// Repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	teamRepo := persistence.NewGormTeamRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)

	// Demo data for first start
	if cfg.Database.SeedDemoData {
		seeder := persistence.NewSeeder(profileRepo, teamRepo, entryRepo, log)
		if _, err := seeder.SeedDemoData(context.Background()); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	// Invoice extraction provider
	var extractor reviewapp.Extractor
	switch cfg.Extraction.Provider {
	case "fake":
		extractor = &extraction.FakeExtractor{}
		log.Warn("Using fake invoice extractor, extracted fields are canned")
	default:
		extractor = extraction.NewOpenAIExtractor(cfg.Extraction, log)
	}

	// Uploaded file storage
	var objectStorage reviewapp.ObjectStorage
	switch cfg.Storage.Provider {
	case "s3":
		objectStorage, err = storage.NewS3ObjectStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	default:
		objectStorage = storage.NewMemoryObjectStorage()
		log.Info("Using in-memory file storage, uploads do not survive restarts")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, log)
	profileService := identityapp.NewProfileService(profileRepo, teamRepo, log)
	teamService := identityapp.NewTeamService(teamRepo, profileRepo, log)

	scopes := commissionapp.NewScopeResolver(profileRepo, teamRepo)
	entryService := commissionapp.NewEntryService(entryRepo, profileRepo, scopes, log)
	reviewService := reviewapp.NewService(
		extractor,
		objectStorage,
		entryService,
		profileRepo,
		cfg.Extraction.Timeout,
		cfg.HTTP.MaxUploadSize,
		log,
	)
	exportService := exportapp.NewService(entryService, cfg.Export.MaxRows, log)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(version)
	authHandler := handler.NewAuthHandler(authService, profileService)
	profileHandler := handler.NewProfileHandler(profileService)
	teamHandler := handler.NewTeamHandler(teamService)
	entryHandler := handler.NewEntryHandler(entryService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	exportHandler := handler.NewExportHandler(exportService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxUploadSize))

	jwtConfig := middleware.DefaultJWTAuthConfig(jwtService)
	engine.Use(middleware.JWTAuthWithConfig(jwtConfig))

	// Liveness probe outside the versioned API group
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(authHandler).
		Register(profileHandler).
		Register(teamHandler).
		Register(entryHandler).
		Register(reviewHandler).
		Register(exportHandler)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
