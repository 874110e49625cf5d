package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmadqo/campus-console/internal/apiclient"
	"github.com/ahmadqo/campus-console/internal/config"
	"github.com/ahmadqo/campus-console/internal/database"
	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/handler"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/repository"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/service"
	"github.com/ahmadqo/campus-console/internal/store"
	"github.com/ahmadqo/campus-console/internal/utils"
)

// @title           Campus Console API
// @version         1.0
// @description     Operator console for the campus management backend.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger.Configure(logger.Config{
		Level:  cfg.App.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx := context.Background()

	// ── Database ─────────────────────────────────────
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := database.RunMigrations(ctx, db, migrationsPath); err != nil {
		logger.Fatal().Err(err).Str("path", migrationsPath).Msg("migration failed")
	}

	seeder := database.NewSeeder(db)
	if err := seeder.SeedAdminOperator(ctx); err != nil {
		logger.Warn().Err(err).Msg("seed failed")
	}

	// ── Storage (MinIO) ──────────────────────────────
	var archiver service.Archiver
	if cfg.MinIO.Enabled {
		storage, err := utils.NewStorageService(ctx, &cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("minio unavailable, export archiving disabled")
		} else {
			archiver = storage
			logger.Info().Str("bucket", cfg.MinIO.Bucket).Msg("minio connected")
		}
	}

	// ── Repositories ─────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(db)
	cacheRepo := repository.NewCacheRepository(db)

	// ── Backend client ───────────────────────────────
	catalog := resource.Default()
	catalog.ApplyRoutes(cfg.RouteFor)

	client := apiclient.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, apiclient.WithToken(cfg.Backend.Token))
	validator := form.NewValidator()

	// ── Services ─────────────────────────────────────
	archive := service.NewExportArchive(archiver)
	authService := service.NewAuthService(operatorRepo, cfg)
	resourceService := service.NewResourceService(catalog, client, store.NewDBCache(cacheRepo), validator)
	mediaService := service.NewMediaService(catalog, client)
	teacherService := service.NewTeacherService(catalog, client, mediaService, store.NewSignatureStore(), archive, cfg.App.Institution)
	resultService := service.NewExamResultService(catalog, client, mediaService, archive, cfg.App.Institution, cfg.App.PublicURL)

	// ── Handlers ─────────────────────────────────────
	renderer, err := handler.NewRenderer(catalog)
	if err != nil {
		logger.Fatal().Err(err).Msg("templates failed to parse")
	}

	authHandler := handler.NewAuthHandler(authService, renderer, validator, cfg.CSRF.Secure)
	pageHandler := handler.NewPageHandler(resourceService, teacherService, resultService, mediaService, renderer)
	resourceHandler := handler.NewResourceHandler(resourceService, resultService)

	// ── Router ───────────────────────────────────────
	router := handler.NewRouter(authHandler, pageHandler, resourceHandler, handler.RouterConfig{
		JWTSecret: cfg.JWT.Secret,
		CSRFKey:   []byte(cfg.CSRF.AuthKey),
		Secure:    cfg.CSRF.Secure,
		PublicURL: cfg.App.PublicURL,
	})

	// ── HTTP Server ──────────────────────────────────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().
			Str("port", cfg.App.Port).
			Str("env", cfg.App.Env).
			Str("backend", cfg.Backend.BaseURL).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server stopped")
}
