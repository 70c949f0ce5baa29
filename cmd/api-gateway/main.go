package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/college-site-api/api/swagger"
	"github.com/noah-isme/college-site-api/internal/handler"
	"github.com/noah-isme/college-site-api/internal/repository"
	"github.com/noah-isme/college-site-api/internal/router"
	"github.com/noah-isme/college-site-api/internal/service"
	"github.com/noah-isme/college-site-api/pkg/cache"
	"github.com/noah-isme/college-site-api/pkg/config"
	"github.com/noah-isme/college-site-api/pkg/content"
	"github.com/noah-isme/college-site-api/pkg/database"
	"github.com/noah-isme/college-site-api/pkg/logger"
	"github.com/noah-isme/college-site-api/pkg/storage"
)

// @title College Site API
// @version 1.0.0
// @description Public pages and session-gated admin API for the college website.
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	var redisClient *redis.Client
	if cfg.PageCache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, page cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
	if err != nil {
		return err
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.PageCache.TTL, logr, cacheRepo.Enabled())

	invalidator := service.NewPageInvalidator(cacheSvc, metrics, logr, service.PageInvalidatorConfig{
		Workers:    cfg.Invalidation.Workers,
		BufferSize: cfg.Invalidation.BufferSize,
		MaxRetries: cfg.Invalidation.MaxRetries,
		RetryDelay: cfg.Invalidation.RetryDelay,
	})
	invalidator.Start(ctx)
	defer invalidator.Stop()

	userRepo := repository.NewUserRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)

	validate := service.NewValidator()
	deps := service.ContentDeps{
		Validator:   validate,
		Audit:       userRepo,
		Invalidator: invalidator,
		Cache:       cacheSvc,
		Metrics:     metrics,
		Logger:      logr,
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	newsSvc := service.NewNewsService(newsRepo, content.NewRenderer(), deps)
	facultySvc := service.NewFacultyService(facultyRepo, deps)
	teacherSvc := service.NewTeacherService(teacherRepo, facultyRepo, deps)
	uploadSvc := service.NewUploadService(uploads, cfg.Uploads.MaxSizeBytes, metrics, logr)
	exportSvc := service.NewExportService(teacherRepo, logr)

	engine := router.New(router.Options{
		Config:     cfg,
		Logger:     logr,
		Metrics:    metrics,
		Tokens:     authSvc,
		UploadsDir: uploads.Dir(),
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Public:    handler.NewPublicHandler(newsSvc, facultySvc, teacherSvc),
		News:      handler.NewNewsHandler(newsSvc),
		Faculties: handler.NewFacultyHandler(facultySvc),
		Teachers:  handler.NewTeacherHandler(teacherSvc, exportSvc),
		Uploads:   handler.NewUploadHandler(uploadSvc),
		Metrics:   handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
