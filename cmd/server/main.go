package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/uncodesociety/signup-api/api/swagger"
	"github.com/uncodesociety/signup-api/internal/catalog"
	"github.com/uncodesociety/signup-api/internal/handler"
	"github.com/uncodesociety/signup-api/internal/repository"
	"github.com/uncodesociety/signup-api/internal/schedule"
	"github.com/uncodesociety/signup-api/internal/service"
	"github.com/uncodesociety/signup-api/pkg/cache"
	"github.com/uncodesociety/signup-api/pkg/config"
	"github.com/uncodesociety/signup-api/pkg/database"
	"github.com/uncodesociety/signup-api/pkg/jobs"
	"github.com/uncodesociety/signup-api/pkg/logger"
	"github.com/uncodesociety/signup-api/pkg/mailer"
)

// @title Uncode Society Sign-up API
// @version 1.0.0
// @description Lesson catalog and registration notifier
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var redisClient redis.UniversalClient
	if cfg.Catalog.CacheEnabled || cfg.Dedupe.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer client.Close()
		redisClient = client
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	catalogCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled && redisClient != nil)
	dedupeCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dedupe.TTL, logr, cfg.Dedupe.Enabled && redisClient != nil)

	dlCfg := service.DeliveryLogConfig{Retention: cfg.DeliveryLog.Retention}
	deliveryLog := service.NewDeliveryLogService(nil, metricsSvc, dlCfg, logr)
	var queue *jobs.Queue
	if cfg.DeliveryLog.Enabled {
		db := mustOpenDatabase(ctx, cfg, logr)
		defer db.Close()
		checks["postgres"] = db.PingContext

		deliveryLog = service.NewDeliveryLogService(repository.NewNotificationLogRepository(db), metricsSvc, dlCfg, logr)
		queue = jobs.NewQueue("delivery-log", deliveryLog.Handle, jobs.QueueConfig{
			Workers:    cfg.DeliveryLog.Workers,
			MaxRetries: cfg.DeliveryLog.Retries,
			Logger:     logr,
		})
		queue.Start(ctx)
		deliveryLog.SetQueue(queue)
		deliveryLog.StartCleanup(ctx)
	}

	transport, err := mailer.New(cfg.Mail, logr)
	if err != nil {
		logr.Fatal("failed to configure mailer", zap.Error(err))
	}

	catalogSvc, err := service.NewCatalogService(catalog.Templates(), catalogCache, metricsSvc, service.CatalogConfig{
		Location: cfg.Catalog.Location(),
		Locale:   schedule.ParseLocale(cfg.Catalog.Locale),
		CacheTTL: cfg.Catalog.CacheTTL,
	}, logr)
	if err != nil {
		logr.Fatal("invalid lesson catalog", zap.Error(err))
	}

	registrationSvc := service.NewRegistrationService(transport, dedupeCache, deliveryLog, catalogSvc, metricsSvc, service.RegistrationConfig{
		From:          cfg.Mail.From,
		AdminAddress:  cfg.Mail.AdminAddress,
		DedupeEnabled: cfg.Dedupe.Enabled,
		DedupeTTL:     cfg.Dedupe.TTL,
		DedupeSecret:  cfg.Dedupe.Secret,
	}, logr)

	r := newRouter(cfg, logr, metricsSvc, routeHandlers{
		lessons:       handler.NewLessonHandler(catalogSvc),
		registrations: handler.NewRegistrationHandler(registrationSvc),
		notifications: handler.NewNotificationLogHandler(deliveryLog),
		metrics:       handler.NewMetricsHandler(metricsSvc, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "mailer", transport.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http server shutdown", zap.Error(err))
	}
	if queue != nil {
		if err := queue.Stop(shutdownCtx); err != nil {
			logr.Warn("delivery log queue drain", zap.Error(err))
		}
	}
	logr.Info("shutdown complete")
}

func mustOpenDatabase(ctx context.Context, cfg *config.Config, logr *zap.Logger) *sqlx.DB {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	if err := database.Migrate(ctx, db, logr); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}
	return db
}
