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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/AdityaXD007/LearnXchange/api/swagger"
	"github.com/AdityaXD007/LearnXchange/internal/handler"
	"github.com/AdityaXD007/LearnXchange/internal/repository"
	"github.com/AdityaXD007/LearnXchange/internal/server"
	"github.com/AdityaXD007/LearnXchange/internal/service"
	"github.com/AdityaXD007/LearnXchange/pkg/cache"
	"github.com/AdityaXD007/LearnXchange/pkg/config"
	"github.com/AdityaXD007/LearnXchange/pkg/database"
	"github.com/AdityaXD007/LearnXchange/pkg/jobs"
	"github.com/AdityaXD007/LearnXchange/pkg/logger"
	"github.com/AdityaXD007/LearnXchange/pkg/tracing"
)

// @title LearnXchange API
// @version 1.0.0
// @description Peer-to-peer skill exchange: matching, session requests and learning sessions.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg, logr)
	if err != nil {
		logr.Warn("tracing disabled", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrations, err := database.LoadMigrations()
		if err != nil {
			logr.Fatal("failed to load migrations", zap.Error(err))
		}
		if err := database.NewMigrator(db, migrations, logr).Migrate(ctx); err != nil {
			logr.Fatal("failed to migrate", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
		metricsSvc.Registry().MustRegister(collectors.NewDBStatsCollector(db.DB, cfg.Database.Name))
	}
	validate := service.NewValidator()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	requestRepo := repository.NewSessionRequestRepository(db)
	sessionRepo := repository.NewLearningSessionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.CatalogTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	matchSvc := service.NewMatchService(profileRepo, skillRepo, metricsSvc, logr)
	skillSvc := service.NewSkillService(skillRepo, cacheSvc, cfg.Cache.CatalogTTL, auditRepo, validate, logr)
	profileSvc := service.NewProfileService(userRepo, profileRepo, skillRepo, logr)
	activitySvc := service.NewActivityService(profileRepo, cacheRepo, cfg.Activity.Throttle, metricsSvc, logr)
	requestSvc := service.NewSessionRequestService(requestRepo, userRepo, auditRepo, metricsSvc, validate, logr)
	sessionSvc := service.NewLearningSessionService(sessionRepo, requestRepo, skillRepo, auditRepo, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(sessionRepo, logr)
	statsSvc := service.NewStatsService(profileRepo, auditRepo, logr)

	statsQueue := jobs.NewQueue("profile-stats", statsSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Stats.WorkerConcurrency,
		BufferSize: 4,
		MaxRetries: cfg.Stats.WorkerRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
		OnOutcome: func(job jobs.Job, err error, elapsed time.Duration) {
			metricsSvc.ObserveJob(job.Type, err, elapsed)
		},
	})
	statsQueue.Start(ctx)
	statsSvc.UseQueue(statsQueue)

	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName:    cfg.ServiceName,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metricsSvc,
		TokenValidator: authSvc,
		Presence:       activitySvc,

		MetricsHandler:         handler.NewMetricsHandler(metricsSvc, checks),
		MatchHandler:           handler.NewMatchHandler(matchSvc),
		SkillHandler:           handler.NewSkillHandler(skillSvc),
		ProfileHandler:         handler.NewProfileHandler(profileSvc, activitySvc),
		SessionRequestHandler:  handler.NewSessionRequestHandler(requestSvc),
		LearningSessionHandler: handler.NewLearningSessionHandler(sessionSvc, exportSvc),
		AdminHandler:           handler.NewAdminHandler(statsSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown failed", zap.Error(err))
	}
	statsQueue.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracing shutdown failed", zap.Error(err))
	}
}
