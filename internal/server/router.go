package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/handler"
	"github.com/AdityaXD007/LearnXchange/internal/middleware"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/internal/service"
	"github.com/AdityaXD007/LearnXchange/pkg/logger"
	corsmiddleware "github.com/AdityaXD007/LearnXchange/pkg/middleware/cors"
	reqidmiddleware "github.com/AdityaXD007/LearnXchange/pkg/middleware/requestid"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	ServiceName    string
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Metrics        *service.MetricsService

	TokenValidator middleware.TokenValidator
	Presence       middleware.PresenceRecorder

	MetricsHandler         *handler.MetricsHandler
	MatchHandler           *handler.MatchHandler
	SkillHandler           *handler.SkillHandler
	ProfileHandler         *handler.ProfileHandler
	SessionRequestHandler  *handler.SessionRequestHandler
	LearningSessionHandler *handler.LearningSessionHandler
	AdminHandler           *handler.AdminHandler
}

// NewRouter wires middleware and routes onto a fresh engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logr := cfg.Logger
	if logr == nil {
		logr = zap.NewNop()
	}
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// ops
	r.GET("/health", cfg.MetricsHandler.Health)
	r.GET("/ready", cfg.MetricsHandler.Ready)
	r.GET("/metrics", cfg.MetricsHandler.Prometheus)
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	api.Use(middleware.JWT(cfg.TokenValidator), middleware.Activity(cfg.Presence))

	api.GET("/matches", cfg.MatchHandler.Find)

	api.GET("/skills", cfg.SkillHandler.Catalog)
	api.GET("/skills/popular", cfg.SkillHandler.Popular)
	me := api.Group("/me")
	me.GET("/skills", cfg.SkillHandler.Inventory)
	me.POST("/skills", cfg.SkillHandler.Add)
	me.PATCH("/skills/:id/status", cfg.SkillHandler.UpdateStatus)
	me.DELETE("/skills/:id", cfg.SkillHandler.Remove)

	api.GET("/users/:username/profile", cfg.ProfileHandler.View)
	api.POST("/presence/heartbeat", cfg.ProfileHandler.Heartbeat)

	requests := api.Group("/session-requests")
	requests.POST("", cfg.SessionRequestHandler.Create)
	requests.GET("", cfg.SessionRequestHandler.List)
	requests.POST("/:id/respond", cfg.SessionRequestHandler.Respond)
	requests.POST("/:id/cancel", cfg.SessionRequestHandler.Cancel)

	sessions := api.Group("/sessions")
	sessions.POST("", cfg.LearningSessionHandler.Schedule)
	sessions.GET("", cfg.LearningSessionHandler.List)
	sessions.GET("/export", cfg.LearningSessionHandler.Export)
	sessions.GET("/:id", cfg.LearningSessionHandler.Get)
	sessions.POST("/:id/start", cfg.LearningSessionHandler.Start)
	sessions.POST("/:id/complete", cfg.LearningSessionHandler.Complete)
	sessions.POST("/:id/cancel", cfg.LearningSessionHandler.Cancel)
	sessions.POST("/:id/no-show", cfg.LearningSessionHandler.NoShow)
	sessions.POST("/:id/feedback", cfg.LearningSessionHandler.Feedback)
	sessions.POST("/:id/reschedule", cfg.LearningSessionHandler.Reschedule)

	admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/profile-stats/rebuild", cfg.AdminHandler.RebuildStats)

	return r
}
