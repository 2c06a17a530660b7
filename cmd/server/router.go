package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/handler"
	"github.com/uncodesociety/signup-api/internal/middleware"
	"github.com/uncodesociety/signup-api/internal/service"
	"github.com/uncodesociety/signup-api/pkg/config"
	"github.com/uncodesociety/signup-api/pkg/logger"
	corsmiddleware "github.com/uncodesociety/signup-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uncodesociety/signup-api/pkg/middleware/requestid"
)

// registrationFunctionPath is the path browser clients of the hosted function call.
const registrationFunctionPath = "/functions/v1/send-registration-email"

type routeHandlers struct {
	lessons       *handler.LessonHandler
	registrations *handler.RegistrationHandler
	notifications *handler.NotificationLogHandler
	metrics       *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST(registrationFunctionPath, h.registrations.Register)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/lessons", h.lessons.List)
		api.GET("/lessons/export", h.lessons.Export)
		api.GET("/lessons/:id", h.lessons.Get)

		api.POST("/registrations", h.registrations.Register)
		api.GET("/notifications", h.notifications.List)

		api.GET("/metrics/summary", h.metrics.Snapshot)
	}

	return r
}
