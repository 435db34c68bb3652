package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/ideabox-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ideabox-backend/internal/http/middleware"
	"github.com/yungbote/ideabox-backend/internal/observability"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	IdeaHandler      *httpH.IdeaHandler
	ChatHandler      *httpH.ChatHandler
	DashboardHandler *httpH.DashboardHandler
	ContactHandler   *httpH.ContactHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/metrics", "/healthcheck", "/api/healthcheck"))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck", "/api/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/api/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	// Owner-scoped routes need a principal. Without auth none are mounted.
	if cfg.AuthMiddleware == nil {
		if cfg.Log != nil {
			cfg.Log.Warn("auth middleware not configured, protected routes disabled")
		}
		return r
	}

	protected := api.Group("/")
	{
		protected.Use(cfg.AuthMiddleware.RequireAuth())

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PUT("/me/profile", cfg.UserHandler.UpdateProfile)
			protected.GET("/me/avatar", httpMW.NoStore(), cfg.UserHandler.Avatar)
			protected.PUT("/me/avatar", cfg.UserHandler.UploadAvatar)
		}

		// Ideas
		if cfg.IdeaHandler != nil {
			protected.GET("/ideas", httpMW.NoStore(), cfg.IdeaHandler.List)
			protected.POST("/ideas", cfg.IdeaHandler.Create)
			protected.GET("/ideas/:id", cfg.IdeaHandler.Get)
			protected.PUT("/ideas/:id", cfg.IdeaHandler.Update)
			protected.POST("/ideas/:id/favorite", cfg.IdeaHandler.ToggleFavorite)
			protected.DELETE("/ideas/:id", cfg.IdeaHandler.Delete)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard/stats", httpMW.NoStore(), cfg.DashboardHandler.Stats)
		}

		// Chat
		if cfg.ChatHandler != nil {
			protected.POST("/messages/ai", cfg.ChatHandler.Converse)
			protected.POST("/messages", cfg.ChatHandler.Append)
			protected.GET("/messages", cfg.ChatHandler.List)
		}

		// Contact
		if cfg.ContactHandler != nil {
			protected.POST("/contact", cfg.ContactHandler.Send)
		}
	}

	return r
}
