package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/ideabox-backend/internal/http"
	"github.com/yungbote/ideabox-backend/internal/http/cookies"
	httpH "github.com/yungbote/ideabox-backend/internal/http/handlers"
	httpMW "github.com/yungbote/ideabox-backend/internal/http/middleware"
	"github.com/yungbote/ideabox-backend/internal/observability"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Idea      *httpH.IdeaHandler
	Chat      *httpH.ChatHandler
	Dashboard *httpH.DashboardHandler
	Contact   *httpH.ContactHandler
}

func cookieConfig(cfg Config) cookies.Config {
	return cookies.Config{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}
}

func wireHandlers(log *logger.Logger, cfg Config, db *gorm.DB, repos Repos, services Services) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Check{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": repos.Sessions.Ping,
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(checks),
		Auth:      httpH.NewAuthHandler(services.Auth, cookieConfig(cfg)),
		User:      httpH.NewUserHandler(services.User),
		Idea:      httpH.NewIdeaHandler(services.Idea),
		Chat:      httpH.NewChatHandler(services.Chat),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
		Contact:   httpH.NewContactHandler(services.Contact),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth, cookieConfig(cfg)),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      cfg.ServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   middleware.Auth,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		IdeaHandler:      handlers.Idea,
		ChatHandler:      handlers.Chat,
		DashboardHandler: handlers.Dashboard,
		ContactHandler:   handlers.Contact,
		HealthHandler:    handlers.Health,
	})
}
