package app

import (
	"fmt"
	"time"

	"github.com/yungbote/ideabox-backend/internal/platform/logger"
	"github.com/yungbote/ideabox-backend/internal/services"
)

type Services struct {
	Idea      services.IdeaService
	Chat      services.ChatService
	Dashboard services.DashboardService
	Avatar    services.AvatarService
	Auth      services.AuthService
	User      services.UserService
	Contact   services.ContactService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")
	clock := services.SystemClock

	avatar, err := services.NewAvatarService(log, nil, time.Now().UnixNano())
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}
	contact := services.NewContactService(log, clients.Email, cfg.SupportEmail, cfg.SendgridFromName)
	auth, err := services.NewAuthService(log, repos.User, repos.Sessions, avatar, contact, services.AuthConfig{
		JWTSecret:     cfg.JWTSecretKey,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		RefreshWindow: cfg.TokenRefreshWindow,
	}, clock)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	return Services{
		Idea:      services.NewIdeaService(log, repos.Idea, clock),
		Chat:      services.NewChatService(log, repos.Idea, repos.ChatMessage, clients.OpenaiClient, clock),
		Dashboard: services.NewDashboardService(log, repos.Idea),
		Avatar:    avatar,
		Auth:      auth,
		User:      services.NewUserService(log, repos.User, avatar, clock),
		Contact:   contact,
	}, nil
}
