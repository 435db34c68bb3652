package repos

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/ideabox-backend/internal/data/repos/auth"
	"github.com/yungbote/ideabox-backend/internal/data/repos/chat"
	"github.com/yungbote/ideabox-backend/internal/data/repos/idea"
	"github.com/yungbote/ideabox-backend/internal/data/repos/user"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

type IdeaRepo = idea.IdeaRepo
type IdeaTimelineRow = idea.TimelineRow
type ChatMessageRepo = chat.ChatMessageRepo
type UserRepo = user.UserRepo
type SessionStore = auth.SessionStore

func NewIdeaRepo(db *gorm.DB, baseLog *logger.Logger) IdeaRepo { return idea.NewIdeaRepo(db, baseLog) }
func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, baseLog)
}
func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewSessionStore(client *redis.Client, baseLog *logger.Logger) SessionStore {
	return auth.NewSessionStore(client, baseLog)
}

// NewRedisClient connects and pings the Redis instance behind redisURL.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return auth.NewRedisClient(ctx, redisURL)
}
