package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

type Repos struct {
	Idea        repos.IdeaRepo
	ChatMessage repos.ChatMessageRepo
	User        repos.UserRepo
	Sessions    repos.SessionStore
}

func wireRepos(db *gorm.DB, rdb *goredis.Client, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Idea:        repos.NewIdeaRepo(db, log),
		ChatMessage: repos.NewChatMessageRepo(db, log),
		User:        repos.NewUserRepo(db, log),
		Sessions:    repos.NewSessionStore(rdb, log),
	}
}
