package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
	"github.com/yungbote/ideabox-backend/internal/platform/openai"
	"github.com/yungbote/ideabox-backend/internal/platform/sendgrid"
)

type Clients struct {
	OpenaiClient openai.Client
	Email        sendgrid.Client
	Redis        *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Openai
	openaiClient, err := openai.NewClient(log, openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// Sendgrid
	email, err := sendgrid.New(log, sendgrid.Config{
		APIKey:           cfg.SendgridAPIKey,
		DefaultFromEmail: cfg.SendgridFromEmail,
		DefaultFromName:  cfg.SendgridFromName,
		MaxRetries:       cfg.SendgridMaxRetries,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
	}

	// Redis
	rdb, err := repos.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	return Clients{
		OpenaiClient: openaiClient,
		Email:        email,
		Redis:        rdb,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
