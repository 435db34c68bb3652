package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	types "github.com/yungbote/ideabox-backend/internal/domain"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

// SessionStore keeps login sessions in Redis under "session:<id>".
type SessionStore interface {
	Save(ctx context.Context, s *types.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*types.Session, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Revoke(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func NewSessionStore(client *redis.Client, baseLog *logger.Logger) SessionStore {
	return &redisSessionStore{
		client: client,
		prefix: "session:",
		log:    baseLog.With("repo", "SessionStore"),
	}
}

func (s *redisSessionStore) key(id string) string { return s.prefix + id }

func (s *redisSessionStore) Save(ctx context.Context, sess *types.Session, ttl time.Duration) error {
	if sess == nil || sess.ID == "" {
		return errors.New("missing session id")
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	if err := s.client.Set(ctx, s.key(sess.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns ErrUnauthorized when the session is unknown or expired.
func (s *redisSessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	var sess types.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *redisSessionStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, s.key(id), ttl).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if !ok {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
