package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error)
	ListByIdea(dbc dbctx.Context, ideaID uint, ownerID uuid.UUID) ([]*types.ChatMessage, error)
	LastCreatedAt(dbc dbctx.Context, ideaID uint, ownerID uuid.UUID) (time.Time, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, rows []*types.ChatMessage) ([]*types.ChatMessage, error) {
	if len(rows) == 0 {
		return []*types.ChatMessage{}, nil
	}
	for _, row := range rows {
		if row.IdeaID == 0 {
			return nil, fmt.Errorf("missing idea_id")
		}
		if row.OwnerID == uuid.Nil {
			return nil, fmt.Errorf("missing owner_id")
		}
	}
	if err := dbc.DB(r.db).Omit("Idea").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIdea returns the conversation oldest first.
func (r *chatMessageRepo) ListByIdea(dbc dbctx.Context, ideaID uint, ownerID uuid.UUID) ([]*types.ChatMessage, error) {
	out := []*types.ChatMessage{}
	if err := dbc.DB(r.db).
		Where("idea_id = ? AND owner_id = ?", ideaID, ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LastCreatedAt is the zero time when the conversation is empty.
func (r *chatMessageRepo) LastCreatedAt(dbc dbctx.Context, ideaID uint, ownerID uuid.UUID) (time.Time, error) {
	var last types.ChatMessage
	res := dbc.DB(r.db).
		Where("idea_id = ? AND owner_id = ?", ideaID, ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&last)
	if res.Error != nil {
		return time.Time{}, res.Error
	}
	if res.RowsAffected == 0 {
		return time.Time{}, nil
	}
	return last.CreatedAt, nil
}
