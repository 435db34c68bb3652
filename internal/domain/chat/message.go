package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideabox-backend/internal/domain/idea"
)

type MessageType string

const (
	TypeUser MessageType = "user"
	TypeAI   MessageType = "ai"
	// TypeSystem is reserved. No flow persists it.
	TypeSystem MessageType = "system"
)

// ChatMessage is one append-only turn of a conversation scoped to an idea.
type ChatMessage struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	IdeaID  uint      `gorm:"not null;index;index:idx_chat_message_idea_created,priority:1" json:"idea_id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Content string      `gorm:"column:message;type:text;not null" json:"message"`
	Type    MessageType `gorm:"column:type;not null;index" json:"type"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_chat_message_idea_created,priority:2" json:"created_at"`

	// Deleting an idea removes its conversation at the database level.
	Idea *idea.Idea `gorm:"foreignKey:IdeaID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChatMessage) TableName() string { return "chat_message" }
