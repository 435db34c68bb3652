package domain

import (
	"github.com/yungbote/ideabox-backend/internal/domain/auth"
	"github.com/yungbote/ideabox-backend/internal/domain/chat"
	"github.com/yungbote/ideabox-backend/internal/domain/idea"
	"github.com/yungbote/ideabox-backend/internal/domain/user"
)

type Idea = idea.Idea
type IdeaStatus = idea.Status
type IdeaLevel = idea.Level
type IdeaFields = idea.Fields
type IdeaPatch = idea.Patch

const (
	StatusNew         = idea.StatusNew
	StatusInProgress  = idea.StatusInProgress
	StatusUnderReview = idea.StatusUnderReview
	StatusCompleted   = idea.StatusCompleted

	LevelLow    = idea.LevelLow
	LevelMedium = idea.LevelMedium
	LevelHigh   = idea.LevelHigh
)

type ChatMessage = chat.ChatMessage
type MessageType = chat.MessageType

const (
	MessageTypeUser   = chat.TypeUser
	MessageTypeAI     = chat.TypeAI
	MessageTypeSystem = chat.TypeSystem
)

type User = user.User
type Theme = user.Theme

const (
	ThemeLight  = user.ThemeLight
	ThemeDark   = user.ThemeDark
	ThemeSystem = user.ThemeSystem
)

type Session = auth.Session
type Identity = auth.Identity
