package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/observability"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
	"github.com/yungbote/ideabox-backend/internal/platform/openai"
)

const MaxMessageLen = 4000

// Persistence stages reported by PersistenceError.
const (
	StageUserMessage = "user_message"
	StageAIMessage   = "ai_message"
)

// PersistenceError means the AI replied but the reply (or the user turn
// before it) was not stored. Reply holds the unsaved in-memory record.
type PersistenceError struct {
	Stage string
	Reply *types.ChatMessage
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Stage, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// HistoryEntry is one turn the client already holds.
type HistoryEntry struct {
	Type      types.MessageType `json:"type"`
	Content   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

type ConverseResult struct {
	UserMessage *types.ChatMessage
	Reply       *types.ChatMessage
	RateLimited bool
}

type ChatService interface {
	// Converse runs one chat turn. A nil history loads the stored
	// conversation; an empty non-nil history replays nothing.
	Converse(ctx context.Context, ideaID uint, ownerID uuid.UUID, history []HistoryEntry, message string) (*ConverseResult, error)
	AppendMessage(ctx context.Context, ideaID uint, ownerID uuid.UUID, content string, msgType string) (*types.ChatMessage, error)
	ListMessages(ctx context.Context, ideaID uint, ownerID uuid.UUID) ([]*types.ChatMessage, error)
}

type chatService struct {
	log      *logger.Logger
	ideaRepo repos.IdeaRepo
	msgRepo  repos.ChatMessageRepo
	ai       openai.Client
	now      Clock
}

func NewChatService(log *logger.Logger, ideaRepo repos.IdeaRepo, msgRepo repos.ChatMessageRepo, ai openai.Client, now Clock) ChatService {
	if now == nil {
		now = SystemClock
	}
	return &chatService{
		log:      log.With("service", "ChatService"),
		ideaRepo: ideaRepo,
		msgRepo:  msgRepo,
		ai:       ai,
		now:      now,
	}
}

func validateMessage(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.Invalid("message", "required", "must not be empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageLen {
		return "", apperrors.Invalid("message", "max_length", "is too long")
	}
	return content, nil
}

func (s *chatService) loadIdea(dbc dbctx.Context, op string, ideaID uint, ownerID uuid.UUID) (*types.Idea, error) {
	idea, err := s.ideaRepo.GetByID(dbc, ideaID, ownerID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		s.log.Error("idea lookup failed", "op", op, "idea_id", ideaID, "owner_id", ownerID, "error", err)
		return nil, apperrors.Upstream(op, err)
	}
	return idea, nil
}

// replayWindow keeps the last HistoryWindow user turns, oldest first.
func replayWindow(history []HistoryEntry) []openai.Message {
	users := make([]openai.Message, 0, HistoryWindow)
	for _, h := range history {
		if h.Type != types.MessageTypeUser || strings.TrimSpace(h.Content) == "" {
			continue
		}
		users = append(users, openai.Message{Role: openai.RoleUser, Content: h.Content})
	}
	if len(users) > HistoryWindow {
		users = users[len(users)-HistoryWindow:]
	}
	return users
}

func historyFromMessages(rows []*types.ChatMessage) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, HistoryEntry{Type: m.Type, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out
}

func (s *chatService) Converse(ctx context.Context, ideaID uint, ownerID uuid.UUID, history []HistoryEntry, message string) (*ConverseResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	content, err := validateMessage(message)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	idea, err := s.loadIdea(dbc, "chat.converse", ideaID, ownerID)
	if err != nil {
		return nil, err
	}

	if history == nil {
		stored, err := s.msgRepo.ListByIdea(dbc, ideaID, ownerID)
		if err != nil {
			s.log.Error("history load failed", "idea_id", ideaID, "owner_id", ownerID, "error", err)
			return nil, apperrors.Upstream("chat.history", err)
		}
		history = historyFromMessages(stored)
	}

	input := append(replayWindow(history), openai.Message{Role: openai.RoleUser, Content: content})
	res := &ConverseResult{}
	replyText, err := s.ai.Respond(ctx, BuildIdeaInstructions(idea), input)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrRateLimited):
		s.log.Warn("ai rate limited, replying with notice", "idea_id", ideaID)
		replyText = rateLimitedReply
		res.RateLimited = true
	default:
		observability.Current().IncChatTurn("ai_failed")
		s.log.Error("ai call failed", "idea_id", ideaID, "owner_id", ownerID, "error", err)
		return nil, apperrors.Upstream("ai.converse", err)
	}

	// Stamps come from the clock and the stored conversation only. Client
	// history timestamps are display data and never move the floor.
	res.UserMessage = &types.ChatMessage{IdeaID: ideaID, OwnerID: ownerID, Content: content, Type: types.MessageTypeUser}
	res.Reply = &types.ChatMessage{IdeaID: ideaID, OwnerID: ownerID, Content: replyText, Type: types.MessageTypeAI}
	last, err := s.msgRepo.LastCreatedAt(dbc, ideaID, ownerID)
	if err != nil {
		res.Reply.CreatedAt = s.now()
		return nil, s.persistFailed(StageUserMessage, res.Reply, err)
	}
	res.UserMessage.CreatedAt = nextStamp(s.now(), last)
	res.Reply.CreatedAt = nextStamp(s.now(), res.UserMessage.CreatedAt)

	if _, err := s.msgRepo.Create(dbc, []*types.ChatMessage{res.UserMessage}); err != nil {
		return nil, s.persistFailed(StageUserMessage, res.Reply, err)
	}
	if _, err := s.msgRepo.Create(dbc, []*types.ChatMessage{res.Reply}); err != nil {
		return nil, s.persistFailed(StageAIMessage, res.Reply, err)
	}

	if res.RateLimited {
		observability.Current().IncChatTurn("rate_limited")
	} else {
		observability.Current().IncChatTurn("ok")
	}
	return res, nil
}

func (s *chatService) persistFailed(stage string, reply *types.ChatMessage, err error) error {
	observability.Current().IncChatTurn("persistence_failed")
	s.log.Error("chat persistence failed", "stage", stage, "idea_id", reply.IdeaID, "owner_id", reply.OwnerID, "error", err)
	return &PersistenceError{Stage: stage, Reply: reply, Err: err}
}

func (s *chatService) AppendMessage(ctx context.Context, ideaID uint, ownerID uuid.UUID, content string, msgType string) (*types.ChatMessage, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if ideaID == 0 {
		return nil, apperrors.Invalid("idea_id", "required", "is required")
	}
	content, err := validateMessage(content)
	if err != nil {
		return nil, err
	}
	var t types.MessageType
	switch types.MessageType(strings.ToLower(strings.TrimSpace(msgType))) {
	case types.MessageTypeUser:
		t = types.MessageTypeUser
	case types.MessageTypeAI:
		t = types.MessageTypeAI
	case "":
		return nil, apperrors.Invalid("type", "required", "is required")
	default:
		return nil, apperrors.Invalid("type", "enum", "must be user or ai")
	}

	dbc := dbctx.New(ctx)
	if _, err := s.loadIdea(dbc, "chat.append", ideaID, ownerID); err != nil {
		return nil, err
	}
	last, err := s.msgRepo.LastCreatedAt(dbc, ideaID, ownerID)
	if err != nil {
		return nil, apperrors.Upstream("chat.append", err)
	}
	row := &types.ChatMessage{IdeaID: ideaID, OwnerID: ownerID, Content: content, Type: t, CreatedAt: nextStamp(s.now(), last)}
	if _, err := s.msgRepo.Create(dbc, []*types.ChatMessage{row}); err != nil {
		s.log.Error("append message failed", "idea_id", ideaID, "owner_id", ownerID, "error", err)
		return nil, apperrors.Upstream("chat.append", err)
	}
	return row, nil
}

func (s *chatService) ListMessages(ctx context.Context, ideaID uint, ownerID uuid.UUID) ([]*types.ChatMessage, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if ideaID == 0 {
		return nil, apperrors.Invalid("idea_id", "required", "is required")
	}
	dbc := dbctx.New(ctx)
	if _, err := s.loadIdea(dbc, "chat.list", ideaID, ownerID); err != nil {
		return nil, err
	}
	out, err := s.msgRepo.ListByIdea(dbc, ideaID, ownerID)
	if err != nil {
		s.log.Error("list messages failed", "idea_id", ideaID, "owner_id", ownerID, "error", err)
		return nil, apperrors.Upstream("chat.list", err)
	}
	return out, nil
}
