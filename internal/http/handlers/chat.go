package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideabox-backend/internal/http/response"
	"github.com/yungbote/ideabox-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// POST /messages/ai
// body: { "idea_id": 1, "message": "...", "history": [{"type":"user","message":"..."}] }
// An absent history replays the stored conversation.
func (h *ChatHandler) Converse(c *gin.Context) {
	var req struct {
		IdeaID  uint                    `json:"idea_id"`
		Message string                  `json:"message"`
		History []services.HistoryEntry `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	if req.IdeaID == 0 {
		response.RespondServiceError(c, errIdeaIDRequired)
		return
	}
	res, err := h.chatService.Converse(c.Request.Context(), req.IdeaID, ownerID(c), req.History, req.Message)
	if err != nil {
		var pe *services.PersistenceError
		if errors.As(err, &pe) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     response.APIError{Message: "the reply could not be saved", Code: "persistence_failed"},
				"response":  pe.Reply,
				"persisted": false,
			})
			return
		}
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"response":     res.Reply,
		"user_message": res.UserMessage,
		"rate_limited": res.RateLimited,
		"persisted":    true,
	})
}

// POST /messages
// body: { "idea_id": 1, "message": "...", "type": "user" | "ai" }
func (h *ChatHandler) Append(c *gin.Context) {
	var req struct {
		IdeaID  uint   `json:"idea_id"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	msg, err := h.chatService.AppendMessage(c.Request.Context(), req.IdeaID, ownerID(c), req.Message, req.Type)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": msg})
}

// GET /messages?idea_id=
func (h *ChatHandler) List(c *gin.Context) {
	ideaID, err := parseID(c.Query("idea_id"), "idea_id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	msgs, err := h.chatService.ListMessages(c.Request.Context(), ideaID, ownerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": msgs})
}
