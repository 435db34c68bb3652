package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideabox-backend/internal/http/response"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/services"
	"github.com/yungbote/ideabox-backend/internal/validation"
)

type IdeaHandler struct {
	ideaService services.IdeaService
}

func NewIdeaHandler(ideaService services.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

// GET /ideas?search=
func (h *IdeaHandler) List(c *gin.Context) {
	ideas, err := h.ideaService.List(c.Request.Context(), ownerID(c), c.Query("search"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ideas": ideas})
}

// GET /ideas/:id
func (h *IdeaHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	idea, err := h.ideaService.Get(c.Request.Context(), id, ownerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"idea": idea})
}

// POST /ideas
func (h *IdeaHandler) Create(c *gin.Context) {
	var in validation.IdeaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	idea, err := h.ideaService.Create(c.Request.Context(), ownerID(c), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	markStale(c)
	response.RespondCreated(c, gin.H{"idea": idea})
}

// PUT /ideas/:id
func (h *IdeaHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var in validation.IdeaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	idea, err := h.ideaService.Update(c.Request.Context(), id, ownerID(c), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	markStale(c)
	response.RespondOK(c, gin.H{"idea": idea})
}

// POST /ideas/:id/favorite
func (h *IdeaHandler) ToggleFavorite(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	idea, err := h.ideaService.ToggleFavorite(c.Request.Context(), id, ownerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	markStale(c)
	response.RespondOK(c, gin.H{"idea": idea})
}

// DELETE /ideas/:id
func (h *IdeaHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	deleted, err := h.ideaService.Delete(c.Request.Context(), id, ownerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if !deleted {
		response.RespondServiceError(c, apperrors.ErrNotFound)
		return
	}
	markStale(c)
	response.RespondOK(c, gin.H{"message": "idea deleted"})
}
