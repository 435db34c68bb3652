package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideabox-backend/internal/http/middleware"
	"github.com/yungbote/ideabox-backend/internal/http/response"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/services"
)

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// POST /contact
func (h *ContactHandler) Send(c *gin.Context) {
	p := middleware.Principal(c)
	if p == nil {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}
	var in services.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	if err := h.contactService.Send(c.Request.Context(), p.Identity, in); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
