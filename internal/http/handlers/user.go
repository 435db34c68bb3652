package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideabox-backend/internal/http/response"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context(), ownerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PUT /me/profile
// body: { "nickname": "...", "biography": "...", "preferred_theme": "light" | "dark" | "system" }
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	me, err := uh.userService.UpdateProfile(c.Request.Context(), ownerID(c), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PUT /me/avatar (multipart field "avatar")
func (uh *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.RespondServiceError(c, apperrors.Invalid("avatar", "required", "is required"))
		return
	}
	if fh.Size > services.MaxAvatarUploadLen {
		response.RespondServiceError(c, apperrors.Invalid("avatar", "max_size", "must be at most 5 MiB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondServiceError(c, apperrors.Invalid("avatar", "format", "could not be read"))
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, services.MaxAvatarUploadLen+1))
	if err != nil {
		response.RespondServiceError(c, apperrors.Invalid("avatar", "format", "could not be read"))
		return
	}
	me, err := uh.userService.UploadAvatar(c.Request.Context(), ownerID(c), raw)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /me/avatar
func (uh *UserHandler) Avatar(c *gin.Context) {
	png, err := uh.userService.Avatar(c.Request.Context(), ownerID(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
