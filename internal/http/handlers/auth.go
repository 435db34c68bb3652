package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideabox-backend/internal/http/cookies"
	"github.com/yungbote/ideabox-backend/internal/http/middleware"
	"github.com/yungbote/ideabox-backend/internal/http/response"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	cookies     cookies.Config
}

func NewAuthHandler(authService services.AuthService, cookieCfg cookies.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookieCfg}
}

// POST /auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Nickname string `json:"nickname"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errBadBody)
		return
	}
	sess, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	p := sess.Principal
	cookies.Write(c, ah.cookies, p.Token, p.Identity, p.ExpiresAt)
	response.RespondOK(c, gin.H{
		"user":         sess.User,
		"access_token": p.Token,
		"expires_at":   p.ExpiresAt,
	})
}

// POST /auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	p := middleware.Principal(c)
	if p == nil {
		response.RespondServiceError(c, apperrors.ErrUnauthorized)
		return
	}
	if err := ah.authService.Logout(c.Request.Context(), p.SessionID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	cookies.Clear(c, ah.cookies)
	response.RespondOK(c, gin.H{"ok": true})
}
