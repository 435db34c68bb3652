package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideabox-backend/internal/http/cookies"
	"github.com/yungbote/ideabox-backend/internal/http/response"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/ctxutil"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
	"github.com/yungbote/ideabox-backend/internal/services"
)

const (
	principalKey         = "principal"
	tokenRefreshedHeader = "X-Token-Refreshed"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	cookies     cookies.Config
	now         func() time.Time
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, cookieCfg cookies.Config) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService, cookies: cookieCfg, now: time.Now}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := cookies.Token(c)
		if tokenString == "" {
			response.RespondServiceError(c, apperrors.ErrUnauthorized)
			return
		}
		p, err := am.authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("authentication rejected", "error", err)
			response.RespondServiceError(c, err)
			return
		}

		if p.NeedsRefresh(am.now(), am.authService.RefreshWindow()) {
			fresh, err := am.authService.Refresh(c.Request.Context(), p)
			if err != nil {
				// The current token is still valid; keep serving it.
				am.log.Warn("token refresh failed", "session_id", p.SessionID, "error", err)
			} else {
				p = fresh
				cookies.Write(c, am.cookies, p.Token, p.Identity, p.ExpiresAt)
				c.Header(tokenRefreshedHeader, "1")
			}
		}

		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			TokenString: p.Token,
			SessionID:   p.SessionID,
			UserID:      p.UserID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(principalKey, p)
		c.Next()
	}
}

// Principal returns the caller verified by RequireAuth, or nil.
func Principal(c *gin.Context) *services.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*services.Principal)
	return p
}
