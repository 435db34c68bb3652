package cookies

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/ideabox-backend/internal/domain"
)

const (
	UserCookie  = "ib_user"
	TokenCookie = "ib_token"
)

type Config struct {
	Secure bool
	Domain string
}

// Write sets both session cookies to expire with the access token.
func Write(c *gin.Context, cfg Config, token string, identity types.Identity, expiresAt time.Time) {
	raw, _ := json.Marshal(identity)
	set(c, cfg, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Expires:  expiresAt,
		HttpOnly: true,
	})
	set(c, cfg, &http.Cookie{
		Name:    UserCookie,
		Value:   base64.RawURLEncoding.EncodeToString(raw),
		Expires: expiresAt,
	})
}

func Clear(c *gin.Context, cfg Config) {
	for _, name := range []string{TokenCookie, UserCookie} {
		set(c, cfg, &http.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: name == TokenCookie,
		})
	}
}

func set(c *gin.Context, cfg Config, ck *http.Cookie) {
	ck.Path = "/"
	ck.Domain = cfg.Domain
	ck.Secure = cfg.Secure
	ck.SameSite = http.SameSiteLaxMode
	http.SetCookie(c.Writer, ck)
}

// Token reads the access token from the cookie or an Authorization bearer header.
func Token(c *gin.Context) string {
	if v, err := c.Cookie(TokenCookie); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// Identity decodes the user cookie. It is informational only; the token is authoritative.
func Identity(c *gin.Context) (types.Identity, bool) {
	var out types.Identity
	v, err := c.Cookie(UserCookie)
	if err != nil || v == "" {
		return out, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}
