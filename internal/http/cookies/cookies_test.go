package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/ideabox-backend/internal/domain"
)

func TestWriteThenRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exp := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Second)
	id := types.Identity{ID: uuid.New(), Email: "ada@example.com", Nickname: "Ada"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Write(c, Config{Secure: true}, "tok", id, exp)

	resp := w.Result()
	got := map[string]*http.Cookie{}
	for _, ck := range resp.Cookies() {
		got[ck.Name] = ck
	}
	require.Contains(t, got, TokenCookie)
	require.Contains(t, got, UserCookie)
	assert.True(t, got[TokenCookie].HttpOnly)
	assert.False(t, got[UserCookie].HttpOnly)
	assert.True(t, got[TokenCookie].Secure)
	assert.True(t, got[TokenCookie].Expires.Equal(exp))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range resp.Cookies() {
		req.AddCookie(ck)
	}
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = req
	assert.Equal(t, "tok", Token(c2))
	decoded, ok := Identity(c2)
	require.True(t, ok)
	assert.Equal(t, id, decoded)
}

func TestTokenFromBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", Token(c))

	c.Request.Header.Set("Authorization", "Basic xyz")
	assert.Equal(t, "", Token(c))
}
