package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/ideabox-backend/internal/platform/ctxutil"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRequestLoggerIdeaFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := observedLogger()
	owner := uuid.New()
	r := gin.New()
	r.Use(RequestLogger(log, "/healthcheck"))
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: owner, SessionID: "s1"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.PUT("/api/ideas/:id", func(c *gin.Context) {
		c.Header("X-Invalidate", "ideas, dashboard")
		c.Status(http.StatusOK)
	})
	r.GET("/api/messages", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/ideas/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/messages?idea_id=7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	entries := logs.All()
	require.Len(t, entries, 3)

	update := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/ideas/:id", update["route"])
	assert.Equal(t, "42", update["idea_id"])
	assert.Equal(t, "ideas, dashboard", update["invalidate"])
	assert.Equal(t, owner.String(), update["owner_id"])

	list := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "7", list["idea_id"])
	_, hasInvalidate := list["invalidate"]
	assert.False(t, hasInvalidate)

	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}

func TestRequestLoggerUnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := observedLogger()
	r := gin.New()
	r.Use(RequestLogger(log))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, unmatchedRoute, fields["route"])
	_, hasOwner := fields["owner_id"]
	assert.False(t, hasOwner)
}
