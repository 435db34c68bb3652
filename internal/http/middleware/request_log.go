package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ideabox-backend/internal/platform/ctxutil"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

const requestLogMsg = "api request"

// RequestLogger writes one line per request after the handler ran. Quiet
// routes (probes, scrapes) drop to debug unless they fail.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	quietRoutes := make(map[string]struct{}, len(quiet))
	for _, q := range quiet {
		quietRoutes[q] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		status := c.Writer.Status()
		fields := requestFields(c, time.Since(start))
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(requestLogMsg, fields...)
		case status >= http.StatusBadRequest:
			log.Warn(requestLogMsg, fields...)
		default:
			if _, ok := quietRoutes[c.FullPath()]; ok {
				log.Debug(requestLogMsg, fields...)
				return
			}
			log.Info(requestLogMsg, fields...)
		}
	}
}

// requestFields collects the log fields for a finished request: the route
// template, the idea it touched, the owner and the cache views it invalidated.
func requestFields(c *gin.Context, elapsed time.Duration) []interface{} {
	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	fields := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"status", c.Writer.Status(),
		"bytes", c.Writer.Size(),
		"duration_ms", elapsed.Milliseconds(),
	}

	if id := ideaRef(c); id != "" {
		fields = append(fields, "idea_id", id)
	}
	if inv := c.Writer.Header().Get("X-Invalidate"); inv != "" {
		fields = append(fields, "invalidate", inv)
	}
	if c.Writer.Header().Get(tokenRefreshedHeader) != "" {
		fields = append(fields, "auth_refreshed", true)
	}

	ctx := c.Request.Context()
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
		fields = append(fields, "owner_id", rd.UserID.String())
		if rd.SessionID != "" {
			fields = append(fields, "session_id", rd.SessionID)
		}
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		fields = append(fields, "request_id", td.RequestID)
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "error", c.Errors.Last().Error())
	}
	return fields
}

// ideaRef is the idea a request addresses: the :id segment on idea routes or
// the idea_id query on message listing.
func ideaRef(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return c.Query("idea_id")
}
