package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/ctxutil"
)

// Views a mutation makes stale on the client.
const invalidateIdeaViews = "ideas, dashboard"

func ownerID(c *gin.Context) uuid.UUID {
	return ctxutil.OwnerID(c.Request.Context())
}

func markStale(c *gin.Context) {
	c.Header("X-Invalidate", invalidateIdeaViews)
}

func parseID(raw, field string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.Invalid(field, "required", "is required")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperrors.Invalid(field, "format", "must be a positive integer")
	}
	return uint(n), nil
}

var errBadBody = errors.New("request body is not valid JSON for this endpoint")

var errIdeaIDRequired = apperrors.Invalid("idea_id", "required", "is required")
