package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.Invalid("title", "required", "is required"), http.StatusBadRequest, "validation_failed"},
		{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{apperrors.Upstream("ai.converse", errors.New("boom")), http.StatusInternalServerError, "ai_failed"},
		{apperrors.Upstream("email.contact", errors.New("boom")), http.StatusInternalServerError, "email_failed"},
		{apperrors.Upstream("idea.list", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{errors.New("mystery"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ae := Classify(tc.err)
		assert.Equal(t, tc.status, ae.Status, tc.err.Error())
		assert.Equal(t, tc.code, ae.Code, tc.err.Error())
	}
}

func TestRespondServiceErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondServiceError(c, apperrors.Upstream("idea.list", errors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	RespondServiceError(c, apperrors.Invalid("priority", "enum", "must be one of low, medium, high"))

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "priority", env.Error.Field)
	assert.Equal(t, "validation_failed", env.Error.Code)
}
