package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// Classify maps a service error onto its HTTP status and code. Causes of
// upstream failures are replaced by a generic message.
func Classify(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	if ve, ok := apperrors.IsValidation(err); ok {
		return apierr.New(http.StatusBadRequest, "validation_failed", ve).WithField(ve.Field)
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", apperrors.ErrNotFound)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return apierr.New(http.StatusUnauthorized, "unauthorized", apperrors.ErrUnauthorized)
	case errors.Is(err, apperrors.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", errors.New("already exists"))
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return apierr.New(http.StatusBadRequest, "invalid_request", apperrors.ErrInvalidArgument)
	}
	var ue *apperrors.UpstreamError
	if errors.As(err, &ue) {
		return apierr.New(http.StatusInternalServerError, upstreamCode(ue.Op), errors.New("internal error"))
	}
	return apierr.New(http.StatusInternalServerError, "internal_error", errors.New("internal error"))
}

func upstreamCode(op string) string {
	switch {
	case op == "ai.converse":
		return "ai_failed"
	case len(op) > 6 && op[:6] == "email.":
		return "email_failed"
	default:
		return "internal_error"
	}
}

// RespondServiceError writes the envelope for err and aborts the chain.
func RespondServiceError(c *gin.Context, err error) {
	ae := Classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{Error: APIError{
		Message: ae.Error(),
		Code:    ae.Code,
		Field:   ae.Field,
	}})
}
