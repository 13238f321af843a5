package httpd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
)

type errorBody struct {
	Code    int                   `json:"code"`
	Kind    apperror.Kind         `json:"kind"`
	Message string                `json:"message"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindForbidden, apperror.KindInvalidKey:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindValidation, apperror.KindOutOfRange:
		return http.StatusBadRequest
	case apperror.KindAlreadyEnrolled,
		apperror.KindDuplicateSubmission,
		apperror.KindWindowNotOpen,
		apperror.KindWindowClosed,
		apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, kind apperror.Kind, message string, fields []apperror.FieldError) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error": errorBody{
			Code:    status,
			Kind:    kind,
			Message: message,
			Fields:  fields,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Request aborted")
		writeError(w, http.StatusServiceUnavailable, apperror.KindInternal, "request was cancelled", nil)
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Service error")
		writeError(w, http.StatusInternalServerError, apperror.KindInternal, "Internal server error", nil)
		return
	}

	status := statusFor(appErr.Kind)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Service error")
		writeError(w, status, apperror.KindInternal, "Internal server error", nil)
		return
	}

	writeError(w, status, appErr.Kind, appErr.Message, appErr.Fields)
}
