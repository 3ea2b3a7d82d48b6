package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"polly-api/internal/domain"
	"polly-api/internal/middleware"
	apperrors "polly-api/pkg/errors"
	"polly-api/pkg/logger"
)

// respondJSON writes a JSON payload with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps an error onto the structured error response. AppErrors
// carry their own status and user-visible message; the poll sentinels map
// to 404/400; anything else is a 500 with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &appErr):
		// keep as is
	case errors.Is(err, domain.ErrPollNotFound):
		appErr = apperrors.NewNotFoundError("Poll not found")
	case errors.Is(err, domain.ErrInvalidPollID):
		appErr = apperrors.NewValidationError("Invalid poll id", nil)
	default:
		appErr = apperrors.NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = requestID(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// requestID pulls the request id set by the middleware, if any
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(middleware.RequestIDContextKey).(string)
	return id
}

// userID returns the authenticated user's id, empty when anonymous
func userID(r *http.Request) string {
	if claims := middleware.UserFromContext(r.Context()); claims != nil {
		return claims.Sub
	}
	return ""
}
