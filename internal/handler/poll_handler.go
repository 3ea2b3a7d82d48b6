package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"polly-api/internal/domain"
	"polly-api/internal/service"
	apperrors "polly-api/pkg/errors"
	"polly-api/pkg/logger"
)

// PollHandler handles the poll lifecycle endpoints
type PollHandler struct {
	pollService service.PollService
	logger      *logger.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(pollService service.PollService, logger *logger.Logger) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		logger:      logger,
	}
}

// Create handles POST /api/v1/polls. The creator identity comes from the
// validated token, never from the request body.
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		respondError(w, r, h.logger, apperrors.NewAuthenticationError("Authentication required"))
		return
	}

	var req domain.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationError("Invalid request body", nil))
		return
	}
	req.UserID = uid

	poll, err := h.pollService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/polls/"+poll.ID)
	respondJSON(w, http.StatusCreated, poll)
}

// Get handles GET /api/v1/polls/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	poll, err := h.pollService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// List handles GET /api/v1/polls
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	polls, err := h.pollService.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"polls": polls,
	})
}

// Results handles GET /api/v1/polls/{id}/results
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.pollService.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}
