package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"polly-api/internal/domain"
	"polly-api/internal/service"
	apperrors "polly-api/pkg/errors"
	"polly-api/pkg/logger"
)

// VoteHandler handles the voting write path
type VoteHandler struct {
	voteService service.VoteService
	logger      *logger.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService service.VoteService, logger *logger.Logger) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		logger:      logger,
	}
}

// Submit handles POST /api/v1/polls/{id}/vote. Auth is optional: an
// anonymous caller records a vote with no user id.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationError("Invalid request body", nil))
		return
	}

	req.PollID = chi.URLParam(r, "id")
	req.UserID = userID(r)

	response, err := h.voteService.Submit(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}
