package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type submitDraftRequest struct {
	QuestionID   uuid.UUID `json:"question_id"`
	AnswerID     uuid.UUID `json:"answer_id"`
	ShouldRemove bool      `json:"should_remove"`
}

// SubmitDraft godoc
// @Summary      Records or removes a provisional ballot selection
// @Description  Single-choice questions keep one draft per user; multiple-choice questions toggle per answer.
// @Tags         votes
// @Accept       json
// @Success      204
// @Failure      409
// @Router       /polls/{id}/drafts [post]
func (h *VoteHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	var req submitDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBody", "invalid request body")
		return
	}

	err := h.service.SubmitDraft(r.Context(), ports.SubmitDraftInput{
		PollID:       pollID,
		QuestionID:   req.QuestionID,
		AnswerID:     req.AnswerID,
		UserID:       userID,
		ShouldRemove: req.ShouldRemove,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VoteHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	drafts, err := h.service.ListDrafts(r.Context(), pollID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, drafts)
}

// FinishVoting godoc
// @Summary      Commits the caller's drafts as immutable votes
// @Tags         votes
// @Success      201
// @Failure      409
// @Router       /polls/{id}/finish-voting [post]
func (h *VoteHandler) FinishVoting(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.FinishVoting(r.Context(), pollID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *VoteHandler) VotingStatus(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	finished, err := h.service.HasUserFinishedVoting(r.Context(), pollID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"has_finished_voting": finished})
}
