package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/ports"
	"github.com/shopspring/decimal"
)

type ParticipantHandler struct {
	service ports.ParticipantService
}

func NewParticipantHandler(service ports.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		service: service,
	}
}

func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	participants, err := h.service.ListParticipants(r.Context(), pollID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participants)
}

type updateWeightRequest struct {
	Weight decimal.Decimal `json:"weight"`
	Reason string          `json:"reason"`
}

// UpdateWeight godoc
// @Summary      Changes a participant's voting weight
// @Description  Allowed only after the snapshot and before any vote is cast. Every change appends an audit record.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      409
// @Router       /polls/{id}/participants/{participantID}/weight [put]
func (h *ParticipantHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}
	participantID, err := uuid.Parse(chi.URLParam(r, "participantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidParticipantID", "invalid participant id")
		return
	}

	var req updateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBody", "invalid request body")
		return
	}

	participant, err := h.service.UpdateWeight(r.Context(), ports.UpdateWeightInput{
		PollID:        pollID,
		ParticipantID: participantID,
		NewWeight:     req.Weight,
		Reason:        req.Reason,
		ActorID:       userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, participant)
}

func (h *ParticipantHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}
	participantID, err := uuid.Parse(chi.URLParam(r, "participantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidParticipantID", "invalid participant id")
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), pollID, participantID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipantHandler) WeightHistory(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	history, err := h.service.WeightHistory(r.Context(), pollID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// authedPollRequest extracts the authenticated user and the poll id
// path parameter shared by most poll-scoped endpoints.
func authedPollRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidPollID", "invalid poll id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, pollID, true
}
