package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	BoardID        uuid.UUID `json:"board_id"`
	OrgID          uuid.UUID `json:"org_id"`
	Scope          string    `json:"scope"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	WeightCriteria string    `json:"weight_criteria"`
}

// CreatePoll godoc
// @Summary      Creates a draft poll
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBody", "invalid request body")
		return
	}

	scope := domain.PollScope(req.Scope)
	if scope == "" {
		scope = domain.ScopeBoard
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		BoardID:        req.BoardID,
		OrgID:          req.OrgID,
		Scope:          scope,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		WeightCriteria: req.WeightCriteria,
		CreatedBy:      userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidPollID", "invalid poll id")
		return
	}

	poll, err := h.service.GetPoll(r.Context(), pollID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	boardID, err := uuid.Parse(r.URL.Query().Get("board_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBoardID", "invalid board id")
		return
	}

	polls, err := h.service.ListByBoard(r.Context(), boardID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, polls)
}

type updatePollRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidPollID", "invalid poll id")
		return
	}

	var req updatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBody", "invalid request body")
		return
	}

	poll, err := h.service.Update(r.Context(), ports.UpdatePollInput{
		PollID:      pollID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ActorID:     userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

type addQuestionRequest struct {
	Text    string `json:"text"`
	Details string `json:"details"`
	Page    int    `json:"page"`
	Order   int    `json:"order"`
	Type    string `json:"type"`
}

func (h *PollHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidPollID", "invalid poll id")
		return
	}

	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBody", "invalid request body")
		return
	}

	question, err := h.service.AddQuestion(r.Context(), ports.AddQuestionInput{
		PollID:  pollID,
		Text:    req.Text,
		Details: req.Details,
		Page:    req.Page,
		Order:   req.Order,
		Type:    domain.QuestionType(req.Type),
		ActorID: userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (h *PollHandler) ArchiveQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}
	pollID, questionID, ok := pollAndQuestionIDs(w, r)
	if !ok {
		return
	}

	if err := h.service.ArchiveQuestion(r.Context(), pollID, questionID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addAnswerRequest struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

func (h *PollHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}
	pollID, questionID, ok := pollAndQuestionIDs(w, r)
	if !ok {
		return
	}

	var req addAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidBody", "invalid request body")
		return
	}

	answer, err := h.service.AddAnswer(r.Context(), ports.AddAnswerInput{
		PollID:     pollID,
		QuestionID: questionID,
		Text:       req.Text,
		Order:      req.Order,
		ActorID:    userID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, answer)
}

func (h *PollHandler) ArchiveAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}
	pollID, questionID, ok := pollAndQuestionIDs(w, r)
	if !ok {
		return
	}
	answerID, err := uuid.Parse(chi.URLParam(r, "answerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidAnswerID", "invalid answer id")
		return
	}

	if err := h.service.ArchiveAnswer(r.Context(), pollID, questionID, answerID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Lifecycle transitions. Each is a thin wrapper over the service call.

func (h *PollHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Activate)
}

func (h *PollHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Deactivate)
}

func (h *PollHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Finish)
}

func (h *PollHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Archive)
}

func (h *PollHandler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.TakeSnapshot)
}

func (h *PollHandler) DiscardSnapshot(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.DiscardSnapshot)
}

func (h *PollHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, pollID, actorID uuid.UUID) error) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidPollID", "invalid poll id")
		return
	}

	if err := op(r.Context(), pollID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pollAndQuestionIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidPollID", "invalid poll id")
		return uuid.Nil, uuid.Nil, false
	}
	questionID, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "request.invalidQuestionID", "invalid question id")
		return uuid.Nil, uuid.Nil, false
	}
	return pollID, questionID, true
}
