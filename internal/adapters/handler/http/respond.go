package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/orgpoll/api/internal/core/domain"
)

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Error: message})
}

// writeDomainError maps domain failures to HTTP statuses. The error
// code travels in the body so clients can localize; unexpected errors
// become opaque 500s.
func writeDomainError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		slog.Error("unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	writeError(w, statusFor(derr), derr.Code, derr.Message)
}

func statusFor(err *domain.Error) int {
	switch err {
	case domain.ErrPollNotFound, domain.ErrQuestionNotFound, domain.ErrAnswerNotFound, domain.ErrParticipantNotFound:
		return http.StatusNotFound
	case domain.ErrNotAuthorized:
		return http.StatusForbidden
	case domain.ErrPollAlreadyActive, domain.ErrPollNotActive, domain.ErrPollAlreadyFinished,
		domain.ErrPollFinished, domain.ErrPollCannotActivateFinished, domain.ErrPollNoQuestions,
		domain.ErrPollQuestionNoAnswers, domain.ErrPollAlreadyArchived, domain.ErrPollNotEditable,
		domain.ErrQuestionArchived, domain.ErrSnapshotAlreadyTaken, domain.ErrSnapshotNotTaken,
		domain.ErrNotParticipant, domain.ErrAlreadyVoted, domain.ErrMustAnswerAllQuestions,
		domain.ErrSingleChoiceMultipleAnswers, domain.ErrParticipantsHaveVotes, domain.ErrSnapshotHasVotes:
		return http.StatusConflict
	default:
		// Validation errors.
		return http.StatusBadRequest
	}
}
