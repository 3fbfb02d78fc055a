package http

import (
	"net/http"

	"github.com/orgpoll/api/internal/core/ports"
)

type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{
		service: service,
	}
}

// GetResults godoc
// @Summary      Returns the weighted tally for a poll
// @Description  Admin-only while the poll runs; any organization member once finished. The voter breakdown is present only for admins.
// @Tags         results
// @Produce      json
// @Success      200
// @Failure      403
// @Router       /polls/{id}/results [get]
func (h *ResultHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID, pollID, ok := authedPollRequest(w, r)
	if !ok {
		return
	}

	results, err := h.service.Results(r.Context(), pollID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
