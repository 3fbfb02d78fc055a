package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(pollHandler *PollHandler, participantHandler *ParticipantHandler, voteHandler *VoteHandler, resultHandler *ResultHandler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtSecret))

			r.Route("/polls", func(r chi.Router) {
				r.Post("/", pollHandler.CreatePoll)
				r.Get("/", pollHandler.ListPolls)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", pollHandler.GetPoll)
					r.Patch("/", pollHandler.UpdatePoll)
					r.Delete("/", pollHandler.Archive)

					r.Post("/questions", pollHandler.AddQuestion)
					r.Route("/questions/{questionID}", func(r chi.Router) {
						r.Delete("/", pollHandler.ArchiveQuestion)
						r.Post("/answers", pollHandler.AddAnswer)
						r.Delete("/answers/{answerID}", pollHandler.ArchiveAnswer)
					})

					r.Post("/activate", pollHandler.Activate)
					r.Post("/deactivate", pollHandler.Deactivate)
					r.Post("/finish", pollHandler.Finish)
					r.Post("/snapshot", pollHandler.TakeSnapshot)
					r.Delete("/snapshot", pollHandler.DiscardSnapshot)

					r.Get("/participants", participantHandler.ListParticipants)
					r.Get("/participants/history", participantHandler.WeightHistory)
					r.Put("/participants/{participantID}/weight", participantHandler.UpdateWeight)
					r.Delete("/participants/{participantID}", participantHandler.RemoveParticipant)

					r.Post("/drafts", voteHandler.SubmitDraft)
					r.Get("/drafts", voteHandler.ListDrafts)
					r.Post("/finish-voting", voteHandler.FinishVoting)
					r.Get("/voting-status", voteHandler.VotingStatus)

					r.Get("/results", resultHandler.GetResults)
				})
			})
		})
	})

	return r
}
