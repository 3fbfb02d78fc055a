package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
)

type VoteDraftRepository interface {
	Save(ctx context.Context, draft *domain.VoteDraft) error
	ListByUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.VoteDraft, error)
	// DeleteByQuestion removes every draft of the user for one question;
	// used for single-choice replacement.
	DeleteByQuestion(ctx context.Context, pollID, questionID, userID uuid.UUID) error
	// DeleteByAnswer removes exactly the (question, answer, user) draft;
	// used for multiple-choice toggling.
	DeleteByAnswer(ctx context.Context, pollID, questionID, answerID, userID uuid.UUID) error
	DeleteByPoll(ctx context.Context, pollID uuid.UUID) error
}

type VoteRepository interface {
	// CommitVotes inserts the user's votes and deletes their drafts for
	// the poll in one transaction.
	CommitVotes(ctx context.Context, pollID, userID uuid.UUID, votes []domain.Vote) error
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error)
	ListByUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.Vote, error)
	CountDistinctVotedQuestions(ctx context.Context, pollID, userID uuid.UUID) (int, error)
	HasVotesForPoll(ctx context.Context, pollID uuid.UUID) (bool, error)
}

type SubmitDraftInput struct {
	PollID       uuid.UUID
	QuestionID   uuid.UUID
	AnswerID     uuid.UUID
	UserID       uuid.UUID
	ShouldRemove bool
}

type VoteService interface {
	SubmitDraft(ctx context.Context, input SubmitDraftInput) error
	ListDrafts(ctx context.Context, pollID, userID uuid.UUID) ([]domain.VoteDraft, error)
	FinishVoting(ctx context.Context, pollID, userID uuid.UUID) error
	HasUserFinishedVoting(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
}

type ResultService interface {
	Results(ctx context.Context, pollID, callerID uuid.UUID) (*domain.PollResults, error)
}
