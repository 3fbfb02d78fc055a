package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	// Update persists the poll row only (title, dates, lifecycle flags,
	// archival); questions and answers have their own operations.
	Update(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Poll, error)
	SaveQuestion(ctx context.Context, question *domain.Question) error
	UpdateQuestion(ctx context.Context, question *domain.Question) error
	SaveAnswer(ctx context.Context, answer *domain.Answer) error
	UpdateAnswer(ctx context.Context, answer *domain.Answer) error
}

type CreatePollInput struct {
	Title          string
	Description    string
	BoardID        uuid.UUID
	OrgID          uuid.UUID
	Scope          domain.PollScope
	StartDate      time.Time
	EndDate        time.Time
	WeightCriteria string
	CreatedBy      uuid.UUID
}

type UpdatePollInput struct {
	PollID      uuid.UUID
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	ActorID     uuid.UUID
}

type AddQuestionInput struct {
	PollID  uuid.UUID
	Text    string
	Details string
	Page    int
	Order   int
	Type    domain.QuestionType
	ActorID uuid.UUID
}

type AddAnswerInput struct {
	PollID     uuid.UUID
	QuestionID uuid.UUID
	Text       string
	Order      int
	ActorID    uuid.UUID
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Poll, error)
	Update(ctx context.Context, input UpdatePollInput) (*domain.Poll, error)
	AddQuestion(ctx context.Context, input AddQuestionInput) (*domain.Question, error)
	ArchiveQuestion(ctx context.Context, pollID, questionID, actorID uuid.UUID) error
	AddAnswer(ctx context.Context, input AddAnswerInput) (*domain.Answer, error)
	ArchiveAnswer(ctx context.Context, pollID, questionID, answerID, actorID uuid.UUID) error
	Activate(ctx context.Context, pollID, actorID uuid.UUID) error
	Deactivate(ctx context.Context, pollID, actorID uuid.UUID) error
	Finish(ctx context.Context, pollID, actorID uuid.UUID) error
	Archive(ctx context.Context, pollID, actorID uuid.UUID) error
	TakeSnapshot(ctx context.Context, pollID, actorID uuid.UUID) error
	DiscardSnapshot(ctx context.Context, pollID, actorID uuid.UUID) error
}
