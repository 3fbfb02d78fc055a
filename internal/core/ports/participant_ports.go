package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/shopspring/decimal"
)

type ParticipantRepository interface {
	// ExecuteActivation persists the updated poll flags, the snapshot
	// participants and their initial weight history in one transaction.
	// A concurrent reader must never observe participants without their
	// history rows or the snapshot flag without its participants.
	ExecuteActivation(ctx context.Context, poll *domain.Poll, participants []domain.PollParticipant, history []domain.ParticipantWeightHistory) error
	// DiscardSnapshot deletes all participants of the poll and persists
	// the cleared snapshot flag in one transaction.
	DiscardSnapshot(ctx context.Context, poll *domain.Poll) error
	GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.PollParticipant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PollParticipant, error)
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.PollParticipant, error)
	// UpdateWeight persists the new weight and its paired history record
	// in one transaction.
	UpdateWeight(ctx context.Context, participant *domain.PollParticipant, history domain.ParticipantWeightHistory) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListWeightHistory(ctx context.Context, pollID uuid.UUID) ([]domain.ParticipantWeightHistory, error)
}

type UpdateWeightInput struct {
	PollID        uuid.UUID
	ParticipantID uuid.UUID
	NewWeight     decimal.Decimal
	Reason        string
	ActorID       uuid.UUID
}

// ParticipantView is a roster entry enriched with the display name.
type ParticipantView struct {
	domain.PollParticipant
	Name string `json:"name"`
}

type ParticipantService interface {
	ListParticipants(ctx context.Context, pollID, actorID uuid.UUID) ([]ParticipantView, error)
	UpdateWeight(ctx context.Context, input UpdateWeightInput) (*domain.PollParticipant, error)
	RemoveParticipant(ctx context.Context, pollID, participantID, actorID uuid.UUID) error
	WeightHistory(ctx context.Context, pollID, actorID uuid.UUID) ([]domain.ParticipantWeightHistory, error)
}
