package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type participantService struct {
	polls        ports.PollRepository
	participants ports.ParticipantRepository
	votes        ports.VoteRepository
	membership   ports.MembershipProvider
	directory    ports.UserDirectory
}

func NewParticipantService(polls ports.PollRepository, participants ports.ParticipantRepository, votes ports.VoteRepository, membership ports.MembershipProvider, directory ports.UserDirectory) ports.ParticipantService {
	return &participantService{
		polls:        polls,
		participants: participants,
		votes:        votes,
		membership:   membership,
		directory:    directory,
	}
}

func (s *participantService) ListParticipants(ctx context.Context, pollID, actorID uuid.UUID) ([]ports.ParticipantView, error) {
	if _, err := s.requireManager(ctx, pollID, actorID); err != nil {
		return nil, err
	}

	participants, err := s.participants.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}
	names, err := s.directory.GetNames(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participant names: %w", err)
	}

	views := make([]ports.ParticipantView, 0, len(participants))
	for _, p := range participants {
		views = append(views, ports.ParticipantView{PollParticipant: p, Name: names[p.UserID]})
	}
	return views, nil
}

// UpdateWeight changes a participant's weight with a paired audit row.
// Forbidden once any vote exists: committed votes froze their weights
// and the roster must stay consistent with them.
func (s *participantService) UpdateWeight(ctx context.Context, input ports.UpdateWeightInput) (*domain.PollParticipant, error) {
	participant, err := s.mutableParticipant(ctx, input.PollID, input.ParticipantID, input.ActorID)
	if err != nil {
		return nil, err
	}

	history, err := participant.SetWeight(input.NewWeight, input.ActorID, input.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.participants.UpdateWeight(ctx, participant, history); err != nil {
		return nil, fmt.Errorf("failed to update weight: %w", err)
	}
	return participant, nil
}

func (s *participantService) RemoveParticipant(ctx context.Context, pollID, participantID, actorID uuid.UUID) error {
	participant, err := s.mutableParticipant(ctx, pollID, participantID, actorID)
	if err != nil {
		return err
	}

	if err := s.participants.Delete(ctx, participant.ID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (s *participantService) WeightHistory(ctx context.Context, pollID, actorID uuid.UUID) ([]domain.ParticipantWeightHistory, error) {
	if _, err := s.requireManager(ctx, pollID, actorID); err != nil {
		return nil, err
	}

	history, err := s.participants.ListWeightHistory(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight history: %w", err)
	}
	return history, nil
}

// mutableParticipant loads the participant behind the roster-mutation
// gates: snapshot taken, no votes cast, caller has standing.
func (s *participantService) mutableParticipant(ctx context.Context, pollID, participantID, actorID uuid.UUID) (*domain.PollParticipant, error) {
	poll, err := s.requireManager(ctx, pollID, actorID)
	if err != nil {
		return nil, err
	}
	if !poll.ParticipantsSnapshotTaken {
		return nil, domain.ErrSnapshotNotTaken
	}

	hasVotes, err := s.votes.HasVotesForPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to check votes: %w", err)
	}
	if hasVotes {
		return nil, domain.ErrParticipantsHaveVotes
	}

	participant, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant.PollID != pollID {
		return nil, domain.ErrParticipantNotFound
	}
	return participant, nil
}

func (s *participantService) requireManager(ctx context.Context, pollID, actorID uuid.UUID) (*domain.Poll, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	ok, err := hasManagerStanding(ctx, s.membership, poll, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotAuthorized
	}
	return poll, nil
}
