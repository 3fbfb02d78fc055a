package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type voteService struct {
	polls        ports.PollRepository
	participants ports.ParticipantRepository
	drafts       ports.VoteDraftRepository
	votes        ports.VoteRepository
}

func NewVoteService(polls ports.PollRepository, participants ports.ParticipantRepository, drafts ports.VoteDraftRepository, votes ports.VoteRepository) ports.VoteService {
	return &voteService{
		polls:        polls,
		participants: participants,
		drafts:       drafts,
		votes:        votes,
	}
}

// SubmitDraft records, replaces or removes a provisional selection.
// Single-choice questions keep at most one draft per user; multiple-
// choice questions toggle per answer.
func (s *voteService) SubmitDraft(ctx context.Context, input ports.SubmitDraftInput) error {
	poll, _, err := s.eligibleVoter(ctx, input.PollID, input.UserID)
	if err != nil {
		return err
	}

	question, err := poll.Question(input.QuestionID)
	if err != nil {
		return err
	}
	if _, err := question.Answer(input.AnswerID); err != nil {
		return err
	}

	if input.ShouldRemove {
		if err := s.drafts.DeleteByAnswer(ctx, input.PollID, input.QuestionID, input.AnswerID, input.UserID); err != nil {
			return fmt.Errorf("failed to remove draft: %w", err)
		}
		return nil
	}

	if question.Type == domain.QuestionSingleChoice {
		if err := s.drafts.DeleteByQuestion(ctx, input.PollID, input.QuestionID, input.UserID); err != nil {
			return fmt.Errorf("failed to replace draft: %w", err)
		}
	}

	draft := domain.NewVoteDraft(input.PollID, input.QuestionID, input.AnswerID, input.UserID)
	if err := s.drafts.Save(ctx, draft); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *voteService) ListDrafts(ctx context.Context, pollID, userID uuid.UUID) ([]domain.VoteDraft, error) {
	if _, _, err := s.eligibleVoter(ctx, pollID, userID); err != nil {
		return nil, err
	}
	return s.drafts.ListByUser(ctx, pollID, userID)
}

// FinishVoting promotes the user's drafts to immutable votes. Every
// live question must be covered, single-choice questions by exactly
// one draft. Vote insert and draft cleanup happen in one transaction.
func (s *voteService) FinishVoting(ctx context.Context, pollID, userID uuid.UUID) error {
	poll, participant, err := s.eligibleVoter(ctx, pollID, userID)
	if err != nil {
		return err
	}

	drafts, err := s.drafts.ListByUser(ctx, pollID, userID)
	if err != nil {
		return fmt.Errorf("failed to load drafts: %w", err)
	}

	live := poll.LiveQuestions()
	liveByID := make(map[uuid.UUID]domain.Question, len(live))
	for _, q := range live {
		liveByID[q.ID] = q
	}

	perQuestion := make(map[uuid.UUID]int)
	votes := make([]domain.Vote, 0, len(drafts))
	for _, d := range drafts {
		q, ok := liveByID[d.QuestionID]
		if !ok {
			// Drafts for questions archived after selection are dropped.
			continue
		}
		perQuestion[d.QuestionID]++
		if q.Type == domain.QuestionSingleChoice && perQuestion[d.QuestionID] > 1 {
			return domain.ErrSingleChoiceMultipleAnswers
		}
		votes = append(votes, domain.VoteFromDraft(d, participant.UserWeight))
	}

	if len(perQuestion) != len(live) {
		return domain.ErrMustAnswerAllQuestions
	}

	if err := s.votes.CommitVotes(ctx, pollID, userID, votes); err != nil {
		return fmt.Errorf("failed to commit votes: %w", err)
	}
	return nil
}

// HasUserFinishedVoting is derived, not stored: the user has finished
// iff they hold a vote on every live question. A poll with no live
// questions has nothing to vote on, so nobody has finished it.
func (s *voteService) HasUserFinishedVoting(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return false, err
	}
	return s.hasFinishedVoting(ctx, poll, userID)
}

func (s *voteService) hasFinishedVoting(ctx context.Context, poll *domain.Poll, userID uuid.UUID) (bool, error) {
	total := len(poll.LiveQuestions())
	if total == 0 {
		return false, nil
	}

	voted, err := s.votes.CountDistinctVotedQuestions(ctx, poll.ID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count voted questions: %w", err)
	}
	return voted == total, nil
}

// eligibleVoter enforces the draft-operation gates: active poll, caller
// on the frozen roster, ballot not yet committed.
func (s *voteService) eligibleVoter(ctx context.Context, pollID, userID uuid.UUID) (*domain.Poll, *domain.PollParticipant, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, nil, err
	}
	if poll.Finished {
		return nil, nil, domain.ErrPollFinished
	}
	if !poll.Active {
		return nil, nil, domain.ErrPollNotActive
	}

	participant, err := s.participants.GetByPollAndUser(ctx, pollID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return nil, nil, domain.ErrNotParticipant
		}
		return nil, nil, err
	}

	finished, err := s.hasFinishedVoting(ctx, poll, userID)
	if err != nil {
		return nil, nil, err
	}
	if finished {
		return nil, nil, domain.ErrAlreadyVoted
	}
	return poll, participant, nil
}
