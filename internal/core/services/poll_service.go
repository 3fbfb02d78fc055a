package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type pollService struct {
	polls        ports.PollRepository
	participants ports.ParticipantRepository
	votes        ports.VoteRepository
	drafts       ports.VoteDraftRepository
	membership   ports.MembershipProvider
}

func NewPollService(polls ports.PollRepository, participants ports.ParticipantRepository, votes ports.VoteRepository, drafts ports.VoteDraftRepository, membership ports.MembershipProvider) ports.PollService {
	return &pollService{
		polls:        polls,
		participants: participants,
		votes:        votes,
		drafts:       drafts,
		membership:   membership,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	poll, err := domain.NewPoll(input.Title, input.Description, input.BoardID, input.OrgID, input.Scope, input.StartDate, input.EndDate, input.WeightCriteria, input.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := s.polls.Save(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to save poll: %w", err)
	}
	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return s.polls.GetByID(ctx, id)
}

func (s *pollService) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Poll, error) {
	return s.polls.ListByBoard(ctx, boardID)
}

func (s *pollService) Update(ctx context.Context, input ports.UpdatePollInput) (*domain.Poll, error) {
	poll, err := s.editablePoll(ctx, input.PollID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := poll.SetTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := poll.SetDescription(*input.Description); err != nil {
			return nil, err
		}
	}
	if input.StartDate != nil || input.EndDate != nil {
		start, end := poll.StartDate, poll.EndDate
		if input.StartDate != nil {
			start = *input.StartDate
		}
		if input.EndDate != nil {
			end = *input.EndDate
		}
		if err := poll.SetDates(start, end); err != nil {
			return nil, err
		}
	}

	if err := s.polls.Update(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to update poll: %w", err)
	}
	return poll, nil
}

func (s *pollService) AddQuestion(ctx context.Context, input ports.AddQuestionInput) (*domain.Question, error) {
	poll, err := s.editablePoll(ctx, input.PollID, input.ActorID)
	if err != nil {
		return nil, err
	}

	question, err := domain.NewQuestion(poll.ID, input.Text, input.Details, input.Page, input.Order, input.Type)
	if err != nil {
		return nil, err
	}

	if err := s.polls.SaveQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to save question: %w", err)
	}
	return question, nil
}

func (s *pollService) ArchiveQuestion(ctx context.Context, pollID, questionID, actorID uuid.UUID) error {
	poll, err := s.editablePoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	question, err := poll.Question(questionID)
	if err != nil {
		return err
	}
	if err := question.Archive(); err != nil {
		return err
	}

	if err := s.polls.UpdateQuestion(ctx, question); err != nil {
		return fmt.Errorf("failed to archive question: %w", err)
	}
	return nil
}

func (s *pollService) AddAnswer(ctx context.Context, input ports.AddAnswerInput) (*domain.Answer, error) {
	poll, err := s.editablePoll(ctx, input.PollID, input.ActorID)
	if err != nil {
		return nil, err
	}

	question, err := poll.Question(input.QuestionID)
	if err != nil {
		return nil, err
	}
	answer, err := question.AddAnswer(input.Text, input.Order)
	if err != nil {
		return nil, err
	}

	if err := s.polls.SaveAnswer(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}
	return answer, nil
}

func (s *pollService) ArchiveAnswer(ctx context.Context, pollID, questionID, answerID, actorID uuid.UUID) error {
	poll, err := s.editablePoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	question, err := poll.Question(questionID)
	if err != nil {
		return err
	}
	answer, err := question.Answer(answerID)
	if err != nil {
		return err
	}
	answer.Archive()

	if err := s.polls.UpdateAnswer(ctx, answer); err != nil {
		return fmt.Errorf("failed to archive answer: %w", err)
	}
	return nil
}

// TakeSnapshot freezes the voter roster ahead of activation, moving the
// poll from draft to ready.
func (s *pollService) TakeSnapshot(ctx context.Context, pollID, actorID uuid.UUID) error {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}
	if poll.Finished {
		return domain.ErrPollFinished
	}
	if poll.Active {
		return domain.ErrPollAlreadyActive
	}

	return s.snapshotAndPersist(ctx, poll, actorID)
}

func (s *pollService) Activate(ctx context.Context, pollID, actorID uuid.UUID) error {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	if err := poll.Activate(); err != nil {
		return err
	}

	// First activation takes the snapshot; later cycles must not.
	if !poll.ParticipantsSnapshotTaken {
		return s.snapshotAndPersist(ctx, poll, actorID)
	}

	if err := s.polls.Update(ctx, poll); err != nil {
		return fmt.Errorf("failed to activate poll: %w", err)
	}
	return nil
}

func (s *pollService) Deactivate(ctx context.Context, pollID, actorID uuid.UUID) error {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	if err := poll.Deactivate(); err != nil {
		return err
	}

	if err := s.polls.Update(ctx, poll); err != nil {
		return fmt.Errorf("failed to deactivate poll: %w", err)
	}
	return nil
}

func (s *pollService) Finish(ctx context.Context, pollID, actorID uuid.UUID) error {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	if err := poll.Finish(); err != nil {
		return err
	}

	if err := s.polls.Update(ctx, poll); err != nil {
		return fmt.Errorf("failed to finish poll: %w", err)
	}

	// Outstanding drafts are dead weight once the poll is finished.
	// Cleanup is best-effort: the transition itself already succeeded.
	if err := s.drafts.DeleteByPoll(ctx, pollID); err != nil {
		slog.Warn("failed to clean up drafts for finished poll", "poll_id", pollID, "error", err)
	}
	return nil
}

func (s *pollService) Archive(ctx context.Context, pollID, actorID uuid.UUID) error {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	if err := poll.Archive(); err != nil {
		return err
	}

	if err := s.polls.Update(ctx, poll); err != nil {
		return fmt.Errorf("failed to archive poll: %w", err)
	}
	return nil
}

// DiscardSnapshot reverses ready back to draft so membership can be
// re-derived later. Forbidden once any vote exists.
func (s *pollService) DiscardSnapshot(ctx context.Context, pollID, actorID uuid.UUID) error {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return err
	}

	hasVotes, err := s.votes.HasVotesForPoll(ctx, pollID)
	if err != nil {
		return fmt.Errorf("failed to check votes: %w", err)
	}
	if hasVotes {
		return domain.ErrSnapshotHasVotes
	}

	if err := poll.ClearSnapshot(); err != nil {
		return err
	}

	if err := s.participants.DiscardSnapshot(ctx, poll); err != nil {
		return fmt.Errorf("failed to discard snapshot: %w", err)
	}
	return nil
}

// snapshotAndPersist materializes the roster and writes the poll,
// participants and initial history as one atomic activation.
func (s *pollService) snapshotAndPersist(ctx context.Context, poll *domain.Poll, actorID uuid.UUID) error {
	userIDs, err := s.snapshotMembers(ctx, poll)
	if err != nil {
		return err
	}

	if err := poll.MarkSnapshotTaken(); err != nil {
		return err
	}

	participants := make([]domain.PollParticipant, 0, len(userIDs))
	history := make([]domain.ParticipantWeightHistory, 0, len(userIDs))
	for _, userID := range userIDs {
		p, h := domain.NewSnapshotParticipant(poll.ID, userID, actorID)
		participants = append(participants, p)
		history = append(history, h)
	}

	if err := s.participants.ExecuteActivation(ctx, poll, participants, history); err != nil {
		return fmt.Errorf("failed to execute activation: %w", err)
	}
	return nil
}

func (s *pollService) snapshotMembers(ctx context.Context, poll *domain.Poll) ([]uuid.UUID, error) {
	var (
		userIDs []uuid.UUID
		err     error
	)
	switch poll.Scope {
	case domain.ScopeOrganization:
		userIDs, err = s.membership.FindOrgMemberUserIDs(ctx, poll.OrgID)
	default:
		userIDs, err = s.membership.FindBoardMembers(ctx, poll.BoardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve poll members: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	unique := userIDs[:0]
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

// editablePoll loads the poll and enforces the structural-mutation gate:
// not active, not finished, no votes cast.
func (s *pollService) editablePoll(ctx context.Context, pollID, actorID uuid.UUID) (*domain.Poll, error) {
	poll, err := s.managedPoll(ctx, pollID, actorID)
	if err != nil {
		return nil, err
	}

	hasVotes, err := s.votes.HasVotesForPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to check votes: %w", err)
	}
	if !poll.CanEdit(hasVotes) {
		return nil, domain.ErrPollNotEditable
	}
	return poll, nil
}

// managedPoll loads the poll and checks management standing: creator,
// organization admin, or superadmin.
func (s *pollService) managedPoll(ctx context.Context, pollID, actorID uuid.UUID) (*domain.Poll, error) {
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
