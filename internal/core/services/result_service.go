package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type resultService struct {
	polls        ports.PollRepository
	participants ports.ParticipantRepository
	votes        ports.VoteRepository
	membership   ports.MembershipProvider
	directory    ports.UserDirectory
}

func NewResultService(polls ports.PollRepository, participants ports.ParticipantRepository, votes ports.VoteRepository, membership ports.MembershipProvider, directory ports.UserDirectory) ports.ResultService {
	return &resultService{
		polls:        polls,
		participants: participants,
		votes:        votes,
		membership:   membership,
		directory:    directory,
	}
}

// Results computes the weighted tally. While the poll is still running
// only admins may look; once finished, any member of the organization.
// The voter breakdown is exposed to admins and superadmins only; the
// poll creator is deliberately excluded.
func (s *resultService) Results(ctx context.Context, pollID, callerID uuid.UUID) (*domain.PollResults, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	admin, err := isOrgAdmin(ctx, s.membership, callerID, poll.OrgID)
	if err != nil {
		return nil, err
	}

	if !poll.Finished {
		if !admin {
			return nil, domain.ErrNotAuthorized
		}
	} else if !admin {
		member, err := s.membership.IsOrgMember(ctx, callerID, poll.OrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !member {
			return nil, domain.ErrNotAuthorized
		}
	}

	participants, err := s.participants.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	votes, err := s.votes.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	voterIDs := make([]uuid.UUID, 0, len(votes))
	seen := make(map[uuid.UUID]struct{}, len(votes))
	for _, v := range votes {
		if _, ok := seen[v.UserID]; ok {
			continue
		}
		seen[v.UserID] = struct{}{}
		voterIDs = append(voterIDs, v.UserID)
	}
	names, err := s.directory.GetNames(ctx, voterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voter names: %w", err)
	}

	results := domain.Tally(poll, participants, votes, names)
	results.CanViewVoters = admin
	if !admin {
		results.StripVoters()
	}
	return results, nil
}
