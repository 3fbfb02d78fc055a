package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
)

// memStore holds the shared in-memory state; the per-port fakes below
// wrap it so one seeded store backs every repository the services need.
// Transactional batch operations apply the same all-or-nothing way the
// postgres adapters do.
type memStore struct {
	polls        map[uuid.UUID]*domain.Poll
	participants map[uuid.UUID]*domain.PollParticipant
	history      []domain.ParticipantWeightHistory
	drafts       []domain.VoteDraft
	votes        map[uuid.UUID][]domain.Vote // keyed by poll ID

	boardMembers map[uuid.UUID][]uuid.UUID
	orgMembers   map[uuid.UUID][]uuid.UUID
	admins       map[uuid.UUID]bool
	superadmins  map[uuid.UUID]bool
	names        map[uuid.UUID]string
}

func newMemStore() *memStore {
	return &memStore{
		polls:        make(map[uuid.UUID]*domain.Poll),
		participants: make(map[uuid.UUID]*domain.PollParticipant),
		votes:        make(map[uuid.UUID][]domain.Vote),
		boardMembers: make(map[uuid.UUID][]uuid.UUID),
		orgMembers:   make(map[uuid.UUID][]uuid.UUID),
		admins:       make(map[uuid.UUID]bool),
		superadmins:  make(map[uuid.UUID]bool),
		names:        make(map[uuid.UUID]string),
	}
}

func clonePoll(p *domain.Poll) *domain.Poll {
	c := *p
	c.Questions = make([]domain.Question, len(p.Questions))
	for i, q := range p.Questions {
		c.Questions[i] = q
		c.Questions[i].Answers = append([]domain.Answer(nil), q.Answers...)
	}
	return &c
}

func (s *memStore) deleteDrafts(match func(domain.VoteDraft) bool) {
	kept := s.drafts[:0]
	for _, d := range s.drafts {
		if !match(d) {
			kept = append(kept, d)
		}
	}
	s.drafts = kept
}

func (s *memStore) storePoll(poll *domain.Poll) error {
	s.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (s *memStore) updatePollRow(poll *domain.Poll) error {
	stored, ok := s.polls[poll.ID]
	if !ok {
		return domain.ErrPollNotFound
	}
	updated := clonePoll(poll)
	updated.Questions = stored.Questions
	s.polls[poll.ID] = updated
	return nil
}

type fakePollRepo struct{ s *memStore }

func (r fakePollRepo) Save(_ context.Context, poll *domain.Poll) error {
	return r.s.storePoll(poll)
}

func (r fakePollRepo) Update(_ context.Context, poll *domain.Poll) error {
	return r.s.updatePollRow(poll)
}

func (r fakePollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, ok := r.s.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (r fakePollRepo) ListByBoard(_ context.Context, boardID uuid.UUID) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for _, p := range r.s.polls {
		if p.BoardID == boardID && p.ArchivedAt == nil {
			polls = append(polls, clonePoll(p))
		}
	}
	return polls, nil
}

func (r fakePollRepo) SaveQuestion(_ context.Context, question *domain.Question) error {
	poll, ok := r.s.polls[question.PollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Questions = append(poll.Questions, *question)
	return nil
}

func (r fakePollRepo) UpdateQuestion(_ context.Context, question *domain.Question) error {
	poll, ok := r.s.polls[question.PollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	for i := range poll.Questions {
		if poll.Questions[i].ID == question.ID {
			answers := poll.Questions[i].Answers
			poll.Questions[i] = *question
			poll.Questions[i].Answers = answers
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

func (r fakePollRepo) SaveAnswer(_ context.Context, answer *domain.Answer) error {
	for _, poll := range r.s.polls {
		for i := range poll.Questions {
			if poll.Questions[i].ID == answer.QuestionID {
				poll.Questions[i].Answers = append(poll.Questions[i].Answers, *answer)
				return nil
			}
		}
	}
	return domain.ErrQuestionNotFound
}

func (r fakePollRepo) UpdateAnswer(_ context.Context, answer *domain.Answer) error {
	for _, poll := range r.s.polls {
		for i := range poll.Questions {
			if poll.Questions[i].ID != answer.QuestionID {
				continue
			}
			for j := range poll.Questions[i].Answers {
				if poll.Questions[i].Answers[j].ID == answer.ID {
					poll.Questions[i].Answers[j] = *answer
					return nil
				}
			}
		}
	}
	return domain.ErrAnswerNotFound
}

type fakeParticipantRepo struct{ s *memStore }

func (r fakeParticipantRepo) ExecuteActivation(_ context.Context, poll *domain.Poll, participants []domain.PollParticipant, history []domain.ParticipantWeightHistory) error {
	if err := r.s.updatePollRow(poll); err != nil {
		return err
	}
	for i := range participants {
		p := participants[i]
		r.s.participants[p.ID] = &p
	}
	r.s.history = append(r.s.history, history...)
	return nil
}

func (r fakeParticipantRepo) DiscardSnapshot(_ context.Context, poll *domain.Poll) error {
	if err := r.s.updatePollRow(poll); err != nil {
		return err
	}
	for id, p := range r.s.participants {
		if p.PollID == poll.ID {
			delete(r.s.participants, id)
		}
	}
	return nil
}

func (r fakeParticipantRepo) GetByPollAndUser(_ context.Context, pollID, userID uuid.UUID) (*domain.PollParticipant, error) {
	for _, p := range r.s.participants {
		if p.PollID == pollID && p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

func (r fakeParticipantRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PollParticipant, error) {
	p, ok := r.s.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	c := *p
	return &c, nil
}

func (r fakeParticipantRepo) ListByPoll(_ context.Context, pollID uuid.UUID) ([]domain.PollParticipant, error) {
	var participants []domain.PollParticipant
	for _, p := range r.s.participants {
		if p.PollID == pollID {
			participants = append(participants, *p)
		}
	}
	return participants, nil
}

func (r fakeParticipantRepo) UpdateWeight(_ context.Context, participant *domain.PollParticipant, history domain.ParticipantWeightHistory) error {
	stored, ok := r.s.participants[participant.ID]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	stored.UserWeight = participant.UserWeight
	r.s.history = append(r.s.history, history)
	return nil
}

func (r fakeParticipantRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.participants, id)
	return nil
}

func (r fakeParticipantRepo) ListWeightHistory(_ context.Context, pollID uuid.UUID) ([]domain.ParticipantWeightHistory, error) {
	var history []domain.ParticipantWeightHistory
	for _, h := range r.s.history {
		if h.PollID == pollID {
			history = append(history, h)
		}
	}
	return history, nil
}

type fakeDraftRepo struct{ s *memStore }

func (r fakeDraftRepo) Save(_ context.Context, draft *domain.VoteDraft) error {
	for _, d := range r.s.drafts {
		if d.QuestionID == draft.QuestionID && d.AnswerID == draft.AnswerID && d.UserID == draft.UserID {
			return nil
		}
	}
	r.s.drafts = append(r.s.drafts, *draft)
	return nil
}

func (r fakeDraftRepo) ListByUser(_ context.Context, pollID, userID uuid.UUID) ([]domain.VoteDraft, error) {
	var drafts []domain.VoteDraft
	for _, d := range r.s.drafts {
		if d.PollID == pollID && d.UserID == userID {
			drafts = append(drafts, d)
		}
	}
	return drafts, nil
}

func (r fakeDraftRepo) DeleteByQuestion(_ context.Context, pollID, questionID, userID uuid.UUID) error {
	r.s.deleteDrafts(func(d domain.VoteDraft) bool {
		return d.PollID == pollID && d.QuestionID == questionID && d.UserID == userID
	})
	return nil
}

func (r fakeDraftRepo) DeleteByAnswer(_ context.Context, pollID, questionID, answerID, userID uuid.UUID) error {
	r.s.deleteDrafts(func(d domain.VoteDraft) bool {
		return d.PollID == pollID && d.QuestionID == questionID && d.AnswerID == answerID && d.UserID == userID
	})
	return nil
}

func (r fakeDraftRepo) DeleteByPoll(_ context.Context, pollID uuid.UUID) error {
	r.s.deleteDrafts(func(d domain.VoteDraft) bool { return d.PollID == pollID })
	return nil
}

type fakeVoteRepo struct{ s *memStore }

func (r fakeVoteRepo) CommitVotes(_ context.Context, pollID, userID uuid.UUID, votes []domain.Vote) error {
	for _, v := range votes {
		for _, existing := range r.s.votes[pollID] {
			if existing.QuestionID == v.QuestionID && existing.AnswerID == v.AnswerID && existing.UserID == v.UserID {
				return domain.ErrAlreadyVoted
			}
		}
	}
	r.s.votes[pollID] = append(r.s.votes[pollID], votes...)
	r.s.deleteDrafts(func(d domain.VoteDraft) bool {
		return d.PollID == pollID && d.UserID == userID
	})
	return nil
}

func (r fakeVoteRepo) ListByPoll(_ context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	return append([]domain.Vote(nil), r.s.votes[pollID]...), nil
}

func (r fakeVoteRepo) ListByUser(_ context.Context, pollID, userID uuid.UUID) ([]domain.Vote, error) {
	var votes []domain.Vote
	for _, v := range r.s.votes[pollID] {
		if v.UserID == userID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (r fakeVoteRepo) CountDistinctVotedQuestions(_ context.Context, pollID, userID uuid.UUID) (int, error) {
	poll, ok := r.s.polls[pollID]
	if !ok {
		return 0, domain.ErrPollNotFound
	}
	live := make(map[uuid.UUID]struct{})
	for _, q := range poll.LiveQuestions() {
		live[q.ID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{})
	for _, v := range r.s.votes[pollID] {
		if v.UserID != userID {
			continue
		}
		if _, ok := live[v.QuestionID]; ok {
			seen[v.QuestionID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r fakeVoteRepo) HasVotesForPoll(_ context.Context, pollID uuid.UUID) (bool, error) {
	return len(r.s.votes[pollID]) > 0, nil
}

type fakeMembership struct{ s *memStore }

func (m fakeMembership) FindBoardMembers(_ context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	return m.s.boardMembers[boardID], nil
}

func (m fakeMembership) FindOrgMemberUserIDs(_ context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	return m.s.orgMembers[orgID], nil
}

func (m fakeMembership) IsOrgMember(_ context.Context, userID, orgID uuid.UUID) (bool, error) {
	for _, id := range m.s.orgMembers[orgID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m fakeMembership) IsUserAdmin(_ context.Context, userID, _ uuid.UUID) (bool, error) {
	return m.s.admins[userID], nil
}

func (m fakeMembership) IsSuperAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	return m.s.superadmins[userID], nil
}

type fakeDirectory struct{ s *memStore }

func (d fakeDirectory) GetNames(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(userIDs))
	for _, id := range userIDs {
		if name, ok := d.s.names[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}
