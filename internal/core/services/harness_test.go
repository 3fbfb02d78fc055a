package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service over one shared memStore with a seeded
// organization: a poll creator, an org admin and three board members.
type testEnv struct {
	store *memStore

	polls        ports.PollService
	participants ports.ParticipantService
	votes        ports.VoteService
	results      ports.ResultService

	orgID   uuid.UUID
	boardID uuid.UUID
	creator uuid.UUID
	admin   uuid.UUID
	voterA  uuid.UUID
	voterB  uuid.UUID
	voterC  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	env := &testEnv{
		store:   store,
		orgID:   uuid.New(),
		boardID: uuid.New(),
		creator: uuid.New(),
		admin:   uuid.New(),
		voterA:  uuid.New(),
		voterB:  uuid.New(),
		voterC:  uuid.New(),
	}

	store.boardMembers[env.boardID] = []uuid.UUID{env.voterA, env.voterB, env.voterC}
	store.orgMembers[env.orgID] = []uuid.UUID{env.creator, env.voterA, env.voterB, env.voterC}
	store.admins[env.admin] = true
	store.names[env.voterA] = "Ada"
	store.names[env.voterB] = "Grace"
	store.names[env.voterC] = "Linus"

	pollRepo := fakePollRepo{store}
	participantRepo := fakeParticipantRepo{store}
	draftRepo := fakeDraftRepo{store}
	voteRepo := fakeVoteRepo{store}
	membership := fakeMembership{store}
	directory := fakeDirectory{store}

	env.polls = NewPollService(pollRepo, participantRepo, voteRepo, draftRepo, membership)
	env.participants = NewParticipantService(pollRepo, participantRepo, voteRepo, membership, directory)
	env.votes = NewVoteService(pollRepo, participantRepo, draftRepo, voteRepo)
	env.results = NewResultService(pollRepo, participantRepo, voteRepo, membership, directory)
	return env
}

func (e *testEnv) createPoll(t *testing.T) *domain.Poll {
	t.Helper()

	poll, err := e.polls.Create(context.Background(), ports.CreatePollInput{
		Title:          "Quarterly priorities",
		Description:    "Vote on the next quarter",
		BoardID:        e.boardID,
		OrgID:          e.orgID,
		Scope:          domain.ScopeBoard,
		StartDate:      time.Now(),
		EndDate:        time.Now().Add(72 * time.Hour),
		WeightCriteria: "equal",
		CreatedBy:      e.creator,
	})
	require.NoError(t, err)
	return poll
}

// addQuestion creates a question with two answers, returning the
// question and answer IDs.
func (e *testEnv) addQuestion(t *testing.T, pollID uuid.UUID, qType domain.QuestionType) (uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	question, err := e.polls.AddQuestion(ctx, ports.AddQuestionInput{
		PollID:  pollID,
		Text:    "Which option?",
		Page:    1,
		Order:   0,
		Type:    qType,
		ActorID: e.creator,
	})
	require.NoError(t, err)

	first, err := e.polls.AddAnswer(ctx, ports.AddAnswerInput{
		PollID: pollID, QuestionID: question.ID, Text: "Option one", Order: 0, ActorID: e.creator,
	})
	require.NoError(t, err)
	second, err := e.polls.AddAnswer(ctx, ports.AddAnswerInput{
		PollID: pollID, QuestionID: question.ID, Text: "Option two", Order: 1, ActorID: e.creator,
	})
	require.NoError(t, err)

	return question.ID, first.ID, second.ID
}

// activePoll builds a poll with one single-choice question and two
// answers and activates it, snapshotting the three board members.
func (e *testEnv) activePoll(t *testing.T) (uuid.UUID, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()

	poll := e.createPoll(t)
	questionID, first, second := e.addQuestion(t, poll.ID, domain.QuestionSingleChoice)
	require.NoError(t, e.polls.Activate(context.Background(), poll.ID, e.creator))
	return poll.ID, questionID, first, second
}

func (e *testEnv) draft(t *testing.T, pollID, questionID, answerID, userID uuid.UUID) {
	t.Helper()
	require.NoError(t, e.votes.SubmitDraft(context.Background(), ports.SubmitDraftInput{
		PollID:     pollID,
		QuestionID: questionID,
		AnswerID:   answerID,
		UserID:     userID,
	}))
}

func (e *testEnv) castBallot(t *testing.T, pollID, questionID, answerID, userID uuid.UUID) {
	t.Helper()
	e.draft(t, pollID, questionID, answerID, userID)
	require.NoError(t, e.votes.FinishVoting(context.Background(), pollID, userID))
}

func (e *testEnv) pollByID(t *testing.T, id uuid.UUID) *domain.Poll {
	t.Helper()
	poll, err := e.polls.GetPoll(context.Background(), id)
	require.NoError(t, err)
	return poll
}

func one() decimal.Decimal { return decimal.NewFromInt(1) }

func (e *testEnv) rosterSize(pollID uuid.UUID) int {
	n := 0
	for _, p := range e.store.participants {
		if p.PollID == pollID {
			n++
		}
	}
	return n
}
