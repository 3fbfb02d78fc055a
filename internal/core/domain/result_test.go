package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tallyFixture(t *testing.T) (*Poll, *Question) {
	t.Helper()
	poll := testPoll(t)
	q := addQuestionWithAnswers(t, poll, QuestionSingleChoice, 2)
	return poll, q
}

func snapshotOf(pollID uuid.UUID, n int) []PollParticipant {
	participants := make([]PollParticipant, 0, n)
	for i := 0; i < n; i++ {
		p, _ := NewSnapshotParticipant(pollID, uuid.New(), uuid.New())
		participants = append(participants, p)
	}
	return participants
}

func TestTallyWeightedPercentages(t *testing.T) {
	poll, q := tallyFixture(t)
	participants := snapshotOf(poll.ID, 3)

	voter := participants[0]
	vote := Vote{
		ID:         uuid.New(),
		QuestionID: q.ID,
		AnswerID:   q.Answers[0].ID,
		UserID:     voter.UserID,
		UserWeight: voter.UserWeight,
	}

	results := Tally(poll, participants, []Vote{vote}, map[uuid.UUID]string{voter.UserID: "Ada"})

	require.Len(t, results.Questions, 1)
	require.Len(t, results.Questions[0].Answers, 2)
	assert.True(t, results.TotalParticipantWeight.Equal(decimal.NewFromInt(3)))

	a1 := results.Questions[0].Answers[0]
	assert.Equal(t, int64(1), a1.VoteCount)
	assert.True(t, a1.TotalWeight.Equal(decimal.NewFromInt(1)))
	// 1 / 3 * 100 = 33.33...%
	expected := decimal.NewFromInt(1).Div(decimal.NewFromInt(3)).Mul(decimal.NewFromInt(100))
	assert.True(t, a1.Percentage.Equal(expected), "got %s", a1.Percentage)

	require.Len(t, a1.Voters, 1)
	assert.Equal(t, "Ada", a1.Voters[0].Name)
	assert.True(t, a1.Voters[0].Weight.Equal(decimal.NewFromInt(1)))

	a2 := results.Questions[0].Answers[1]
	assert.Equal(t, int64(0), a2.VoteCount)
	assert.True(t, a2.Percentage.IsZero())
}

func TestTallyDenominatorIsAllParticipantsNotVoters(t *testing.T) {
	poll, q := tallyFixture(t)
	participants := snapshotOf(poll.ID, 4)

	var votes []Vote
	for _, p := range participants[:2] {
		votes = append(votes, Vote{
			ID: uuid.New(), QuestionID: q.ID, AnswerID: q.Answers[0].ID,
			UserID: p.UserID, UserWeight: p.UserWeight,
		})
	}

	results := Tally(poll, participants, votes, nil)
	a1 := results.Questions[0].Answers[0]
	// 2 of 4 eligible weight: 50%, not 100%.
	assert.True(t, a1.Percentage.Equal(decimal.NewFromInt(50)), "got %s", a1.Percentage)
}

func TestTallyZeroDenominator(t *testing.T) {
	poll, _ := tallyFixture(t)

	results := Tally(poll, nil, nil, nil)
	assert.True(t, results.TotalParticipantWeight.IsZero())
	for _, qr := range results.Questions {
		for _, ar := range qr.Answers {
			assert.True(t, ar.Percentage.IsZero())
		}
	}
}

func TestTallySkipsArchived(t *testing.T) {
	poll := testPoll(t)
	addQuestionWithAnswers(t, poll, QuestionSingleChoice, 2)
	addQuestionWithAnswers(t, poll, QuestionSingleChoice, 2)

	archivedQ := &poll.Questions[0]
	liveQ := &poll.Questions[1]
	archivedVote := Vote{ID: uuid.New(), QuestionID: archivedQ.ID, AnswerID: archivedQ.Answers[0].ID, UserID: uuid.New(), UserWeight: decimal.NewFromInt(1)}
	require.NoError(t, archivedQ.Archive())

	liveQ.Answers[1].Archive()
	staleVote := Vote{ID: uuid.New(), QuestionID: liveQ.ID, AnswerID: liveQ.Answers[1].ID, UserID: uuid.New(), UserWeight: decimal.NewFromInt(1)}

	participants := snapshotOf(poll.ID, 2)
	results := Tally(poll, participants, []Vote{archivedVote, staleVote}, nil)

	// Archived question gone entirely; archived answer gone even though
	// a historical vote references it.
	require.Len(t, results.Questions, 1)
	assert.Equal(t, liveQ.ID, results.Questions[0].QuestionID)
	require.Len(t, results.Questions[0].Answers, 1)
	assert.Equal(t, liveQ.Answers[0].ID, results.Questions[0].Answers[0].AnswerID)
}

func TestTallyOrdering(t *testing.T) {
	poll := testPoll(t)

	q2, err := NewQuestion(poll.ID, "Second page", "", 2, 0, QuestionSingleChoice)
	require.NoError(t, err)
	_, err = q2.AddAnswer("A", 0)
	require.NoError(t, err)
	q1, err := NewQuestion(poll.ID, "First page", "", 1, 0, QuestionSingleChoice)
	require.NoError(t, err)
	_, err = q1.AddAnswer("A", 0)
	require.NoError(t, err)
	poll.Questions = append(poll.Questions, *q2, *q1)

	results := Tally(poll, nil, nil, nil)
	require.Len(t, results.Questions, 2)
	assert.Equal(t, "First page", results.Questions[0].Text)
	assert.Equal(t, "Second page", results.Questions[1].Text)
}

func TestStripVoters(t *testing.T) {
	poll, q := tallyFixture(t)
	participants := snapshotOf(poll.ID, 1)
	vote := Vote{ID: uuid.New(), QuestionID: q.ID, AnswerID: q.Answers[0].ID, UserID: participants[0].UserID, UserWeight: decimal.NewFromInt(1)}

	results := Tally(poll, participants, []Vote{vote}, nil)
	require.NotEmpty(t, results.Questions[0].Answers[0].Voters)

	results.StripVoters()
	for _, qr := range results.Questions {
		for _, ar := range qr.Answers {
			assert.Nil(t, ar.Voters)
		}
	}
}
