package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) participantOf(t *testing.T, pollID, userID uuid.UUID) *domain.PollParticipant {
	t.Helper()
	for _, p := range e.store.participants {
		if p.PollID == pollID && p.UserID == userID {
			return p
		}
	}
	t.Fatalf("no participant for user %s", userID)
	return nil
}

func TestListParticipantsEnrichesNames(t *testing.T) {
	env := newTestEnv(t)
	pollID, _, _, _ := env.activePoll(t)

	views, err := env.participants.ListParticipants(context.Background(), pollID, env.creator)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byUser := make(map[uuid.UUID]string, len(views))
	for _, v := range views {
		byUser[v.UserID] = v.Name
	}
	assert.Equal(t, "Ada", byUser[env.voterA])
	assert.Equal(t, "Grace", byUser[env.voterB])
}

func TestRosterRequiresManager(t *testing.T) {
	env := newTestEnv(t)
	pollID, _, _, _ := env.activePoll(t)

	_, err := env.participants.ListParticipants(context.Background(), pollID, env.voterA)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = env.participants.WeightHistory(context.Background(), pollID, env.voterA)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestUpdateWeightRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pollID, _, _, _ := env.activePoll(t)
	participant := env.participantOf(t, pollID, env.voterB)

	updated, err := env.participants.UpdateWeight(ctx, ports.UpdateWeightInput{
		PollID:        pollID,
		ParticipantID: participant.ID,
		NewWeight:     decimal.RequireFromString("2.5"),
		Reason:        "committee chair",
		ActorID:       env.creator,
	})
	require.NoError(t, err)
	assert.True(t, updated.UserWeight.Equal(decimal.RequireFromString("2.5")))

	history, err := env.participants.WeightHistory(ctx, pollID, env.creator)
	require.NoError(t, err)
	require.Len(t, history, 4) // three initial rows plus the change

	last := history[len(history)-1]
	assert.Equal(t, participant.ID, last.ParticipantID)
	assert.True(t, last.OldWeight.Equal(one()))
	assert.True(t, last.NewWeight.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "committee chair", last.Reason)
	assert.Equal(t, env.creator, last.ChangedBy)
}

func TestUpdateWeightRejectsNegative(t *testing.T) {
	env := newTestEnv(t)
	pollID, _, _, _ := env.activePoll(t)
	participant := env.participantOf(t, pollID, env.voterA)

	_, err := env.participants.UpdateWeight(context.Background(), ports.UpdateWeightInput{
		PollID:        pollID,
		ParticipantID: participant.ID,
		NewWeight:     decimal.NewFromInt(-1),
		ActorID:       env.creator,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
}

func TestUpdateWeightBlockedAfterVotes(t *testing.T) {
	env := newTestEnv(t)
	pollID, questionID, first, _ := env.activePoll(t)
	participant := env.participantOf(t, pollID, env.voterB)

	env.castBallot(t, pollID, questionID, first, env.voterA)

	_, err := env.participants.UpdateWeight(context.Background(), ports.UpdateWeightInput{
		PollID:        pollID,
		ParticipantID: participant.ID,
		NewWeight:     decimal.NewFromInt(2),
		ActorID:       env.creator,
	})
	assert.ErrorIs(t, err, domain.ErrParticipantsHaveVotes)
	assert.True(t, env.participantOf(t, pollID, env.voterB).UserWeight.Equal(one()))
}

func TestWeightUpdateRequiresSnapshot(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)

	_, err := env.participants.UpdateWeight(context.Background(), ports.UpdateWeightInput{
		PollID:        poll.ID,
		ParticipantID: uuid.New(),
		NewWeight:     decimal.NewFromInt(2),
		ActorID:       env.creator,
	})
	assert.ErrorIs(t, err, domain.ErrSnapshotNotTaken)
}

func TestRemoveParticipantKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pollID, _, _, _ := env.activePoll(t)
	participant := env.participantOf(t, pollID, env.voterC)

	require.NoError(t, env.participants.RemoveParticipant(ctx, pollID, participant.ID, env.creator))

	assert.Equal(t, 2, env.rosterSize(pollID))
	history, err := env.participants.WeightHistory(ctx, pollID, env.creator)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestRemoveParticipantBlockedAfterVotes(t *testing.T) {
	env := newTestEnv(t)
	pollID, questionID, first, _ := env.activePoll(t)
	participant := env.participantOf(t, pollID, env.voterC)

	env.castBallot(t, pollID, questionID, first, env.voterC)

	err := env.participants.RemoveParticipant(context.Background(), pollID, participant.ID, env.creator)
	assert.ErrorIs(t, err, domain.ErrParticipantsHaveVotes)
}

func TestParticipantMustBelongToPoll(t *testing.T) {
	env := newTestEnv(t)
	pollID, _, _, _ := env.activePoll(t)
	otherPollID, _, _, _ := env.activePoll(t)
	stray := env.participantOf(t, otherPollID, env.voterA)

	err := env.participants.RemoveParticipant(context.Background(), pollID, stray.ID, env.creator)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}
