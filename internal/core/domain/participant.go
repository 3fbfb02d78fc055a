package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PollParticipant is one row of the frozen voter roster. Rows exist only
// as part of the one-shot snapshot; they are never created individually.
type PollParticipant struct {
	ID         uuid.UUID       `json:"id"`
	PollID     uuid.UUID       `json:"poll_id"`
	UserID     uuid.UUID       `json:"user_id"`
	UserWeight decimal.Decimal `json:"user_weight"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewSnapshotParticipant builds a participant at the initial weight of 1
// together with its mandatory first history record (old weight 0).
func NewSnapshotParticipant(pollID, userID, changedBy uuid.UUID) (PollParticipant, ParticipantWeightHistory) {
	now := time.Now()
	p := PollParticipant{
		ID:         uuid.New(),
		PollID:     pollID,
		UserID:     userID,
		UserWeight: decimal.NewFromInt(1),
		CreatedAt:  now,
	}
	h := ParticipantWeightHistory{
		ID:            uuid.New(),
		ParticipantID: p.ID,
		PollID:        pollID,
		UserID:        userID,
		OldWeight:     decimal.Zero,
		NewWeight:     p.UserWeight,
		ChangedBy:     changedBy,
		Reason:        "initial snapshot",
		CreatedAt:     now,
	}
	return p, h
}

// SetWeight updates the weight and returns the paired audit record with
// the old weight captured immediately before the change.
func (p *PollParticipant) SetWeight(newWeight decimal.Decimal, changedBy uuid.UUID, reason string) (ParticipantWeightHistory, error) {
	if newWeight.IsNegative() {
		return ParticipantWeightHistory{}, ErrInvalidWeight
	}
	h := ParticipantWeightHistory{
		ID:            uuid.New(),
		ParticipantID: p.ID,
		PollID:        p.PollID,
		UserID:        p.UserID,
		OldWeight:     p.UserWeight,
		NewWeight:     newWeight,
		ChangedBy:     changedBy,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	p.UserWeight = newWeight
	return h, nil
}

// ParticipantWeightHistory is append-only: records are never updated or
// deleted, one per weight mutation including the snapshot assignment.
type ParticipantWeightHistory struct {
	ID            uuid.UUID       `json:"id"`
	ParticipantID uuid.UUID       `json:"participant_id"`
	PollID        uuid.UUID       `json:"poll_id"`
	UserID        uuid.UUID       `json:"user_id"`
	OldWeight     decimal.Decimal `json:"old_weight"`
	NewWeight     decimal.Decimal `json:"new_weight"`
	ChangedBy     uuid.UUID       `json:"changed_by"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
