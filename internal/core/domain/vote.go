package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoteDraft is a participant's provisional selection. Drafts are scratch
// space: freely replaced or removed while the poll is active, consumed
// when the user finishes voting, never read afterwards.
type VoteDraft struct {
	ID         uuid.UUID `json:"id"`
	PollID     uuid.UUID `json:"poll_id"`
	QuestionID uuid.UUID `json:"question_id"`
	AnswerID   uuid.UUID `json:"answer_id"`
	UserID     uuid.UUID `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewVoteDraft(pollID, questionID, answerID, userID uuid.UUID) *VoteDraft {
	now := time.Now()
	return &VoteDraft{
		ID:         uuid.New(),
		PollID:     pollID,
		QuestionID: questionID,
		AnswerID:   answerID,
		UserID:     userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Vote is the committed, immutable ballot record. UserWeight is copied
// from the participant at commit time and never re-read.
type Vote struct {
	ID         uuid.UUID       `json:"id"`
	QuestionID uuid.UUID       `json:"question_id"`
	AnswerID   uuid.UUID       `json:"answer_id"`
	UserID     uuid.UUID       `json:"user_id"`
	UserWeight decimal.Decimal `json:"user_weight"`
	CreatedAt  time.Time       `json:"created_at"`
}

// VoteFromDraft promotes a draft to a vote at the given frozen weight.
func VoteFromDraft(d VoteDraft, weight decimal.Decimal) Vote {
	return Vote{
		ID:         uuid.New(),
		QuestionID: d.QuestionID,
		AnswerID:   d.AnswerID,
		UserID:     d.UserID,
		UserWeight: weight,
		CreatedAt:  time.Now(),
	}
}
