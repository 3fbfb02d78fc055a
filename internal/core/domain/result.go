package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Voter is one entry of the per-answer voter breakdown.
type Voter struct {
	UserID uuid.UUID       `json:"user_id"`
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
}

type AnswerResult struct {
	AnswerID    uuid.UUID       `json:"answer_id"`
	Text        string          `json:"text"`
	Order       int             `json:"order"`
	VoteCount   int64           `json:"vote_count"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	Percentage  decimal.Decimal `json:"percentage"`
	Voters      []Voter         `json:"voters,omitempty"`
}

type QuestionResult struct {
	QuestionID uuid.UUID      `json:"question_id"`
	Text       string         `json:"text"`
	Page       int            `json:"page"`
	Order      int            `json:"order"`
	Type       QuestionType   `json:"type"`
	Answers    []AnswerResult `json:"answers"`
}

type PollResults struct {
	PollID                 uuid.UUID        `json:"poll_id"`
	TotalParticipantWeight decimal.Decimal  `json:"total_participant_weight"`
	CanViewVoters          bool             `json:"can_view_voters"`
	Questions              []QuestionResult `json:"questions"`
}

// Tally aggregates committed votes into per-question, per-answer counts,
// weights and percentages. Archived questions and answers are skipped
// entirely, even when historical votes reference them. The percentage
// denominator is the summed weight of all participants, voters or not;
// a zero denominator yields zero percentages.
func Tally(poll *Poll, participants []PollParticipant, votes []Vote, names map[uuid.UUID]string) *PollResults {
	totalWeight := decimal.Zero
	for _, p := range participants {
		totalWeight = totalWeight.Add(p.UserWeight)
	}

	byAnswer := make(map[uuid.UUID][]Vote)
	for _, v := range votes {
		byAnswer[v.AnswerID] = append(byAnswer[v.AnswerID], v)
	}

	results := &PollResults{
		PollID:                 poll.ID,
		TotalParticipantWeight: totalWeight,
	}

	questions := poll.LiveQuestions()
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Page != questions[j].Page {
			return questions[i].Page < questions[j].Page
		}
		return questions[i].Order < questions[j].Order
	})

	for _, q := range questions {
		qr := QuestionResult{
			QuestionID: q.ID,
			Text:       q.Text,
			Page:       q.Page,
			Order:      q.Order,
			Type:       q.Type,
		}

		answers := q.LiveAnswers()
		sort.SliceStable(answers, func(i, j int) bool {
			return answers[i].Order < answers[j].Order
		})

		for _, a := range answers {
			ar := AnswerResult{
				AnswerID:    a.ID,
				Text:        a.Text,
				Order:       a.Order,
				TotalWeight: decimal.Zero,
				Percentage:  decimal.Zero,
			}
			for _, v := range byAnswer[a.ID] {
				ar.VoteCount++
				ar.TotalWeight = ar.TotalWeight.Add(v.UserWeight)
				ar.Voters = append(ar.Voters, Voter{
					UserID: v.UserID,
					Name:   names[v.UserID],
					Weight: v.UserWeight,
				})
			}
			if totalWeight.IsPositive() {
				ar.Percentage = ar.TotalWeight.Div(totalWeight).Mul(oneHundred)
			}
			qr.Answers = append(qr.Answers, ar)
		}
		results.Questions = append(results.Questions, qr)
	}

	return results
}

// StripVoters removes the voter breakdown for callers without the
// voter-visibility privilege. The breakdown is always computed, never
// exposed unless authorized.
func (r *PollResults) StripVoters() {
	for qi := range r.Questions {
		for ai := range r.Questions[qi].Answers {
			r.Questions[qi].Answers[ai].Voters = nil
		}
	}
}
