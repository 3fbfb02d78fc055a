package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single"
	QuestionMultipleChoice QuestionType = "multiple"
)

type Question struct {
	ID         uuid.UUID    `json:"id"`
	PollID     uuid.UUID    `json:"poll_id"`
	Text       string       `json:"text"`
	Details    string       `json:"details,omitempty"`
	Page       int          `json:"page"`
	Order      int          `json:"order"`
	Type       QuestionType `json:"type"`
	ArchivedAt *time.Time   `json:"archived_at,omitempty"`
	Answers    []Answer     `json:"answers"`
}

func NewQuestion(pollID uuid.UUID, text, details string, page, order int, qType QuestionType) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > 1000 {
		return nil, ErrInvalidQuestion
	}
	if len(details) > 5000 {
		return nil, ErrInvalidDetails
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if order < 0 {
		return nil, ErrInvalidOrder
	}
	if qType != QuestionSingleChoice && qType != QuestionMultipleChoice {
		return nil, ErrInvalidType
	}
	return &Question{
		ID:      uuid.New(),
		PollID:  pollID,
		Text:    text,
		Details: details,
		Page:    page,
		Order:   order,
		Type:    qType,
	}, nil
}

// AddAnswer appends a validated answer. Archived questions are frozen.
func (q *Question) AddAnswer(text string, order int) (*Answer, error) {
	if q.ArchivedAt != nil {
		return nil, ErrQuestionArchived
	}
	a, err := NewAnswer(q.ID, text, order)
	if err != nil {
		return nil, err
	}
	q.Answers = append(q.Answers, *a)
	return a, nil
}

// Archive soft-deletes the question. Its answers are excluded from
// active views through the question, not archived one by one.
func (q *Question) Archive() error {
	if q.ArchivedAt != nil {
		return ErrQuestionArchived
	}
	now := time.Now()
	q.ArchivedAt = &now
	return nil
}

func (q *Question) LiveAnswers() []Answer {
	var live []Answer
	for _, a := range q.Answers {
		if a.ArchivedAt == nil {
			live = append(live, a)
		}
	}
	return live
}

// Answer returns the live answer with the given id.
func (q *Question) Answer(id uuid.UUID) (*Answer, error) {
	for i := range q.Answers {
		if q.Answers[i].ID == id && q.Answers[i].ArchivedAt == nil {
			return &q.Answers[i], nil
		}
	}
	return nil, ErrAnswerNotFound
}

type Answer struct {
	ID         uuid.UUID  `json:"id"`
	QuestionID uuid.UUID  `json:"question_id"`
	Text       string     `json:"text"`
	Order      int        `json:"order"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func NewAnswer(questionID uuid.UUID, text string, order int) (*Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > 1000 {
		return nil, ErrInvalidAnswer
	}
	if order < 0 {
		return nil, ErrInvalidOrder
	}
	return &Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		Text:       text,
		Order:      order,
	}, nil
}

func (a *Answer) Archive() {
	if a.ArchivedAt == nil {
		now := time.Now()
		a.ArchivedAt = &now
	}
}
