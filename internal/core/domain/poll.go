package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PollScope selects the membership source for the participant snapshot.
type PollScope string

const (
	ScopeBoard        PollScope = "board"
	ScopeOrganization PollScope = "organization"
)

// PollState is the lifecycle position of a poll, derived from its
// persisted flags. Transitions go Draft -> Ready -> Active -> Finished,
// with Ready <-> Active allowed until the poll finishes.
type PollState string

const (
	StateDraft    PollState = "draft"
	StateReady    PollState = "ready"
	StateActive   PollState = "active"
	StateFinished PollState = "finished"
)

type Poll struct {
	ID                        uuid.UUID  `json:"id"`
	Title                     string     `json:"title"`
	Description               string     `json:"description"`
	BoardID                   uuid.UUID  `json:"board_id"`
	OrgID                     uuid.UUID  `json:"org_id"`
	Scope                     PollScope  `json:"scope"`
	StartDate                 time.Time  `json:"start_date"`
	EndDate                   time.Time  `json:"end_date"`
	Active                    bool       `json:"active"`
	Finished                  bool       `json:"finished"`
	ParticipantsSnapshotTaken bool       `json:"participants_snapshot_taken"`
	WeightCriteria            string     `json:"weight_criteria,omitempty"`
	CreatedBy                 uuid.UUID  `json:"created_by"`
	CreatedAt                 time.Time  `json:"created_at"`
	ArchivedAt                *time.Time `json:"archived_at,omitempty"`
	Questions                 []Question `json:"questions"`
}

// NewPoll validates input and builds a draft poll.
func NewPoll(title, description string, boardID, orgID uuid.UUID, scope PollScope, start, end time.Time, weightCriteria string, createdBy uuid.UUID) (*Poll, error) {
	p := &Poll{
		ID:             uuid.New(),
		BoardID:        boardID,
		OrgID:          orgID,
		Scope:          scope,
		WeightCriteria: weightCriteria,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}
	if err := p.SetTitle(title); err != nil {
		return nil, err
	}
	if err := p.SetDescription(description); err != nil {
		return nil, err
	}
	if err := p.SetDates(start, end); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Poll) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 500 {
		return ErrInvalidTitle
	}
	p.Title = title
	return nil
}

func (p *Poll) SetDescription(description string) error {
	if description == "" || len(description) > 5000 {
		return ErrInvalidDescription
	}
	p.Description = description
	return nil
}

func (p *Poll) SetDates(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidDateRange
	}
	p.StartDate = start
	p.EndDate = end
	return nil
}

// State derives the lifecycle position from the persisted flags.
// Finished wins over active so the finished => not-active invariant
// holds even against inconsistent storage.
func (p *Poll) State() PollState {
	switch {
	case p.Finished:
		return StateFinished
	case p.Active:
		return StateActive
	case p.ParticipantsSnapshotTaken:
		return StateReady
	default:
		return StateDraft
	}
}

// CanEdit reports whether structural mutation is allowed. Vote existence
// is owned by the vote store, so the caller supplies it.
func (p *Poll) CanEdit(hasVotes bool) bool {
	return !p.Active && !p.Finished && !hasVotes
}

// Activate moves the poll to the active state. The participant snapshot
// is the caller's concern; this only checks structural readiness.
func (p *Poll) Activate() error {
	if p.Finished {
		return ErrPollCannotActivateFinished
	}
	if p.Active {
		return ErrPollAlreadyActive
	}
	live := p.LiveQuestions()
	if len(live) == 0 {
		return ErrPollNoQuestions
	}
	for _, q := range live {
		if len(q.LiveAnswers()) == 0 {
			return ErrPollQuestionNoAnswers
		}
	}
	p.Active = true
	return nil
}

func (p *Poll) Deactivate() error {
	if p.Finished {
		return ErrPollFinished
	}
	if !p.Active {
		return ErrPollNotActive
	}
	p.Active = false
	return nil
}

// Finish is terminal: the poll can never be activated or edited again.
func (p *Poll) Finish() error {
	if p.Finished {
		return ErrPollAlreadyFinished
	}
	if !p.Active {
		return ErrPollNotActive
	}
	p.Finished = true
	p.Active = false
	return nil
}

// MarkSnapshotTaken flips the one-shot snapshot flag. It can never be
// flipped twice; re-activation cycles must not re-derive membership.
func (p *Poll) MarkSnapshotTaken() error {
	if p.ParticipantsSnapshotTaken {
		return ErrSnapshotAlreadyTaken
	}
	p.ParticipantsSnapshotTaken = true
	return nil
}

// ClearSnapshot reverses Ready back to Draft. Vote checks happen in the
// service; a poll that is active or finished never reaches here.
func (p *Poll) ClearSnapshot() error {
	if !p.ParticipantsSnapshotTaken {
		return ErrSnapshotNotTaken
	}
	if p.Active {
		return ErrPollAlreadyActive
	}
	if p.Finished {
		return ErrPollFinished
	}
	p.ParticipantsSnapshotTaken = false
	return nil
}

// Archive is a one-way lock, orthogonal to the lifecycle state.
func (p *Poll) Archive() error {
	if p.ArchivedAt != nil {
		return ErrPollAlreadyArchived
	}
	now := time.Now()
	p.ArchivedAt = &now
	return nil
}

// LiveQuestions returns the non-archived questions.
func (p *Poll) LiveQuestions() []Question {
	var live []Question
	for _, q := range p.Questions {
		if q.ArchivedAt == nil {
			live = append(live, q)
		}
	}
	return live
}

// Question returns the live question with the given id.
func (p *Poll) Question(id uuid.UUID) (*Question, error) {
	for i := range p.Questions {
		if p.Questions[i].ID == id && p.Questions[i].ArchivedAt == nil {
			return &p.Questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}
