package domain

// Error is a domain failure with a stable machine-readable code. Codes are
// the contract consumed by API clients for localization; messages are for
// logs and are not translated.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation errors.
var (
	ErrInvalidTitle       = &Error{Code: "domain.poll.invalidTitle", Message: "poll title must be between 1 and 500 characters"}
	ErrInvalidDescription = &Error{Code: "domain.poll.invalidDescription", Message: "poll description must be between 1 and 5000 characters"}
	ErrInvalidDateRange   = &Error{Code: "domain.poll.invalidDateRange", Message: "poll start date must be before end date"}
	ErrInvalidQuestion    = &Error{Code: "domain.question.invalidText", Message: "question text must be between 1 and 1000 characters"}
	ErrInvalidDetails     = &Error{Code: "domain.question.invalidDetails", Message: "question details must be at most 5000 characters"}
	ErrInvalidPage        = &Error{Code: "domain.question.invalidPage", Message: "question page must be at least 1"}
	ErrInvalidOrder       = &Error{Code: "domain.question.invalidOrder", Message: "order must not be negative"}
	ErrInvalidType        = &Error{Code: "domain.question.invalidType", Message: "question type must be single or multiple"}
	ErrInvalidAnswer      = &Error{Code: "domain.answer.invalidText", Message: "answer text must be between 1 and 1000 characters"}
	ErrInvalidWeight      = &Error{Code: "domain.poll.invalidWeight", Message: "participant weight must not be negative"}
)

// Lifecycle state-guard errors.
var (
	ErrPollAlreadyActive          = &Error{Code: "domain.poll.alreadyActive", Message: "poll is already active"}
	ErrPollNotActive              = &Error{Code: "domain.poll.notActive", Message: "poll is not active"}
	ErrPollAlreadyFinished        = &Error{Code: "domain.poll.alreadyFinished", Message: "poll is already finished"}
	ErrPollFinished               = &Error{Code: "domain.poll.finished", Message: "poll is finished"}
	ErrPollCannotActivateFinished = &Error{Code: "domain.poll.cannotActivateFinished", Message: "a finished poll cannot be activated"}
	ErrPollNoQuestions            = &Error{Code: "domain.poll.noQuestions", Message: "poll has no questions"}
	ErrPollQuestionNoAnswers      = &Error{Code: "domain.poll.questionNoAnswers", Message: "every poll question needs at least one answer"}
	ErrPollAlreadyArchived        = &Error{Code: "domain.poll.alreadyArchived", Message: "poll is already archived"}
	ErrPollNotEditable            = &Error{Code: "domain.poll.notEditable", Message: "poll cannot be edited while active, finished or voted on"}
	ErrQuestionArchived           = &Error{Code: "domain.question.archived", Message: "question is archived"}
	ErrSnapshotAlreadyTaken       = &Error{Code: "domain.poll.snapshotAlreadyTaken", Message: "participant snapshot was already taken"}
	ErrSnapshotNotTaken           = &Error{Code: "domain.poll.snapshotNotTaken", Message: "participant snapshot has not been taken"}
)

// Voting errors.
var (
	ErrNotParticipant              = &Error{Code: "domain.vote.notParticipant", Message: "user is not a participant of this poll"}
	ErrAlreadyVoted                = &Error{Code: "domain.vote.alreadyVoted", Message: "user has already finished voting"}
	ErrMustAnswerAllQuestions      = &Error{Code: "domain.vote.mustAnswerAllQuestions", Message: "all questions must be answered before finishing"}
	ErrSingleChoiceMultipleAnswers = &Error{Code: "domain.vote.singleChoiceMultipleAnswers", Message: "single-choice question has more than one draft"}
)

// Consistency errors guarding the weight-freeze-at-commit invariant.
var (
	ErrParticipantsHaveVotes = &Error{Code: "domain.poll.cannotModifyParticipantsHasVotes", Message: "participants cannot be modified once votes exist"}
	ErrSnapshotHasVotes      = &Error{Code: "domain.poll.cannotDiscardSnapshotHasVotes", Message: "snapshot cannot be discarded once votes exist"}
)

// Authorization errors.
var (
	ErrNotAuthorized = &Error{Code: "domain.auth.notAuthorized", Message: "user is not allowed to perform this action"}
)

// Not-found errors.
var (
	ErrPollNotFound        = &Error{Code: "domain.poll.notFound", Message: "poll not found"}
	ErrQuestionNotFound    = &Error{Code: "domain.question.notFound", Message: "question not found"}
	ErrAnswerNotFound      = &Error{Code: "domain.answer.notFound", Message: "answer not found"}
	ErrParticipantNotFound = &Error{Code: "domain.participant.notFound", Message: "participant not found"}
)
