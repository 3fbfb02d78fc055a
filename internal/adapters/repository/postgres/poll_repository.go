package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (id, board_id, org_id, scope, title, description, start_date, end_date,
			active, finished, participants_snapshot_taken, weight_criteria, created_by, created_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		poll.ID, poll.BoardID, poll.OrgID, poll.Scope, poll.Title, poll.Description,
		poll.StartDate, poll.EndDate, poll.Active, poll.Finished, poll.ParticipantsSnapshotTaken,
		poll.WeightCriteria, poll.CreatedBy, poll.CreatedAt, poll.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}
	return nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, start_date = $4, end_date = $5,
			active = $6, finished = $7, participants_snapshot_taken = $8,
			weight_criteria = $9, archived_at = $10
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.StartDate, poll.EndDate,
		poll.Active, poll.Finished, poll.ParticipantsSnapshotTaken,
		poll.WeightCriteria, poll.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `
		SELECT id, board_id, org_id, scope, title, description, start_date, end_date,
			active, finished, participants_snapshot_taken, weight_criteria, created_by, created_at, archived_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poll.ID, &poll.BoardID, &poll.OrgID, &poll.Scope, &poll.Title, &poll.Description,
		&poll.StartDate, &poll.EndDate, &poll.Active, &poll.Finished, &poll.ParticipantsSnapshotTaken,
		&poll.WeightCriteria, &poll.CreatedBy, &poll.CreatedAt, &poll.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	questions, err := r.fetchQuestions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Questions = questions

	return &poll, nil
}

func (r *pollRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*domain.Poll, error) {
	query := `
		SELECT id, board_id, org_id, scope, title, description, start_date, end_date,
			active, finished, participants_snapshot_taken, weight_criteria, created_by, created_at, archived_at
		FROM polls
		WHERE board_id = $1 AND archived_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.BoardID, &poll.OrgID, &poll.Scope, &poll.Title, &poll.Description,
			&poll.StartDate, &poll.EndDate, &poll.Active, &poll.Finished, &poll.ParticipantsSnapshotTaken,
			&poll.WeightCriteria, &poll.CreatedBy, &poll.CreatedAt, &poll.ArchivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		questions, err := r.fetchQuestions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Questions = questions

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	query := `
		INSERT INTO questions (id, poll_id, text, details, page_number, question_order, type, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		question.ID, question.PollID, question.Text, question.Details,
		question.Page, question.Order, question.Type, question.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

func (r *pollRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	query := `
		UPDATE questions
		SET text = $2, details = $3, page_number = $4, question_order = $5, archived_at = $6
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		question.ID, question.Text, question.Details, question.Page, question.Order, question.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

func (r *pollRepository) SaveAnswer(ctx context.Context, answer *domain.Answer) error {
	query := `
		INSERT INTO answers (id, question_id, text, answer_order, archived_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		answer.ID, answer.QuestionID, answer.Text, answer.Order, answer.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}
	return nil
}

func (r *pollRepository) UpdateAnswer(ctx context.Context, answer *domain.Answer) error {
	query := `
		UPDATE answers
		SET text = $2, answer_order = $3, archived_at = $4
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, answer.ID, answer.Text, answer.Order, answer.ArchivedAt)
	if err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}
	return nil
}

func (r *pollRepository) fetchQuestions(ctx context.Context, pollID uuid.UUID) ([]domain.Question, error) {
	query := `
		SELECT id, poll_id, text, details, page_number, question_order, type, archived_at
		FROM questions
		WHERE poll_id = $1
		ORDER BY page_number, question_order
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.PollID, &q.Text, &q.Details, &q.Page, &q.Order, &q.Type, &q.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	for i := range questions {
		answers, err := r.fetchAnswers(ctx, questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Answers = answers
	}
	return questions, nil
}

func (r *pollRepository) fetchAnswers(ctx context.Context, questionID uuid.UUID) ([]domain.Answer, error) {
	query := `
		SELECT id, question_id, text, answer_order, archived_at
		FROM answers
		WHERE question_id = $1
		ORDER BY answer_order
	`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.Order, &a.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}
	return answers, nil
}
