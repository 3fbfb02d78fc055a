package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type draftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) ports.VoteDraftRepository {
	return &draftRepository{
		db: db,
	}
}

func (r *draftRepository) Save(ctx context.Context, draft *domain.VoteDraft) error {
	query := `
		INSERT INTO vote_drafts (id, poll_id, question_id, answer_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (question_id, answer_id, user_id) DO UPDATE
		SET updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		draft.ID, draft.PollID, draft.QuestionID, draft.AnswerID, draft.UserID, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *draftRepository) ListByUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.VoteDraft, error) {
	query := `
		SELECT id, poll_id, question_id, answer_id, user_id, created_at, updated_at
		FROM vote_drafts
		WHERE poll_id = $1 AND user_id = $2
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.VoteDraft
	for rows.Next() {
		var d domain.VoteDraft
		if err := rows.Scan(&d.ID, &d.PollID, &d.QuestionID, &d.AnswerID, &d.UserID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drafts: %w", err)
	}
	return drafts, nil
}

func (r *draftRepository) DeleteByQuestion(ctx context.Context, pollID, questionID, userID uuid.UUID) error {
	query := `DELETE FROM vote_drafts WHERE poll_id = $1 AND question_id = $2 AND user_id = $3`
	if _, err := r.db.ExecContext(ctx, query, pollID, questionID, userID); err != nil {
		return fmt.Errorf("failed to delete drafts for question: %w", err)
	}
	return nil
}

func (r *draftRepository) DeleteByAnswer(ctx context.Context, pollID, questionID, answerID, userID uuid.UUID) error {
	query := `DELETE FROM vote_drafts WHERE poll_id = $1 AND question_id = $2 AND answer_id = $3 AND user_id = $4`
	if _, err := r.db.ExecContext(ctx, query, pollID, questionID, answerID, userID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (r *draftRepository) DeleteByPoll(ctx context.Context, pollID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vote_drafts WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete drafts for poll: %w", err)
	}
	return nil
}
