package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) CommitVotes(ctx context.Context, pollID, userID uuid.UUID, votes []domain.Vote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO votes (id, question_id, answer_id, user_id, user_weight, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare vote statement: %w", err)
	}
	defer stmt.Close()

	for _, v := range votes {
		if _, err := stmt.ExecContext(ctx, v.ID, v.QuestionID, v.AnswerID, v.UserID, v.UserWeight, v.CreatedAt); err != nil {
			// The unique (question_id, answer_id, user_id) constraint stops
			// a second ballot for the same user, racing commits included.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return domain.ErrAlreadyVoted
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vote_drafts WHERE poll_id = $1 AND user_id = $2`, pollID, userID); err != nil {
		return fmt.Errorf("failed to delete drafts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit votes: %w", err)
	}
	return nil
}

func (r *voteRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	query := `
		SELECT v.id, v.question_id, v.answer_id, v.user_id, v.user_weight, v.created_at
		FROM votes v
		JOIN questions q ON q.id = v.question_id
		WHERE q.poll_id = $1
	`
	return r.queryVotes(ctx, query, pollID)
}

func (r *voteRepository) ListByUser(ctx context.Context, pollID, userID uuid.UUID) ([]domain.Vote, error) {
	query := `
		SELECT v.id, v.question_id, v.answer_id, v.user_id, v.user_weight, v.created_at
		FROM votes v
		JOIN questions q ON q.id = v.question_id
		WHERE q.poll_id = $1 AND v.user_id = $2
	`
	return r.queryVotes(ctx, query, pollID, userID)
}

func (r *voteRepository) CountDistinctVotedQuestions(ctx context.Context, pollID, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(DISTINCT v.question_id)
		FROM votes v
		JOIN questions q ON q.id = v.question_id
		WHERE q.poll_id = $1 AND v.user_id = $2 AND q.archived_at IS NULL
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count voted questions: %w", err)
	}
	return count, nil
}

func (r *voteRepository) HasVotesForPoll(ctx context.Context, pollID uuid.UUID) (bool, error) {
	query := `
		SELECT 1
		FROM votes v
		JOIN questions q ON q.id = v.question_id
		WHERE q.poll_id = $1
		LIMIT 1
	`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing votes: %w", err)
	}
	return true, nil
}

func (r *voteRepository) queryVotes(ctx context.Context, query string, args ...any) ([]domain.Vote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.QuestionID, &v.AnswerID, &v.UserID, &v.UserWeight, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}
