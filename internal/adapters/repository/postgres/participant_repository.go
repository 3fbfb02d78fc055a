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

type participantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) ports.ParticipantRepository {
	return &participantRepository{
		db: db,
	}
}

func (r *participantRepository) ExecuteActivation(ctx context.Context, poll *domain.Poll, participants []domain.PollParticipant, history []domain.ParticipantWeightHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		UPDATE polls
		SET active = $2, finished = $3, participants_snapshot_taken = $4
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, queryPoll, poll.ID, poll.Active, poll.Finished, poll.ParticipantsSnapshotTaken); err != nil {
		return fmt.Errorf("failed to update poll state: %w", err)
	}

	queryParticipant := `
		INSERT INTO poll_participants (id, poll_id, user_id, user_weight, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmtParticipant, err := tx.PrepareContext(ctx, queryParticipant)
	if err != nil {
		return fmt.Errorf("failed to prepare participant statement: %w", err)
	}
	defer stmtParticipant.Close()

	for _, p := range participants {
		if _, err := stmtParticipant.ExecContext(ctx, p.ID, p.PollID, p.UserID, p.UserWeight, p.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	queryHistory := `
		INSERT INTO participant_weight_history (id, participant_id, poll_id, user_id, old_weight, new_weight, changed_by, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	stmtHistory, err := tx.PrepareContext(ctx, queryHistory)
	if err != nil {
		return fmt.Errorf("failed to prepare history statement: %w", err)
	}
	defer stmtHistory.Close()

	for _, h := range history {
		if _, err := stmtHistory.ExecContext(ctx, h.ID, h.ParticipantID, h.PollID, h.UserID, h.OldWeight, h.NewWeight, h.ChangedBy, h.Reason, h.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert weight history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activation: %w", err)
	}
	return nil
}

func (r *participantRepository) DiscardSnapshot(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Weight history stays: it is an append-only audit trail.
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_participants WHERE poll_id = $1`, poll.ID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE polls SET participants_snapshot_taken = $2 WHERE id = $1`, poll.ID, poll.ParticipantsSnapshotTaken); err != nil {
		return fmt.Errorf("failed to clear snapshot flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot discard: %w", err)
	}
	return nil
}

func (r *participantRepository) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.PollParticipant, error) {
	query := `
		SELECT id, poll_id, user_id, user_weight, created_at
		FROM poll_participants
		WHERE poll_id = $1 AND user_id = $2
	`
	var p domain.PollParticipant
	err := r.db.QueryRowContext(ctx, query, pollID, userID).Scan(&p.ID, &p.PollID, &p.UserID, &p.UserWeight, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

func (r *participantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PollParticipant, error) {
	query := `
		SELECT id, poll_id, user_id, user_weight, created_at
		FROM poll_participants
		WHERE id = $1
	`
	var p domain.PollParticipant
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.PollID, &p.UserID, &p.UserWeight, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

func (r *participantRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.PollParticipant, error) {
	query := `
		SELECT id, poll_id, user_id, user_weight, created_at
		FROM poll_participants
		WHERE poll_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.PollParticipant
	for rows.Next() {
		var p domain.PollParticipant
		if err := rows.Scan(&p.ID, &p.PollID, &p.UserID, &p.UserWeight, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return participants, nil
}

func (r *participantRepository) UpdateWeight(ctx context.Context, participant *domain.PollParticipant, history domain.ParticipantWeightHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE poll_participants SET user_weight = $2 WHERE id = $1`, participant.ID, participant.UserWeight)
	if err != nil {
		return fmt.Errorf("failed to update participant weight: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrParticipantNotFound
	}

	queryHistory := `
		INSERT INTO participant_weight_history (id, participant_id, poll_id, user_id, old_weight, new_weight, changed_by, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.ExecContext(ctx, queryHistory, history.ID, history.ParticipantID, history.PollID, history.UserID, history.OldWeight, history.NewWeight, history.ChangedBy, history.Reason, history.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert weight history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weight update: %w", err)
	}
	return nil
}

func (r *participantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM poll_participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

func (r *participantRepository) ListWeightHistory(ctx context.Context, pollID uuid.UUID) ([]domain.ParticipantWeightHistory, error) {
	query := `
		SELECT id, participant_id, poll_id, user_id, old_weight, new_weight, changed_by, reason, created_at
		FROM participant_weight_history
		WHERE poll_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight history: %w", err)
	}
	defer rows.Close()

	var history []domain.ParticipantWeightHistory
	for rows.Next() {
		var h domain.ParticipantWeightHistory
		if err := rows.Scan(&h.ID, &h.ParticipantID, &h.PollID, &h.UserID, &h.OldWeight, &h.NewWeight, &h.ChangedBy, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weight history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weight history: %w", err)
	}
	return history, nil
}
