package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/ports"
)

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) ports.MembershipProvider {
	return &membershipRepository{
		db: db,
	}
}

func (r *membershipRepository) FindBoardMembers(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT bm.user_id
		FROM board_members bm
		JOIN users u ON u.id = bm.user_id
		WHERE bm.board_id = $1 AND u.deleted_at IS NULL
	`
	return r.queryUserIDs(ctx, query, boardID)
}

// FindOrgMemberUserIDs walks the organization tree down from orgID and
// collects accepted members, deduplicated across organizations.
func (r *membershipRepository) FindOrgMemberUserIDs(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		WITH RECURSIVE org_tree AS (
			SELECT id FROM organizations WHERE id = $1
			UNION ALL
			SELECT o.id FROM organizations o
			JOIN org_tree t ON o.parent_id = t.id
		)
		SELECT DISTINCT om.user_id
		FROM organization_members om
		JOIN org_tree t ON om.org_id = t.id
		JOIN users u ON u.id = om.user_id
		WHERE om.status = 'accepted' AND u.deleted_at IS NULL
	`
	return r.queryUserIDs(ctx, query, orgID)
}

func (r *membershipRepository) IsOrgMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	query := `
		SELECT 1 FROM organization_members
		WHERE user_id = $1 AND org_id = $2 AND status = 'accepted'
		LIMIT 1
	`
	return r.queryExists(ctx, query, userID, orgID)
}

func (r *membershipRepository) IsUserAdmin(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	query := `
		SELECT 1 FROM organization_members
		WHERE user_id = $1 AND org_id = $2 AND status = 'accepted' AND role = 'admin'
		LIMIT 1
	`
	return r.queryExists(ctx, query, userID, orgID)
}

func (r *membershipRepository) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT superadmin FROM users WHERE id = $1 AND deleted_at IS NULL`
	var super bool
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&super)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check superadmin: %w", err)
	}
	return super, nil
}

func (r *membershipRepository) queryUserIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return ids, nil
}

func (r *membershipRepository) queryExists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}
