package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgpoll/api/internal/core/domain"
	"github.com/orgpoll/api/internal/core/ports"
)

// hasManagerStanding reports whether the user may manage the poll:
// its creator, an admin of the owning organization, or a superadmin.
func hasManagerStanding(ctx context.Context, m ports.MembershipProvider, poll *domain.Poll, userID uuid.UUID) (bool, error) {
	if poll.CreatedBy == userID {
		return true, nil
	}
	return isOrgAdmin(ctx, m, userID, poll.OrgID)
}

// isOrgAdmin reports organization-admin or superadmin standing. Note
// this deliberately does not include the poll creator: voter-breakdown
// visibility is admin-only.
func isOrgAdmin(ctx context.Context, m ports.MembershipProvider, userID, orgID uuid.UUID) (bool, error) {
	admin, err := m.IsUserAdmin(ctx, userID, orgID)
	if err != nil {
		return false, fmt.Errorf("failed to check admin standing: %w", err)
	}
	if admin {
		return true, nil
	}
	super, err := m.IsSuperAdmin(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check superadmin standing: %w", err)
	}
	return super, nil
}
