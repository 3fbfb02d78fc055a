package ports

import (
	"context"

	"github.com/google/uuid"
)

// MembershipProvider answers the membership and standing questions the
// core needs. It is a read-only collaborator; member administration
// lives outside this service.
type MembershipProvider interface {
	FindBoardMembers(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error)
	// FindOrgMemberUserIDs returns accepted members of the organization
	// and of all descendant organizations, deduplicated.
	FindOrgMemberUserIDs(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error)
	IsOrgMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
	IsUserAdmin(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// UserDirectory resolves display names. Presentation only: names must
// never feed authorization decisions.
type UserDirectory interface {
	GetNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}
