package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ActiveRole is one live role assignment resolved for a user: the
// assignment is active, inside its validity window, and (when a target
// society is given) either global or scoped to that society.
type ActiveRole struct {
	RoleID         snowflake.ID  `gorm:"column:role_id"`
	RoleName       string        `gorm:"column:role_name"`
	HierarchyLevel int           `gorm:"column:hierarchy_level"`
	SocietyID      *snowflake.ID `gorm:"column:society_id"`
}

type Service interface {
	// Authorize answers whether the user may perform action on resource.
	// A non-nil societyID restricts which role assignments count:
	// society-scoped assignments never authorize other societies.
	// Fails closed: any resolution failure is a denial.
	Authorize(ctx context.Context, userID snowflake.ID, societyID *snowflake.ID, resource, action string) error

	// AuthorizeRole allows when any of the user's active roles is named
	// in the allow-list. Used for admin-only endpoints.
	AuthorizeRole(ctx context.Context, userID snowflake.ID, roleNames ...string) error

	// AuthorizeRoleInSociety is AuthorizeRole restricted to assignments
	// that are global or scoped to the given society.
	AuthorizeRoleInSociety(ctx context.Context, userID snowflake.ID, societyID snowflake.ID, roleNames ...string) error
}

type Repository interface {
	ActiveRoles(ctx context.Context, db *gorm.DB, userID snowflake.ID, societyID *snowflake.ID) ([]ActiveRole, error)
	HasGrant(ctx context.Context, db *gorm.DB, roleIDs []snowflake.ID, permissionCode, permissionName string) (bool, error)
}

var (
	ErrNoActiveRoles    = errors.New("no_active_roles")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrRoleDenied       = errors.New("role_denied")
)

// SuperAdminRole short-circuits every permission check.
const SuperAdminRole = "superAdmin"

// SocietyAdminRole administers a single society.
const SocietyAdminRole = "societyAdmin"
