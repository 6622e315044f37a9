package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Role is a named bundle of permissions. A role may be scoped to a
// single society; a NULL society means the role is global. System roles
// are seeded at startup and protected from mutation.
type Role struct {
	ID             snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	RoleName       string        `gorm:"column:role_name" json:"role_name"`
	DisplayName    string        `gorm:"column:display_name" json:"display_name"`
	Description    string        `gorm:"column:description" json:"description"`
	HierarchyLevel int           `gorm:"column:hierarchy_level" json:"hierarchy_level"`
	IsSystemRole   bool          `gorm:"column:is_system_role" json:"is_system_role"`
	SocietyID      *snowflake.ID `gorm:"column:society_id" json:"society_id,omitempty"`
	IsActive       bool          `gorm:"column:is_active" json:"is_active"`
	CreatedBy      *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy      *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt      time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Role) TableName() string { return "roles" }

// RolePermission is the grant/deny join of a role and a permission.
// granted=false is an explicit deny and wins over nothing: the
// authorization engine only matches granted=true rows.
type RolePermission struct {
	ID           snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	RoleID       snowflake.ID  `gorm:"column:role_id;uniqueIndex:uq_role_permissions_pair" json:"role_id"`
	PermissionID snowflake.ID  `gorm:"column:permission_id;uniqueIndex:uq_role_permissions_pair" json:"permission_id"`
	Granted      bool          `gorm:"column:granted" json:"granted"`
	CreatedBy    *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// ListFilter narrows role listings.
type ListFilter struct {
	SocietyID *snowflake.ID
	IsActive  *bool
	Search    string
	Offset    int
	Limit     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, role *Role) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Role, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Role, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Role, int64, error)
	Update(ctx context.Context, db *gorm.DB, role *Role) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	UpsertRolePermission(ctx context.Context, db *gorm.DB, grant *RolePermission) error
	ListRolePermissions(ctx context.Context, db *gorm.DB, roleID snowflake.ID) ([]*RolePermission, error)
	DeleteRolePermission(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindRolePermission(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RolePermission, error)
}
