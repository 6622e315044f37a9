package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// UserRole is a time-bounded, optionally society-scoped assignment of a
// role to a user. Revocation is soft: the row stays for the audit trail.
type UserRole struct {
	ID         snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	UserID     snowflake.ID  `gorm:"column:user_id" json:"user_id"`
	RoleID     snowflake.ID  `gorm:"column:role_id" json:"role_id"`
	SocietyID  *snowflake.ID `gorm:"column:society_id" json:"society_id,omitempty"`
	IsActive   bool          `gorm:"column:is_active" json:"is_active"`
	ValidFrom  time.Time     `gorm:"column:valid_from" json:"valid_from"`
	ValidUntil *time.Time    `gorm:"column:valid_until" json:"valid_until,omitempty"`
	AssignedBy *snowflake.ID `gorm:"column:assigned_by" json:"assigned_by,omitempty"`
	RevokedAt  *time.Time    `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	RevokedBy  *snowflake.ID `gorm:"column:revoked_by" json:"revoked_by,omitempty"`
	CreatedAt  time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (UserRole) TableName() string { return "user_roles" }

// ListFilter narrows user-role listings.
type ListFilter struct {
	UserID    *snowflake.ID
	RoleID    *snowflake.ID
	SocietyID *snowflake.ID
	IsActive  *bool
	Offset    int
	Limit     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, assignment *UserRole) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*UserRole, error)
	FindAssignment(ctx context.Context, db *gorm.DB, userID, roleID snowflake.ID, societyID *snowflake.ID) (*UserRole, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*UserRole, int64, error)
	Update(ctx context.Context, db *gorm.DB, assignment *UserRole) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
