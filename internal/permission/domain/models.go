package domain

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Permission names a single resource/action pair. Both identifying
// forms are stored: the short code (first three letters of the
// resource plus the action, uppercased) and the dotted name.
type Permission struct {
	ID                 snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	PermissionName     string        `gorm:"column:permission_name" json:"permission_name"`
	PermissionCode     string        `gorm:"column:permission_code" json:"permission_code"`
	Resource           string        `gorm:"column:resource" json:"resource"`
	Action             string        `gorm:"column:action" json:"action"`
	Description        string        `gorm:"column:description" json:"description"`
	IsSystemPermission bool          `gorm:"column:is_system_permission" json:"is_system_permission"`
	CreatedBy          *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy          *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt          time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Permission) TableName() string { return "permissions" }

// CodeFor derives the short permission code for a resource/action pair.
// Resources shorter than three letters use the whole resource.
func CodeFor(resource, action string) string {
	resource = strings.ToUpper(strings.TrimSpace(resource))
	action = strings.ToUpper(strings.TrimSpace(action))
	prefix := resource
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return prefix + "_" + action
}

// NameFor derives the dotted permission name for a resource/action pair.
func NameFor(resource, action string) string {
	return strings.ToLower(strings.TrimSpace(resource)) + "." + strings.ToLower(strings.TrimSpace(action))
}

// ListFilter narrows permission listings.
type ListFilter struct {
	Resource string
	Action   string
	Search   string
	Offset   int
	Limit    int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, permission *Permission) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Permission, error)
	FindByResourceAction(ctx context.Context, db *gorm.DB, resource, action string) (*Permission, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Permission, int64, error)
	Update(ctx context.Context, db *gorm.DB, permission *Permission) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
