package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is one append-only trail entry. Rows are never updated or
// deleted by the application.
type AuditLog struct {
	ID           snowflake.ID       `gorm:"column:id;primaryKey" json:"id"`
	UserID       *snowflake.ID      `gorm:"column:user_id" json:"user_id,omitempty"`
	Action       string             `gorm:"column:action" json:"action"`
	ResourceType string             `gorm:"column:resource_type" json:"resource_type"`
	ResourceID   *snowflake.ID      `gorm:"column:resource_id" json:"resource_id,omitempty"`
	Description  string             `gorm:"column:description" json:"description"`
	IPAddress    *string            `gorm:"column:ip_address" json:"ip_address,omitempty"`
	Metadata     datatypes.JSONMap  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time          `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// ListFilter narrows the audit trail listing.
type ListFilter struct {
	UserID       *snowflake.ID
	Action       string
	ResourceType string
	ResourceID   *snowflake.ID
	StartAt      *time.Time
	EndAt        *time.Time
	Offset       int
	Limit        int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, int64, error)
}
