package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/societyhq/societyhub/pkg/pagination"
)

type ListAuditLogRequest struct {
	pagination.Pagination
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartAt      *time.Time
	EndAt        *time.Time
}

type ListAuditLogResponse struct {
	AuditLogs  []AuditLog          `json:"audit_logs"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	// AuditLog appends one trail entry. Callers treat it as
	// fire-and-forget; a failed append never fails the primary write.
	AuditLog(ctx context.Context, userID *snowflake.ID, action, resourceType string, resourceID *snowflake.ID, description string, metadata map[string]any) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidID        = errors.New("invalid_id")
)
