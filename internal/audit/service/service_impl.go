package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/requestctx"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) AuditLog(ctx context.Context, userID *snowflake.ID, action, resourceType string, resourceID *snowflake.ID, description string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	resourceType = strings.TrimSpace(resourceType)
	if resourceType == "" {
		resourceType = "unknown"
	}

	if userID == nil {
		if resolved, ok := requestctx.UserIDFromContext(ctx); ok && resolved != 0 {
			userID = &resolved
		}
	}

	payload := map[string]any{}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	entry := auditdomain.AuditLog{
		ID:           s.genID.Generate(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		Metadata:     datatypes.JSONMap(payload),
		CreatedAt:    time.Now().UTC(),
	}
	if ip := requestctx.ClientIPFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}

	filter := auditdomain.ListFilter{
		Action:       req.Action,
		ResourceType: req.ResourceType,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		Offset:       req.Offset(),
		Limit:        req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.UserID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidID
		}
		filter.UserID = &id
	}
	if trimmed := strings.TrimSpace(req.ResourceID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidID
		}
		filter.ResourceID = &id
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	logs := make([]auditdomain.AuditLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}

	return auditdomain.ListAuditLogResponse{
		AuditLogs:  logs,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}
