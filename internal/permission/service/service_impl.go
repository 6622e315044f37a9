package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/db"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     permissiondomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     permissiondomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) permissiondomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("permission.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req permissiondomain.CreatePermissionRequest) (*permissiondomain.Permission, error) {
	resource := strings.ToLower(strings.TrimSpace(req.Resource))
	if resource == "" {
		return nil, permissiondomain.ErrInvalidResource
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" {
		return nil, permissiondomain.ErrInvalidAction
	}

	existing, err := s.repo.FindByResourceAction(ctx, s.db, resource, action)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, permissiondomain.ErrPermissionExists
	}

	now := time.Now().UTC()
	permission := &permissiondomain.Permission{
		ID:             s.genID.Generate(),
		PermissionName: permissiondomain.NameFor(resource, action),
		PermissionCode: permissiondomain.CodeFor(resource, action),
		Resource:       resource,
		Action:         action,
		Description:    strings.TrimSpace(req.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, permission); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, permissiondomain.ErrPermissionExists
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", permission, "Permission created")
	return permission, nil
}

func (s *Service) List(ctx context.Context, req permissiondomain.ListPermissionsRequest) (permissiondomain.ListPermissionsResponse, error) {
	items, total, err := s.repo.List(ctx, s.db, permissiondomain.ListFilter{
		Resource: req.Resource,
		Action:   req.Action,
		Search:   req.Search,
		Offset:   req.Offset(),
		Limit:    req.Normalize().Limit,
	})
	if err != nil {
		return permissiondomain.ListPermissionsResponse{}, err
	}

	permissions := make([]permissiondomain.Permission, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		permissions = append(permissions, *item)
	}

	return permissiondomain.ListPermissionsResponse{
		Permissions: permissions,
		Pagination:  pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*permissiondomain.Permission, error) {
	permissionID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, permissiondomain.ErrInvalidID
	}

	permission, err := s.repo.FindByID(ctx, s.db, permissionID)
	if err != nil {
		return nil, err
	}
	if permission == nil {
		return nil, permissiondomain.ErrNotFound
	}
	return permission, nil
}

func (s *Service) Update(ctx context.Context, req permissiondomain.UpdatePermissionRequest) (*permissiondomain.Permission, error) {
	permission, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if permission.IsSystemPermission {
		return nil, permissiondomain.ErrSystemPermissionProtected
	}

	if req.Description != nil {
		permission.Description = strings.TrimSpace(*req.Description)
	}
	permission.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, permission); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", permission, "Permission updated")
	return permission, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	permission, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if permission.IsSystemPermission {
		return permissiondomain.ErrSystemPermissionProtected
	}

	if err := s.repo.Delete(ctx, s.db, permission.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", permission, "Permission deleted")
	return nil
}

func (s *Service) emitAudit(ctx context.Context, action string, permission *permissiondomain.Permission, description string) {
	if s.auditSvc == nil || permission == nil {
		return
	}
	resourceID := permission.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "permission", &resourceID, description, map[string]any{
		"permission_code": permission.PermissionCode,
		"permission_name": permission.PermissionName,
	})
}
