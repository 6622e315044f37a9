package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/db"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
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
	Repo     roledomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     roledomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) roledomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("role.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req roledomain.CreateRoleRequest) (*roledomain.Role, error) {
	name := strings.TrimSpace(req.RoleName)
	if name == "" {
		return nil, roledomain.ErrInvalidRoleName
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, roledomain.ErrRoleExists
	}

	now := time.Now().UTC()
	role := &roledomain.Role{
		ID:             s.genID.Generate(),
		RoleName:       name,
		DisplayName:    strings.TrimSpace(req.DisplayName),
		Description:    strings.TrimSpace(req.Description),
		HierarchyLevel: req.HierarchyLevel,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if role.DisplayName == "" {
		role.DisplayName = name
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return nil, roledomain.ErrInvalidID
		}
		role.SocietyID = &societyID
	}

	if err := s.repo.Insert(ctx, s.db, role); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, roledomain.ErrRoleExists
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", role, "Role created")
	return role, nil
}

func (s *Service) List(ctx context.Context, req roledomain.ListRolesRequest) (roledomain.ListRolesResponse, error) {
	filter := roledomain.ListFilter{
		IsActive: req.IsActive,
		Search:   req.Search,
		Offset:   req.Offset(),
		Limit:    req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return roledomain.ListRolesResponse{}, roledomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return roledomain.ListRolesResponse{}, err
	}

	roles := make([]roledomain.Role, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		roles = append(roles, *item)
	}

	return roledomain.ListRolesResponse{
		Roles:      roles,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*roledomain.Role, error) {
	roleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, roledomain.ErrInvalidID
	}

	role, err := s.repo.FindByID(ctx, s.db, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, roledomain.ErrNotFound
	}
	return role, nil
}

func (s *Service) Update(ctx context.Context, req roledomain.UpdateRoleRequest) (*roledomain.Role, error) {
	role, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if role.IsSystemRole {
		return nil, roledomain.ErrSystemRoleProtected
	}

	if req.DisplayName != nil {
		role.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Description != nil {
		role.Description = strings.TrimSpace(*req.Description)
	}
	if req.HierarchyLevel != nil {
		role.HierarchyLevel = *req.HierarchyLevel
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}
	role.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, role); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", role, "Role updated")
	return role, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystemRole {
		return roledomain.ErrSystemRoleProtected
	}

	if err := s.repo.Delete(ctx, s.db, role.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", role, "Role deleted")
	return nil
}

func (s *Service) SetPermission(ctx context.Context, req roledomain.SetRolePermissionRequest) (*roledomain.RolePermission, error) {
	roleID, err := snowflake.ParseString(strings.TrimSpace(req.RoleID))
	if err != nil {
		return nil, roledomain.ErrInvalidID
	}
	permissionID, err := snowflake.ParseString(strings.TrimSpace(req.PermissionID))
	if err != nil {
		return nil, roledomain.ErrInvalidID
	}

	role, err := s.repo.FindByID(ctx, s.db, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, roledomain.ErrNotFound
	}

	granted := true
	if req.Granted != nil {
		granted = *req.Granted
	}

	now := time.Now().UTC()
	grant := &roledomain.RolePermission{
		ID:           s.genID.Generate(),
		RoleID:       roleID,
		PermissionID: permissionID,
		Granted:      granted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.UpsertRolePermission(ctx, s.db, grant); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", role, "Role permission set")
	return grant, nil
}

func (s *Service) ListPermissions(ctx context.Context, roleID string) ([]roledomain.RolePermission, error) {
	role, err := s.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListRolePermissions(ctx, s.db, role.ID)
	if err != nil {
		return nil, err
	}

	grants := make([]roledomain.RolePermission, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		grants = append(grants, *item)
	}
	return grants, nil
}

func (s *Service) RemovePermission(ctx context.Context, id string) error {
	grantID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return roledomain.ErrInvalidID
	}

	grant, err := s.repo.FindRolePermission(ctx, s.db, grantID)
	if err != nil {
		return err
	}
	if grant == nil {
		return roledomain.ErrGrantNotFound
	}

	return s.repo.DeleteRolePermission(ctx, s.db, grantID)
}

func (s *Service) emitAudit(ctx context.Context, action string, role *roledomain.Role, description string) {
	if s.auditSvc == nil || role == nil {
		return
	}
	resourceID := role.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "role", &resourceID, description, map[string]any{
		"role_name":       role.RoleName,
		"is_system_role":  role.IsSystemRole,
		"hierarchy_level": role.HierarchyLevel,
	})
}
