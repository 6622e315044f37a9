package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     authzdomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     authzdomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) authzdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Authorize(ctx context.Context, userID snowflake.ID, societyID *snowflake.ID, resource, action string) error {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	roles, err := s.repo.ActiveRoles(ctx, s.db, userID, societyID)
	if err != nil {
		s.log.Warn("failed to resolve active roles",
			zap.String("user_id", userID.String()), zap.Error(err))
		return authzdomain.ErrPermissionDenied
	}
	if len(roles) == 0 {
		s.auditDenied(ctx, userID, resource, action, "no active roles")
		return authzdomain.ErrNoActiveRoles
	}

	roleIDs := make([]snowflake.ID, 0, len(roles))
	for _, role := range roles {
		if role.RoleName == authzdomain.SuperAdminRole {
			return nil
		}
		roleIDs = append(roleIDs, role.RoleID)
	}

	code := permissiondomain.CodeFor(resource, action)
	name := permissiondomain.NameFor(resource, action)

	granted, err := s.repo.HasGrant(ctx, s.db, roleIDs, code, name)
	if err != nil {
		s.log.Warn("failed to resolve permission grants",
			zap.String("user_id", userID.String()),
			zap.String("permission_code", code),
			zap.Error(err))
		return authzdomain.ErrPermissionDenied
	}
	if !granted {
		s.auditDenied(ctx, userID, resource, action, "missing permission")
		return authzdomain.ErrPermissionDenied
	}
	return nil
}

func (s *Service) AuthorizeRole(ctx context.Context, userID snowflake.ID, roleNames ...string) error {
	return s.authorizeRole(ctx, userID, nil, roleNames)
}

func (s *Service) AuthorizeRoleInSociety(ctx context.Context, userID snowflake.ID, societyID snowflake.ID, roleNames ...string) error {
	return s.authorizeRole(ctx, userID, &societyID, roleNames)
}

func (s *Service) authorizeRole(ctx context.Context, userID snowflake.ID, societyID *snowflake.ID, roleNames []string) error {
	roles, err := s.repo.ActiveRoles(ctx, s.db, userID, societyID)
	if err != nil {
		s.log.Warn("failed to resolve active roles",
			zap.String("user_id", userID.String()), zap.Error(err))
		return authzdomain.ErrRoleDenied
	}
	if len(roles) == 0 {
		return authzdomain.ErrNoActiveRoles
	}

	for _, role := range roles {
		for _, allowed := range roleNames {
			if role.RoleName == allowed {
				return nil
			}
		}
	}

	s.auditDenied(ctx, userID, "role_check", strings.Join(roleNames, ","), "role not held")
	return authzdomain.ErrRoleDenied
}

func (s *Service) auditDenied(ctx context.Context, userID snowflake.ID, resource, action, reason string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.AuditLog(ctx, &userID, "access_denied", "authorization", nil, reason, map[string]any{
		"resource": resource,
		"action":   action,
	})
}
