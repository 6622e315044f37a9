package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/db"
	"github.com/societyhq/societyhub/internal/requestctx"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     userroledomain.Repository
	RoleRepo roledomain.Repository
	AuthzSvc authzdomain.Service
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     userroledomain.Repository
	roleRepo roledomain.Repository
	authzSvc authzdomain.Service
	auditSvc auditdomain.Service
}

func NewService(p Params) userroledomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("userrole.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		roleRepo: p.RoleRepo,
		authzSvc: p.AuthzSvc,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Assign(ctx context.Context, req userroledomain.AssignRequest) (*userroledomain.UserRole, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, userroledomain.ErrInvalidID
	}
	roleID, err := snowflake.ParseString(strings.TrimSpace(req.RoleID))
	if err != nil {
		return nil, userroledomain.ErrInvalidID
	}

	var societyID *snowflake.ID
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		parsed, err := snowflake.ParseString(trimmed)
		if err != nil {
			return nil, userroledomain.ErrInvalidID
		}
		societyID = &parsed
	}

	role, err := s.roleRepo.FindByID(ctx, s.db, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, userroledomain.ErrRoleNotFound
	}

	// Assignments always need an authorized actor: an administrator of
	// the target society for scoped grants, superAdmin for global ones.
	actorID, ok := requestctx.UserIDFromContext(ctx)
	if !ok {
		return nil, userroledomain.ErrScopeNotAllowed
	}
	if societyID != nil {
		if err := s.authzSvc.AuthorizeRoleInSociety(ctx, actorID, *societyID,
			authzdomain.SuperAdminRole, authzdomain.SocietyAdminRole); err != nil {
			return nil, userroledomain.ErrScopeNotAllowed
		}
	} else {
		if err := s.authzSvc.AuthorizeRole(ctx, actorID, authzdomain.SuperAdminRole); err != nil {
			return nil, userroledomain.ErrScopeNotAllowed
		}
	}

	if req.ValidFrom != nil && req.ValidUntil != nil && !req.ValidUntil.After(*req.ValidFrom) {
		return nil, userroledomain.ErrInvalidWindow
	}

	existing, err := s.repo.FindAssignment(ctx, s.db, userID, roleID, societyID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsActive {
		return nil, userroledomain.ErrAlreadyAssigned
	}

	now := s.clock.Now()
	if existing != nil {
		// Re-assigning a revoked role reactivates the original row so the
		// unique triple stays satisfied.
		existing.IsActive = true
		existing.ValidFrom = now
		existing.ValidUntil = req.ValidUntil
		existing.RevokedAt = nil
		existing.RevokedBy = nil
		existing.UpdatedAt = now
		if req.ValidFrom != nil {
			existing.ValidFrom = req.ValidFrom.UTC()
		}
		existing.AssignedBy = &actorID
		if err := s.repo.Update(ctx, s.db, existing); err != nil {
			return nil, err
		}
		s.emitAudit(ctx, "update", existing, "User role re-assigned")
		return existing, nil
	}

	assignment := &userroledomain.UserRole{
		ID:         s.genID.Generate(),
		UserID:     userID,
		RoleID:     roleID,
		SocietyID:  societyID,
		IsActive:   true,
		ValidFrom:  now,
		ValidUntil: req.ValidUntil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.ValidFrom != nil {
		assignment.ValidFrom = req.ValidFrom.UTC()
	}
	assignment.AssignedBy = &actorID

	if err := s.repo.Insert(ctx, s.db, assignment); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, userroledomain.ErrAlreadyAssigned
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", assignment, "User role assigned")
	return assignment, nil
}

func (s *Service) List(ctx context.Context, req userroledomain.ListUserRolesRequest) (userroledomain.ListUserRolesResponse, error) {
	filter := userroledomain.ListFilter{
		IsActive: req.IsActive,
		Offset:   req.Offset(),
		Limit:    req.Normalize().Limit,
	}

	for _, field := range []struct {
		raw  string
		dest **snowflake.ID
	}{
		{req.UserID, &filter.UserID},
		{req.RoleID, &filter.RoleID},
		{req.SocietyID, &filter.SocietyID},
	} {
		if trimmed := strings.TrimSpace(field.raw); trimmed != "" {
			parsed, err := snowflake.ParseString(trimmed)
			if err != nil {
				return userroledomain.ListUserRolesResponse{}, userroledomain.ErrInvalidID
			}
			*field.dest = &parsed
		}
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return userroledomain.ListUserRolesResponse{}, err
	}

	assignments := make([]userroledomain.UserRole, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		assignments = append(assignments, *item)
	}

	return userroledomain.ListUserRolesResponse{
		UserRoles:  assignments,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*userroledomain.UserRole, error) {
	assignmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, userroledomain.ErrInvalidID
	}

	assignment, err := s.repo.FindByID(ctx, s.db, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, userroledomain.ErrNotFound
	}
	return assignment, nil
}

func (s *Service) Revoke(ctx context.Context, id string) (*userroledomain.UserRole, error) {
	assignment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive {
		return nil, userroledomain.ErrAlreadyRevoked
	}

	now := s.clock.Now()
	assignment.IsActive = false
	assignment.RevokedAt = &now
	assignment.UpdatedAt = now
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		assignment.RevokedBy = &actorID
	}

	if err := s.repo.Update(ctx, s.db, assignment); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", assignment, "User role revoked")
	return assignment, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	assignment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, assignment.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", assignment, "User role deleted")
	return nil
}

func (s *Service) emitAudit(ctx context.Context, action string, assignment *userroledomain.UserRole, description string) {
	if s.auditSvc == nil || assignment == nil {
		return
	}
	resourceID := assignment.ID
	metadata := map[string]any{
		"user_id": assignment.UserID.String(),
		"role_id": assignment.RoleID.String(),
	}
	if assignment.SocietyID != nil {
		metadata["society_id"] = assignment.SocietyID.String()
	}
	_ = s.auditSvc.AuditLog(ctx, nil, action, "user_role", &resourceID, description, metadata)
}
