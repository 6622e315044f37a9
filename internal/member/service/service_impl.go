package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/db"
	memberdomain "github.com/societyhq/societyhub/internal/member/domain"
	"github.com/societyhq/societyhub/internal/requestctx"
	societydomain "github.com/societyhq/societyhub/internal/society/domain"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        memberdomain.Repository
	SocietyRepo societydomain.Repository
	AuditSvc    auditdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        memberdomain.Repository
	societyRepo societydomain.Repository
	auditSvc    auditdomain.Service
}

func NewService(p Params) memberdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("member.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		societyRepo: p.SocietyRepo,
		auditSvc:    p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req memberdomain.CreateMemberRequest) (*memberdomain.Member, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, memberdomain.ErrInvalidID
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, memberdomain.ErrInvalidName
	}

	society, err := s.societyRepo.FindByID(ctx, s.db, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, memberdomain.ErrSocietyNotFound
	}

	now := time.Now().UTC()
	member := &memberdomain.Member{
		ID:                  s.genID.Generate(),
		SocietyID:           societyID,
		MembershipNumber:    strings.TrimSpace(req.MembershipNumber),
		FirstName:           firstName,
		LastName:            lastName,
		Email:               strings.TrimSpace(req.Email),
		Phone:               strings.TrimSpace(req.Phone),
		FlatNumber:          strings.TrimSpace(req.FlatNumber),
		FloorNumber:         strings.TrimSpace(req.FloorNumber),
		BuildingName:        strings.TrimSpace(req.BuildingName),
		Wing:                strings.TrimSpace(req.Wing),
		MemberType:          strings.TrimSpace(req.MemberType),
		OwnershipPercentage: 100,
		JoiningDate:         req.JoiningDate,
		IsPrimaryMember:     req.IsPrimaryMember,
		Status:              "active",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if member.MemberType == "" {
		member.MemberType = "owner"
	}
	if req.OwnershipPercentage != nil {
		member.OwnershipPercentage = *req.OwnershipPercentage
	}
	if member.JoiningDate == nil {
		member.JoiningDate = &now
	}
	if trimmed := strings.TrimSpace(req.UserID); trimmed != "" {
		userID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return nil, memberdomain.ErrInvalidID
		}
		member.UserID = &userID
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		member.CreatedBy = &actorID
		member.UpdatedBy = &actorID
	}

	if err := s.repo.Insert(ctx, s.db, member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, memberdomain.ErrMemberExists
		}
		return nil, err
	}

	s.refreshMemberCount(ctx, societyID)
	s.emitAudit(ctx, "create", member, "Member created")
	return member, nil
}

func (s *Service) List(ctx context.Context, req memberdomain.ListMembersRequest) (memberdomain.ListMembersResponse, error) {
	filter := memberdomain.ListFilter{
		Status:     req.Status,
		MemberType: req.MemberType,
		FlatNumber: req.FlatNumber,
		Search:     req.Search,
		Offset:     req.Offset(),
		Limit:      req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return memberdomain.ListMembersResponse{}, memberdomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return memberdomain.ListMembersResponse{}, err
	}

	members := make([]memberdomain.Member, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, *item)
	}

	return memberdomain.ListMembersResponse{
		Members:    members,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*memberdomain.Member, error) {
	memberID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, memberdomain.ErrInvalidID
	}

	member, err := s.repo.FindByID(ctx, s.db, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, memberdomain.ErrNotFound
	}
	return member, nil
}

func (s *Service) Update(ctx context.Context, req memberdomain.UpdateMemberRequest) (*memberdomain.Member, error) {
	member, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.FirstName != nil {
		member.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		member.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		member.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		member.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.FlatNumber != nil {
		member.FlatNumber = strings.TrimSpace(*req.FlatNumber)
	}
	if req.FloorNumber != nil {
		member.FloorNumber = strings.TrimSpace(*req.FloorNumber)
	}
	if req.BuildingName != nil {
		member.BuildingName = strings.TrimSpace(*req.BuildingName)
	}
	if req.Wing != nil {
		member.Wing = strings.TrimSpace(*req.Wing)
	}
	if req.MemberType != nil {
		member.MemberType = strings.TrimSpace(*req.MemberType)
	}
	if req.IsPrimaryMember != nil {
		member.IsPrimaryMember = *req.IsPrimaryMember
	}
	if req.Status != nil {
		member.Status = strings.TrimSpace(*req.Status)
		statusChanged = true
	}
	member.UpdatedAt = time.Now().UTC()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		member.UpdatedBy = &actorID
	}

	if err := s.repo.Update(ctx, s.db, member); err != nil {
		return nil, err
	}

	if statusChanged {
		s.refreshMemberCount(ctx, member.SocietyID)
	}
	s.emitAudit(ctx, "update", member, "Member updated")
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, member.ID); err != nil {
		return err
	}

	s.refreshMemberCount(ctx, member.SocietyID)
	s.emitAudit(ctx, "delete", member, "Member deleted")
	return nil
}

func (s *Service) refreshMemberCount(ctx context.Context, societyID snowflake.ID) {
	if err := s.societyRepo.RefreshMemberCount(ctx, s.db, societyID); err != nil {
		s.log.Warn("failed to refresh society member count",
			zap.String("society_id", societyID.String()), zap.Error(err))
	}
}

func (s *Service) emitAudit(ctx context.Context, action string, member *memberdomain.Member, description string) {
	if s.auditSvc == nil || member == nil {
		return
	}
	resourceID := member.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "member", &resourceID, description, map[string]any{
		"society_id":        member.SocietyID.String(),
		"membership_number": member.MembershipNumber,
	})
}
