package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/requestctx"
	visitordomain "github.com/societyhq/societyhub/internal/visitor/domain"
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
	Repo     visitordomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     visitordomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) visitordomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("visitor.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) CheckIn(ctx context.Context, req visitordomain.CheckInRequest) (*visitordomain.Visitor, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, visitordomain.ErrInvalidID
	}
	name := strings.TrimSpace(req.VisitorName)
	if name == "" {
		return nil, visitordomain.ErrInvalidName
	}

	now := time.Now().UTC()
	visitor := &visitordomain.Visitor{
		ID:               s.genID.Generate(),
		SocietyID:        societyID,
		FlatNumber:       strings.TrimSpace(req.FlatNumber),
		VisitorName:      name,
		VisitorPhone:     strings.TrimSpace(req.VisitorPhone),
		VisitorEmail:     strings.TrimSpace(req.VisitorEmail),
		VisitorIDType:    strings.TrimSpace(req.VisitorIDType),
		VisitorIDNumber:  strings.TrimSpace(req.VisitorIDNumber),
		PurposeOfVisit:   strings.TrimSpace(req.PurposeOfVisit),
		NumberOfVisitors: req.NumberOfVisitors,
		VehicleNumber:    strings.TrimSpace(req.VehicleNumber),
		VehicleType:      strings.TrimSpace(req.VehicleType),
		GatePassCode:     uuid.NewString(),
		EntryTime:        now,
		EntryGate:        strings.TrimSpace(req.EntryGate),
		Status:           visitordomain.StatusCheckedIn,
		IsExpected:       req.IsExpected,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if visitor.NumberOfVisitors <= 0 {
		visitor.NumberOfVisitors = 1
	}
	if visitor.EntryGate == "" {
		visitor.EntryGate = "Main Gate"
	}
	if trimmed := strings.TrimSpace(req.MemberID); trimmed != "" {
		memberID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return nil, visitordomain.ErrInvalidID
		}
		visitor.MemberID = &memberID
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		visitor.CheckedInBy = &actorID
		visitor.CreatedBy = &actorID
		visitor.UpdatedBy = &actorID
	}

	if err := s.repo.Insert(ctx, s.db, visitor); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "create", visitor, "Visitor checked in")
	return visitor, nil
}

func (s *Service) CheckOut(ctx context.Context, req visitordomain.CheckOutRequest) (*visitordomain.Visitor, error) {
	visitor, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if visitor.Status != visitordomain.StatusCheckedIn {
		return nil, visitordomain.ErrAlreadyCheckedOut
	}

	now := time.Now().UTC()
	visitor.ExitTime = &now
	visitor.ExitGate = strings.TrimSpace(req.ExitGate)
	visitor.Status = visitordomain.StatusCheckedOut
	visitor.UpdatedAt = now
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		visitor.CheckedOutBy = &actorID
		visitor.UpdatedBy = &actorID
	}

	if err := s.repo.Update(ctx, s.db, visitor); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", visitor, "Visitor checked out")
	return visitor, nil
}

func (s *Service) List(ctx context.Context, req visitordomain.ListVisitorsRequest) (visitordomain.ListVisitorsResponse, error) {
	filter := visitordomain.ListFilter{
		Status:     req.Status,
		FlatNumber: req.FlatNumber,
		Search:     req.Search,
		Offset:     req.Offset(),
		Limit:      req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return visitordomain.ListVisitorsResponse{}, visitordomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}
	if trimmed := strings.TrimSpace(req.MemberID); trimmed != "" {
		memberID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return visitordomain.ListVisitorsResponse{}, visitordomain.ErrInvalidID
		}
		filter.MemberID = &memberID
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return visitordomain.ListVisitorsResponse{}, err
	}

	visitors := make([]visitordomain.Visitor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		visitors = append(visitors, *item)
	}

	return visitordomain.ListVisitorsResponse{
		Visitors:   visitors,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*visitordomain.Visitor, error) {
	visitorID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, visitordomain.ErrInvalidID
	}

	visitor, err := s.repo.FindByID(ctx, s.db, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, visitordomain.ErrNotFound
	}
	return visitor, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, visitor *visitordomain.Visitor, description string) {
	if s.auditSvc == nil || visitor == nil {
		return
	}
	resourceID := visitor.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "visitor", &resourceID, description, map[string]any{
		"society_id":     visitor.SocietyID.String(),
		"visitor_name":   visitor.VisitorName,
		"gate_pass_code": visitor.GatePassCode,
	})
}
