package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/db"
	"github.com/societyhq/societyhub/internal/requestctx"
	societydomain "github.com/societyhq/societyhub/internal/society/domain"
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
	Repo     societydomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     societydomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) societydomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("society.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req societydomain.CreateSocietyRequest) (*societydomain.Society, error) {
	name := strings.TrimSpace(req.SocietyName)
	if name == "" {
		return nil, societydomain.ErrInvalidName
	}

	code, err := s.uniqueCode(ctx, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	society := &societydomain.Society{
		ID:                 s.genID.Generate(),
		SocietyName:        name,
		SocietyCode:        code,
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Address:            strings.TrimSpace(req.Address),
		City:               strings.TrimSpace(req.City),
		State:              strings.TrimSpace(req.State),
		Country:            strings.TrimSpace(req.Country),
		Pincode:            strings.TrimSpace(req.Pincode),
		Phone:              strings.TrimSpace(req.Phone),
		Email:              strings.TrimSpace(req.Email),
		Website:            strings.TrimSpace(req.Website),
		RegistrationDate:   req.RegistrationDate,
		TotalFlats:         req.TotalFlats,
		Description:        strings.TrimSpace(req.Description),
		Status:             "active",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if society.State == "" {
		society.State = "India"
	}
	if society.Country == "" {
		society.Country = "India"
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		society.CreatedBy = &actorID
		society.UpdatedBy = &actorID
	}

	if err := s.repo.Insert(ctx, s.db, society); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, societydomain.ErrSocietyExists
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", society, "Society created")
	return society, nil
}

func (s *Service) List(ctx context.Context, req societydomain.ListSocietiesRequest) (societydomain.ListSocietiesResponse, error) {
	items, total, err := s.repo.List(ctx, s.db, societydomain.ListFilter{
		Status: req.Status,
		City:   req.City,
		Search: req.Search,
		Offset: req.Offset(),
		Limit:  req.Normalize().Limit,
	})
	if err != nil {
		return societydomain.ListSocietiesResponse{}, err
	}

	societies := make([]societydomain.Society, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		societies = append(societies, *item)
	}

	return societydomain.ListSocietiesResponse{
		Societies:  societies,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*societydomain.Society, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, societydomain.ErrInvalidID
	}

	society, err := s.repo.FindByID(ctx, s.db, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, societydomain.ErrNotFound
	}
	return society, nil
}

func (s *Service) Update(ctx context.Context, req societydomain.UpdateSocietyRequest) (*societydomain.Society, error) {
	society, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.SocietyName != nil {
		name := strings.TrimSpace(*req.SocietyName)
		if name == "" {
			return nil, societydomain.ErrInvalidName
		}
		society.SocietyName = name
	}
	if req.Address != nil {
		society.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		society.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		society.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		society.Country = strings.TrimSpace(*req.Country)
	}
	if req.Pincode != nil {
		society.Pincode = strings.TrimSpace(*req.Pincode)
	}
	if req.Phone != nil {
		society.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		society.Email = strings.TrimSpace(*req.Email)
	}
	if req.Website != nil {
		society.Website = strings.TrimSpace(*req.Website)
	}
	if req.TotalFlats != nil {
		society.TotalFlats = *req.TotalFlats
	}
	if req.Description != nil {
		society.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		society.Status = strings.TrimSpace(*req.Status)
	}
	society.UpdatedAt = time.Now().UTC()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		society.UpdatedBy = &actorID
	}

	if err := s.repo.Update(ctx, s.db, society); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", society, "Society updated")
	return society, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	society, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, society.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", society, "Society deleted")
	return nil
}

// uniqueCode slugs the society name, suffixing a counter on collision.
func (s *Service) uniqueCode(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	code := base
	for i := 2; ; i++ {
		existing, err := s.repo.FindByCode(ctx, s.db, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
		code = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Service) emitAudit(ctx context.Context, action string, society *societydomain.Society, description string) {
	if s.auditSvc == nil || society == nil {
		return
	}
	resourceID := society.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "society", &resourceID, description, map[string]any{
		"society_name": society.SocietyName,
		"society_code": society.SocietyCode,
	})
}
