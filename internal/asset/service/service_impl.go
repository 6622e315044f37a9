package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	assetdomain "github.com/societyhq/societyhub/internal/asset/domain"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/requestctx"
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
	Repo     assetdomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     assetdomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) assetdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("asset.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req assetdomain.CreateAssetRequest) (*assetdomain.Asset, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, assetdomain.ErrInvalidID
	}
	name := strings.TrimSpace(req.AssetName)
	if name == "" {
		return nil, assetdomain.ErrInvalidName
	}

	now := time.Now().UTC()
	asset := &assetdomain.Asset{
		ID:                  s.genID.Generate(),
		SocietyID:           societyID,
		AssetName:           name,
		AssetType:           strings.TrimSpace(req.AssetType),
		Category:            strings.TrimSpace(req.Category),
		Location:            strings.TrimSpace(req.Location),
		PurchaseDate:        req.PurchaseDate,
		PurchaseCost:        req.PurchaseCost,
		CurrentValue:        req.CurrentValue,
		Condition:           strings.TrimSpace(req.Condition),
		WarrantyUntil:       req.WarrantyUntil,
		MaintenanceSchedule: strings.TrimSpace(req.MaintenanceSchedule),
		Status:              "active",
		Description:         strings.TrimSpace(req.Description),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		asset.CreatedBy = &actorID
		asset.UpdatedBy = &actorID
	}

	if err := s.repo.Insert(ctx, s.db, asset); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "create", asset, "Asset created")
	return asset, nil
}

func (s *Service) List(ctx context.Context, req assetdomain.ListAssetsRequest) (assetdomain.ListAssetsResponse, error) {
	filter := assetdomain.ListFilter{
		AssetType: req.AssetType,
		Category:  req.Category,
		Status:    req.Status,
		Search:    req.Search,
		Offset:    req.Offset(),
		Limit:     req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return assetdomain.ListAssetsResponse{}, assetdomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return assetdomain.ListAssetsResponse{}, err
	}

	assets := make([]assetdomain.Asset, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		assets = append(assets, *item)
	}

	return assetdomain.ListAssetsResponse{
		Assets:     assets,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*assetdomain.Asset, error) {
	assetID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, assetdomain.ErrInvalidID
	}

	asset, err := s.repo.FindByID(ctx, s.db, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, assetdomain.ErrNotFound
	}
	return asset, nil
}

func (s *Service) Update(ctx context.Context, req assetdomain.UpdateAssetRequest) (*assetdomain.Asset, error) {
	asset, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.AssetName != nil {
		name := strings.TrimSpace(*req.AssetName)
		if name == "" {
			return nil, assetdomain.ErrInvalidName
		}
		asset.AssetName = name
	}
	if req.AssetType != nil {
		asset.AssetType = strings.TrimSpace(*req.AssetType)
	}
	if req.Category != nil {
		asset.Category = strings.TrimSpace(*req.Category)
	}
	if req.Location != nil {
		asset.Location = strings.TrimSpace(*req.Location)
	}
	if req.PurchaseCost != nil {
		asset.PurchaseCost = *req.PurchaseCost
	}
	if req.CurrentValue != nil {
		asset.CurrentValue = *req.CurrentValue
	}
	if req.Condition != nil {
		asset.Condition = strings.TrimSpace(*req.Condition)
	}
	if req.MaintenanceSchedule != nil {
		asset.MaintenanceSchedule = strings.TrimSpace(*req.MaintenanceSchedule)
	}
	if req.Status != nil {
		asset.Status = strings.TrimSpace(*req.Status)
	}
	if req.Description != nil {
		asset.Description = strings.TrimSpace(*req.Description)
	}
	asset.UpdatedAt = time.Now().UTC()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		asset.UpdatedBy = &actorID
	}

	if err := s.repo.Update(ctx, s.db, asset); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", asset, "Asset updated")
	return asset, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, asset.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", asset, "Asset deleted")
	return nil
}

func (s *Service) emitAudit(ctx context.Context, action string, asset *assetdomain.Asset, description string) {
	if s.auditSvc == nil || asset == nil {
		return
	}
	resourceID := asset.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "asset", &resourceID, description, map[string]any{
		"society_id": asset.SocietyID.String(),
		"asset_name": asset.AssetName,
	})
}
