package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	"github.com/societyhq/societyhub/internal/db"
	"github.com/societyhq/societyhub/internal/requestctx"
	subscriptiondomain "github.com/societyhq/societyhub/internal/subscription/domain"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     subscriptiondomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     subscriptiondomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) subscriptiondomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) CreatePlan(ctx context.Context, req subscriptiondomain.CreatePlanRequest) (*subscriptiondomain.SubscriptionPlan, error) {
	name := strings.TrimSpace(req.PlanName)
	if name == "" {
		return nil, subscriptiondomain.ErrInvalidPlanName
	}

	existing, err := s.repo.FindPlanByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, subscriptiondomain.ErrPlanExists
	}

	now := time.Now().UTC()
	plan := &subscriptiondomain.SubscriptionPlan{
		ID:             s.genID.Generate(),
		PlanName:       name,
		DisplayName:    strings.TrimSpace(req.DisplayName),
		Description:    strings.TrimSpace(req.Description),
		BasePrice:      req.BasePrice,
		PricePerMember: req.PricePerMember,
		MinMembers:     req.MinMembers,
		MaxMembers:     req.MaxMembers,
		Features:       normalizeFeatures(req.Features),
		IsActive:       true,
		IsDefault:      req.IsDefault,
		TrialDays:      req.TrialDays,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if plan.DisplayName == "" {
		plan.DisplayName = name
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		plan.CreatedBy = &actorID
		plan.UpdatedBy = &actorID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := s.repo.UnsetDefaultPlan(ctx, tx, now); err != nil {
				return err
			}
		}
		return s.repo.InsertPlan(ctx, tx, plan)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, subscriptiondomain.ErrPlanExists
		}
		return nil, err
	}

	s.emitPlanAudit(ctx, "create", plan, "Subscription plan created")
	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, req subscriptiondomain.ListPlansRequest) (subscriptiondomain.ListPlansResponse, error) {
	items, total, err := s.repo.ListPlans(ctx, s.db, subscriptiondomain.PlanListFilter{
		IsActive: req.IsActive,
		Offset:   req.Offset(),
		Limit:    req.Normalize().Limit,
	})
	if err != nil {
		return subscriptiondomain.ListPlansResponse{}, err
	}

	plans := make([]subscriptiondomain.SubscriptionPlan, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		plans = append(plans, *item)
	}

	return subscriptiondomain.ListPlansResponse{
		Plans:      plans,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetPlanByID(ctx context.Context, id string) (*subscriptiondomain.SubscriptionPlan, error) {
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, subscriptiondomain.ErrInvalidID
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, subscriptiondomain.ErrPlanNotFound
	}
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, req subscriptiondomain.UpdatePlanRequest) (*subscriptiondomain.SubscriptionPlan, error) {
	plan, err := s.GetPlanByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		plan.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Description != nil {
		plan.Description = strings.TrimSpace(*req.Description)
	}
	if req.BasePrice != nil {
		plan.BasePrice = *req.BasePrice
	}
	if req.PricePerMember != nil {
		plan.PricePerMember = *req.PricePerMember
	}
	if req.MinMembers != nil {
		plan.MinMembers = *req.MinMembers
	}
	if req.MaxMembers != nil {
		plan.MaxMembers = req.MaxMembers
	}
	if req.Features != nil {
		plan.Features = normalizeFeatures(req.Features)
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.TrialDays != nil {
		plan.TrialDays = *req.TrialDays
	}
	plan.UpdatedAt = time.Now().UTC()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		plan.UpdatedBy = &actorID
	}

	if err := s.repo.UpdatePlan(ctx, s.db, plan); err != nil {
		return nil, err
	}

	s.emitPlanAudit(ctx, "update", plan, "Subscription plan updated")
	return plan, nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	plan, err := s.GetPlanByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePlan(ctx, s.db, plan.ID); err != nil {
		return err
	}

	s.emitPlanAudit(ctx, "delete", plan, "Subscription plan deleted")
	return nil
}

func (s *Service) SetDefaultPlan(ctx context.Context, id string) (*subscriptiondomain.SubscriptionPlan, error) {
	plan, err := s.GetPlanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UnsetDefaultPlan(ctx, tx, now); err != nil {
			return err
		}
		plan.IsDefault = true
		plan.UpdatedAt = now
		return s.repo.UpdatePlan(ctx, tx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.emitPlanAudit(ctx, "update", plan, "Default subscription plan set")
	return plan, nil
}

func (s *Service) Subscribe(ctx context.Context, req subscriptiondomain.SubscribeRequest) (*subscriptiondomain.SocietySubscription, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, subscriptiondomain.ErrInvalidID
	}
	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil {
		return nil, subscriptiondomain.ErrInvalidID
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, subscriptiondomain.ErrPlanNotFound
	}

	now := time.Now().UTC()
	sub := &subscriptiondomain.SocietySubscription{
		ID:                s.genID.Generate(),
		SocietyID:         societyID,
		PlanID:            planID,
		MemberCount:       req.MemberCount,
		BillingCycleStart: req.BillingCycleStart,
		BillingCycleEnd:   req.BillingCycleEnd,
		NextBillingDate:   req.NextBillingDate,
		AutoRenew:         true,
		Status:            "active",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.AutoRenew != nil {
		sub.AutoRenew = *req.AutoRenew
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		sub.CreatedBy = &actorID
		sub.UpdatedBy = &actorID
	}

	if err := s.repo.InsertSubscription(ctx, s.db, sub); err != nil {
		return nil, err
	}

	s.emitSubscriptionAudit(ctx, "create", sub, "Society subscribed to plan")
	return sub, nil
}

func (s *Service) ListSubscriptions(ctx context.Context, req subscriptiondomain.ListSubscriptionsRequest) (subscriptiondomain.ListSubscriptionsResponse, error) {
	filter := subscriptiondomain.SubscriptionListFilter{
		Status: req.Status,
		Offset: req.Offset(),
		Limit:  req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return subscriptiondomain.ListSubscriptionsResponse{}, subscriptiondomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}
	if trimmed := strings.TrimSpace(req.PlanID); trimmed != "" {
		planID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return subscriptiondomain.ListSubscriptionsResponse{}, subscriptiondomain.ErrInvalidID
		}
		filter.PlanID = &planID
	}

	items, total, err := s.repo.ListSubscriptions(ctx, s.db, filter)
	if err != nil {
		return subscriptiondomain.ListSubscriptionsResponse{}, err
	}

	subs := make([]subscriptiondomain.SocietySubscription, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		subs = append(subs, *item)
	}

	return subscriptiondomain.ListSubscriptionsResponse{
		Subscriptions: subs,
		Pagination:    pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetSubscriptionByID(ctx context.Context, id string) (*subscriptiondomain.SocietySubscription, error) {
	subID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, subscriptiondomain.ErrInvalidID
	}

	sub, err := s.repo.FindSubscriptionByID(ctx, s.db, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, subscriptiondomain.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *Service) UpdateSubscription(ctx context.Context, req subscriptiondomain.UpdateSubscriptionRequest) (*subscriptiondomain.SocietySubscription, error) {
	sub, err := s.GetSubscriptionByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.MemberCount != nil {
		sub.MemberCount = *req.MemberCount
	}
	if req.AutoRenew != nil {
		sub.AutoRenew = *req.AutoRenew
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		sub.Status = status
		if status == "cancelled" && sub.CancelledAt == nil {
			sub.CancelledAt = &now
		}
	}
	if req.CancellationReason != nil {
		sub.CancellationReason = strings.TrimSpace(*req.CancellationReason)
	}
	sub.UpdatedAt = now
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		sub.UpdatedBy = &actorID
	}

	if err := s.repo.UpdateSubscription(ctx, s.db, sub); err != nil {
		return nil, err
	}

	s.emitSubscriptionAudit(ctx, "update", sub, "Society subscription updated")
	return sub, nil
}

func (s *Service) emitPlanAudit(ctx context.Context, action string, plan *subscriptiondomain.SubscriptionPlan, description string) {
	if s.auditSvc == nil || plan == nil {
		return
	}
	resourceID := plan.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "subscription_plan", &resourceID, description, map[string]any{
		"plan_name":  plan.PlanName,
		"is_default": plan.IsDefault,
	})
}

func (s *Service) emitSubscriptionAudit(ctx context.Context, action string, sub *subscriptiondomain.SocietySubscription, description string) {
	if s.auditSvc == nil || sub == nil {
		return
	}
	resourceID := sub.ID
	_ = s.auditSvc.AuditLog(ctx, nil, action, "society_subscription", &resourceID, description, map[string]any{
		"society_id": sub.SocietyID.String(),
		"plan_id":    sub.PlanID.String(),
		"status":     sub.Status,
	})
}

func normalizeFeatures(input map[string]any) datatypes.JSONMap {
	if input == nil {
		return datatypes.JSONMap{}
	}
	output := datatypes.JSONMap{}
	for key, value := range input {
		if key == "" {
			continue
		}
		output[key] = value
	}
	return output
}
