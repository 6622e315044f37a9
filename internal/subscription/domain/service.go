package domain

import (
	"context"
	"errors"
	"time"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CreatePlanRequest struct {
	PlanName       string         `json:"plan_name" binding:"required"`
	DisplayName    string         `json:"display_name"`
	Description    string         `json:"description"`
	BasePrice      int64          `json:"base_price"`
	PricePerMember int64          `json:"price_per_member"`
	MinMembers     int            `json:"min_members"`
	MaxMembers     *int           `json:"max_members"`
	Features       map[string]any `json:"features"`
	IsDefault      bool           `json:"is_default"`
	TrialDays      int            `json:"trial_days"`
}

type UpdatePlanRequest struct {
	ID             string          `json:"-"`
	DisplayName    *string         `json:"display_name"`
	Description    *string         `json:"description"`
	BasePrice      *int64          `json:"base_price"`
	PricePerMember *int64          `json:"price_per_member"`
	MinMembers     *int            `json:"min_members"`
	MaxMembers     *int            `json:"max_members"`
	Features       map[string]any  `json:"features"`
	IsActive       *bool           `json:"is_active"`
	TrialDays      *int            `json:"trial_days"`
}

type ListPlansRequest struct {
	pagination.Pagination
	IsActive *bool `form:"is_active"`
}

type ListPlansResponse struct {
	Plans      []SubscriptionPlan  `json:"subscription_plans"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type SubscribeRequest struct {
	SocietyID         string     `json:"society_id" binding:"required"`
	PlanID            string     `json:"plan_id" binding:"required"`
	MemberCount       int        `json:"member_count"`
	BillingCycleStart *time.Time `json:"billing_cycle_start"`
	BillingCycleEnd   *time.Time `json:"billing_cycle_end"`
	NextBillingDate   *time.Time `json:"next_billing_date"`
	AutoRenew         *bool      `json:"auto_renew"`
}

type UpdateSubscriptionRequest struct {
	ID                 string  `json:"-"`
	MemberCount        *int    `json:"member_count"`
	AutoRenew          *bool   `json:"auto_renew"`
	Status             *string `json:"status"`
	CancellationReason *string `json:"cancellation_reason"`
}

type ListSubscriptionsRequest struct {
	pagination.Pagination
	SocietyID string `form:"society_id"`
	PlanID    string `form:"plan_id"`
	Status    string `form:"status"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []SocietySubscription `json:"society_subscriptions"`
	Pagination    pagination.PageInfo   `json:"pagination"`
}

type Service interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*SubscriptionPlan, error)
	ListPlans(ctx context.Context, req ListPlansRequest) (ListPlansResponse, error)
	GetPlanByID(ctx context.Context, id string) (*SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, req UpdatePlanRequest) (*SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id string) error
	// SetDefaultPlan flips the single default plan in one transaction.
	SetDefaultPlan(ctx context.Context, id string) (*SubscriptionPlan, error)

	Subscribe(ctx context.Context, req SubscribeRequest) (*SocietySubscription, error)
	ListSubscriptions(ctx context.Context, req ListSubscriptionsRequest) (ListSubscriptionsResponse, error)
	GetSubscriptionByID(ctx context.Context, id string) (*SocietySubscription, error)
	UpdateSubscription(ctx context.Context, req UpdateSubscriptionRequest) (*SocietySubscription, error)
}

var (
	ErrInvalidID            = errors.New("invalid_subscription_id")
	ErrInvalidPlanName      = errors.New("invalid_plan_name")
	ErrPlanExists           = errors.New("plan_already_exists")
	ErrPlanNotFound         = errors.New("plan_not_found")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
