package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubscriptionPlan is a platform pricing tier. At most one plan is the
// default at a time; a partial unique index backs the application-level
// flip. Prices are integer minor units.
type SubscriptionPlan struct {
	ID             snowflake.ID      `gorm:"column:id;primaryKey" json:"id"`
	PlanName       string            `gorm:"column:plan_name" json:"plan_name"`
	DisplayName    string            `gorm:"column:display_name" json:"display_name"`
	Description    string            `gorm:"column:description" json:"description"`
	BasePrice      int64             `gorm:"column:base_price" json:"base_price"`
	PricePerMember int64             `gorm:"column:price_per_member" json:"price_per_member"`
	MinMembers     int               `gorm:"column:min_members" json:"min_members"`
	MaxMembers     *int              `gorm:"column:max_members" json:"max_members,omitempty"`
	Features       datatypes.JSONMap `gorm:"column:features;type:jsonb" json:"features,omitempty"`
	IsActive       bool              `gorm:"column:is_active" json:"is_active"`
	IsDefault      bool              `gorm:"column:is_default" json:"is_default"`
	TrialDays      int               `gorm:"column:trial_days" json:"trial_days"`
	CreatedBy      *snowflake.ID     `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy      *snowflake.ID     `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (SubscriptionPlan) TableName() string { return "subscription_plans" }

// SocietySubscription enrolls a society on a plan for a billing cycle.
type SocietySubscription struct {
	ID                 snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID          snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	PlanID             snowflake.ID  `gorm:"column:plan_id" json:"plan_id"`
	MemberCount        int           `gorm:"column:member_count" json:"member_count"`
	BillingCycleStart  *time.Time    `gorm:"column:billing_cycle_start" json:"billing_cycle_start,omitempty"`
	BillingCycleEnd    *time.Time    `gorm:"column:billing_cycle_end" json:"billing_cycle_end,omitempty"`
	NextBillingDate    *time.Time    `gorm:"column:next_billing_date" json:"next_billing_date,omitempty"`
	AutoRenew          bool          `gorm:"column:auto_renew" json:"auto_renew"`
	Status             string        `gorm:"column:status" json:"status"`
	CancelledAt        *time.Time    `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason string        `gorm:"column:cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedBy          *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy          *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt          time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (SocietySubscription) TableName() string { return "society_subscriptions" }

// PlanListFilter narrows plan listings.
type PlanListFilter struct {
	IsActive *bool
	Offset   int
	Limit    int
}

// SubscriptionListFilter narrows society-subscription listings.
type SubscriptionListFilter struct {
	SocietyID *snowflake.ID
	PlanID    *snowflake.ID
	Status    string
	Offset    int
	Limit     int
}

type Repository interface {
	InsertPlan(ctx context.Context, db *gorm.DB, plan *SubscriptionPlan) error
	FindPlanByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SubscriptionPlan, error)
	FindPlanByName(ctx context.Context, db *gorm.DB, name string) (*SubscriptionPlan, error)
	ListPlans(ctx context.Context, db *gorm.DB, filter PlanListFilter) ([]*SubscriptionPlan, int64, error)
	UpdatePlan(ctx context.Context, db *gorm.DB, plan *SubscriptionPlan) error
	DeletePlan(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// UnsetDefaultPlan clears the default flag on every plan.
	UnsetDefaultPlan(ctx context.Context, db *gorm.DB, now time.Time) error

	InsertSubscription(ctx context.Context, db *gorm.DB, sub *SocietySubscription) error
	FindSubscriptionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SocietySubscription, error)
	ListSubscriptions(ctx context.Context, db *gorm.DB, filter SubscriptionListFilter) ([]*SocietySubscription, int64, error)
	UpdateSubscription(ctx context.Context, db *gorm.DB, sub *SocietySubscription) error
}
