package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/societyhq/societyhub/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, plan *subscriptiondomain.SubscriptionPlan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindPlanByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*subscriptiondomain.SubscriptionPlan, error) {
	var plan subscriptiondomain.SubscriptionPlan
	err := db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repo) FindPlanByName(ctx context.Context, db *gorm.DB, name string) (*subscriptiondomain.SubscriptionPlan, error) {
	var plan subscriptiondomain.SubscriptionPlan
	err := db.WithContext(ctx).Where("plan_name = ?", name).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB, filter subscriptiondomain.PlanListFilter) ([]*subscriptiondomain.SubscriptionPlan, int64, error) {
	stmt := db.WithContext(ctx).Model(&subscriptiondomain.SubscriptionPlan{})

	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plans []*subscriptiondomain.SubscriptionPlan
	stmt = stmt.Order("base_price asc, plan_name asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&plans).Error; err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

func (r *repo) UpdatePlan(ctx context.Context, db *gorm.DB, plan *subscriptiondomain.SubscriptionPlan) error {
	return db.WithContext(ctx).Save(plan).Error
}

func (r *repo) DeletePlan(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&subscriptiondomain.SubscriptionPlan{}).Error
}

func (r *repo) UnsetDefaultPlan(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_plans
		 SET is_default = FALSE, updated_at = ?
		 WHERE is_default = TRUE`,
		now,
	).Error
}

func (r *repo) InsertSubscription(ctx context.Context, db *gorm.DB, sub *subscriptiondomain.SocietySubscription) error {
	return db.WithContext(ctx).Create(sub).Error
}

func (r *repo) FindSubscriptionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*subscriptiondomain.SocietySubscription, error) {
	var sub subscriptiondomain.SocietySubscription
	err := db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repo) ListSubscriptions(ctx context.Context, db *gorm.DB, filter subscriptiondomain.SubscriptionListFilter) ([]*subscriptiondomain.SocietySubscription, int64, error) {
	stmt := db.WithContext(ctx).Model(&subscriptiondomain.SocietySubscription{})

	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.PlanID != nil {
		stmt = stmt.Where("plan_id = ?", *filter.PlanID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []*subscriptiondomain.SocietySubscription
	stmt = stmt.Order("created_at desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *repo) UpdateSubscription(ctx context.Context, db *gorm.DB, sub *subscriptiondomain.SocietySubscription) error {
	return db.WithContext(ctx).Save(sub).Error
}
