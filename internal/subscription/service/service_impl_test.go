package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	subscriptiondomain "github.com/societyhq/societyhub/internal/subscription/domain"
	"github.com/societyhq/societyhub/internal/subscription/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupSubscriptionService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&subscriptiondomain.SubscriptionPlan{},
		&subscriptiondomain.SocietySubscription{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := &Service{
		db:    conn,
		log:   zaptest.NewLogger(t),
		genID: node,
		repo:  repository.Provide(),
	}
	return svc, conn, node
}

func TestCreatePlanRejectsDuplicateName(t *testing.T) {
	svc, _, _ := setupSubscriptionService(t)
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, subscriptiondomain.CreatePlanRequest{
		PlanName:  "starter",
		BasePrice: 49900,
	})
	require.NoError(t, err)

	_, err = svc.CreatePlan(ctx, subscriptiondomain.CreatePlanRequest{
		PlanName: "starter",
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrPlanExists)

	_, err = svc.CreatePlan(ctx, subscriptiondomain.CreatePlanRequest{PlanName: "   "})
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidPlanName)
}

func TestDefaultPlanFlip(t *testing.T) {
	svc, conn, _ := setupSubscriptionService(t)
	ctx := context.Background()

	first, err := svc.CreatePlan(ctx, subscriptiondomain.CreatePlanRequest{
		PlanName:  "starter",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreatePlan(ctx, subscriptiondomain.CreatePlanRequest{
		PlanName:  "growth",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	countDefaults := func() int64 {
		var n int64
		require.NoError(t, conn.Model(&subscriptiondomain.SubscriptionPlan{}).
			Where("is_default = ?", true).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), countDefaults())

	flipped, err := svc.SetDefaultPlan(ctx, first.ID.String())
	require.NoError(t, err)
	assert.True(t, flipped.IsDefault)
	assert.Equal(t, int64(1), countDefaults())

	reloaded, err := svc.GetPlanByID(ctx, second.ID.String())
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestSubscribeLifecycle(t *testing.T) {
	svc, _, node := setupSubscriptionService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, subscriptiondomain.CreatePlanRequest{
		PlanName: "starter",
	})
	require.NoError(t, err)

	societyID := node.Generate()
	sub, err := svc.Subscribe(ctx, subscriptiondomain.SubscribeRequest{
		SocietyID: societyID.String(),
		PlanID:    plan.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "active", sub.Status)
	assert.True(t, sub.AutoRenew)

	_, err = svc.Subscribe(ctx, subscriptiondomain.SubscribeRequest{
		SocietyID: societyID.String(),
		PlanID:    node.Generate().String(),
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrPlanNotFound)

	cancelled := "cancelled"
	reason := "moving providers"
	updated, err := svc.UpdateSubscription(ctx, subscriptiondomain.UpdateSubscriptionRequest{
		ID:                 sub.ID.String(),
		Status:             &cancelled,
		CancellationReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.Status)
	assert.NotNil(t, updated.CancelledAt)
	assert.Equal(t, reason, updated.CancellationReason)
}
