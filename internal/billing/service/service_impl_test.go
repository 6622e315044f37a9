package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"github.com/societyhq/societyhub/internal/billing/repository"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupBillingService(t *testing.T) (*Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&billingdomain.ChargeTemplate{},
		&billingdomain.MaintenanceBill{},
		&billingdomain.MaintenanceBillItem{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	svc := &Service{
		db:    conn,
		log:   zaptest.NewLogger(t),
		clock: fake,
		genID: node,
		repo:  repository.Provide(),
	}
	return svc, fake, conn
}

func TestCreateBillRecomputesTotals(t *testing.T) {
	svc, _, _ := setupBillingService(t)
	ctx := context.Background()
	node, _ := snowflake.NewNode(3)
	societyID := node.Generate()
	memberID := node.Generate()

	maintenance := int64(1200)
	water := int64(300)
	detail, err := svc.CreateBill(ctx, billingdomain.CreateBillRequest{
		SocietyID:    societyID.String(),
		MemberID:     memberID.String(),
		BillingMonth: "2026-01",
		Items: []billingdomain.BillItemInput{
			{ChargeName: "Maintenance", Amount: &maintenance},
			{ChargeName: "Water", Amount: &water},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(detail.BillNumber, "BILL-202601-"))
	assert.Equal(t, int64(1500), detail.TotalAmount)
	assert.Equal(t, int64(1500), detail.PendingAmount)
	assert.Equal(t, int64(0), detail.PaidAmount)
	assert.Equal(t, billingdomain.BillStatusPending, detail.Status)
	assert.Nil(t, detail.PaidAt)
	assert.Len(t, detail.Items, 2)
}

func TestCreateBillRejectsBadMonth(t *testing.T) {
	svc, _, _ := setupBillingService(t)
	node, _ := snowflake.NewNode(3)

	_, err := svc.CreateBill(context.Background(), billingdomain.CreateBillRequest{
		SocietyID:    node.Generate().String(),
		MemberID:     node.Generate().String(),
		BillingMonth: "Jan-2026",
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidBillingMonth)
}

func TestItemMutationsRecomputeBill(t *testing.T) {
	svc, _, _ := setupBillingService(t)
	ctx := context.Background()
	node, _ := snowflake.NewNode(3)

	base := int64(1000)
	detail, err := svc.CreateBill(ctx, billingdomain.CreateBillRequest{
		SocietyID:    node.Generate().String(),
		MemberID:     node.Generate().String(),
		BillingMonth: "2026-02",
		Items: []billingdomain.BillItemInput{
			{ChargeName: "Maintenance", Amount: &base},
		},
	})
	require.NoError(t, err)

	item, err := svc.AddBillItem(ctx, billingdomain.AddBillItemRequest{
		BillID: detail.ID.String(),
		BillItemInput: billingdomain.BillItemInput{
			ChargeName: "Parking",
			Quantity:   1,
			UnitRate:   500,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), item.Amount)

	after, err := svc.GetBillByID(ctx, detail.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), after.TotalAmount)
	assert.Equal(t, int64(1500), after.PendingAmount)

	// Quantity change without an explicit amount re-derives it.
	quantity := 3
	updated, err := svc.UpdateBillItem(ctx, billingdomain.UpdateBillItemRequest{
		ID:       item.ID.String(),
		Quantity: &quantity,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.Amount)

	after, err = svc.GetBillByID(ctx, detail.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2500), after.TotalAmount)

	require.NoError(t, svc.DeleteBillItem(ctx, item.ID.String()))

	after, err = svc.GetBillByID(ctx, detail.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), after.TotalAmount)
	assert.Equal(t, billingdomain.BillStatusPending, after.Status)
	assert.Len(t, after.Items, 1)
}

func TestUpdateBillItemExplicitAmountWins(t *testing.T) {
	svc, _, _ := setupBillingService(t)
	ctx := context.Background()
	node, _ := snowflake.NewNode(3)

	detail, err := svc.CreateBill(ctx, billingdomain.CreateBillRequest{
		SocietyID:    node.Generate().String(),
		MemberID:     node.Generate().String(),
		BillingMonth: "2026-03",
		Items: []billingdomain.BillItemInput{
			{ChargeName: "Maintenance", Quantity: 2, UnitRate: 400},
		},
	})
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, int64(800), detail.Items[0].Amount)

	quantity := 5
	explicit := int64(999)
	updated, err := svc.UpdateBillItem(ctx, billingdomain.UpdateBillItemRequest{
		ID:       detail.Items[0].ID.String(),
		Quantity: &quantity,
		Amount:   &explicit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(999), updated.Amount)

	after, err := svc.GetBillByID(ctx, detail.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(999), after.TotalAmount)
}

func TestBillItemValidation(t *testing.T) {
	svc, _, _ := setupBillingService(t)
	ctx := context.Background()
	node, _ := snowflake.NewNode(3)

	negative := int64(-100)
	_, err := svc.CreateBill(ctx, billingdomain.CreateBillRequest{
		SocietyID:    node.Generate().String(),
		MemberID:     node.Generate().String(),
		BillingMonth: "2026-01",
		Items: []billingdomain.BillItemInput{
			{ChargeName: "Maintenance", Amount: &negative},
		},
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidAmount)

	_, err = svc.AddBillItem(ctx, billingdomain.AddBillItemRequest{
		BillID:        node.Generate().String(),
		BillItemInput: billingdomain.BillItemInput{ChargeName: "Orphan", UnitRate: 100},
	})
	assert.ErrorIs(t, err, billingdomain.ErrBillNotFound)

	_, err = svc.AddBillItem(ctx, billingdomain.AddBillItemRequest{
		BillID:        "not-a-snowflake",
		BillItemInput: billingdomain.BillItemInput{ChargeName: "Orphan"},
	})
	assert.ErrorIs(t, err, billingdomain.ErrInvalidID)
}

func TestDeleteBillRemovesItems(t *testing.T) {
	svc, _, conn := setupBillingService(t)
	ctx := context.Background()
	node, _ := snowflake.NewNode(3)

	amount := int64(700)
	detail, err := svc.CreateBill(ctx, billingdomain.CreateBillRequest{
		SocietyID:    node.Generate().String(),
		MemberID:     node.Generate().String(),
		BillingMonth: "2026-04",
		Items: []billingdomain.BillItemInput{
			{ChargeName: "Maintenance", Amount: &amount},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBill(ctx, detail.ID.String()))

	_, err = svc.GetBillByID(ctx, detail.ID.String())
	assert.ErrorIs(t, err, billingdomain.ErrBillNotFound)

	var orphans int64
	require.NoError(t, conn.Model(&billingdomain.MaintenanceBillItem{}).
		Where("bill_id = ?", detail.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)
}
