package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	billingrepository "github.com/societyhq/societyhub/internal/billing/repository"
	billingservice "github.com/societyhq/societyhub/internal/billing/service"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/config"
	paymentdomain "github.com/societyhq/societyhub/internal/payment/domain"
	"github.com/societyhq/societyhub/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type paymentFixture struct {
	svc     *Service
	billing billingdomain.Service
	clock   *clock.FakeClock
	conn    *gorm.DB
	node    *snowflake.Node
}

func setupPaymentService(t *testing.T) *paymentFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&billingdomain.MaintenanceBill{},
		&billingdomain.MaintenanceBillItem{},
		&paymentdomain.MaintenancePayment{},
		&paymentdomain.PaymentMethod{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)
	billingRepo := billingrepository.Provide()
	billingSvc := billingservice.NewService(billingservice.Params{
		DB:    conn,
		Log:   log,
		Clock: fake,
		GenID: node,
		Repo:  billingRepo,
	})

	settings := config.NewStaticBillingSettingsHolder(config.BillingSettings{
		Currency:             "INR",
		ReceiptPrefix:        "RCP",
		LockoutThreshold:     5,
		LockoutWindowMinutes: 30,
	})

	svc := &Service{
		db:          conn,
		log:         log,
		clock:       fake,
		genID:       node,
		settings:    settings,
		repo:        repository.Provide(),
		billingRepo: billingRepo,
		billingSvc:  billingSvc,
	}
	return &paymentFixture{svc: svc, billing: billingSvc, clock: fake, conn: conn, node: node}
}

func (f *paymentFixture) newBill(t *testing.T, amount int64) *billingdomain.BillDetail {
	t.Helper()
	detail, err := f.billing.CreateBill(context.Background(), billingdomain.CreateBillRequest{
		SocietyID:    f.node.Generate().String(),
		MemberID:     f.node.Generate().String(),
		BillingMonth: "2026-01",
		Items: []billingdomain.BillItemInput{
			{ChargeName: "Maintenance", Amount: &amount},
		},
	})
	require.NoError(t, err)
	return detail
}

func TestProcessPaymentPartialThenPaid(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	bill := f.newBill(t, 1500)

	first, err := f.svc.ProcessMaintenancePayment(ctx, paymentdomain.ProcessPaymentRequest{
		BillID:        bill.ID.String(),
		PaymentAmount: 600,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.Payment.ReceiptNumber, "RCP-"))
	assert.Len(t, first.Payment.ReceiptNumber, len("RCP-")+26)
	assert.Equal(t, bill.SocietyID, first.Payment.SocietyID)
	assert.Equal(t, bill.MemberID, first.Payment.MemberID)
	assert.Equal(t, int64(600), first.Bill.PaidAmount)
	assert.Equal(t, int64(900), first.Bill.PendingAmount)
	assert.Equal(t, billingdomain.BillStatusPartial, first.Bill.Status)
	assert.Nil(t, first.Bill.PaidAt)

	second, err := f.svc.ProcessMaintenancePayment(ctx, paymentdomain.ProcessPaymentRequest{
		BillID:        bill.ID.String(),
		PaymentAmount: 900,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1500), second.Bill.PaidAmount)
	assert.Equal(t, int64(0), second.Bill.PendingAmount)
	assert.Equal(t, billingdomain.BillStatusPaid, second.Bill.Status)
	require.NotNil(t, second.Bill.PaidAt)
	assert.Equal(t, f.clock.Now(), second.Bill.PaidAt.UTC())

	assert.NotEqual(t, first.Payment.ReceiptNumber, second.Payment.ReceiptNumber)
}

func TestProcessPaymentOverpaymentStaysPaid(t *testing.T) {
	f := setupPaymentService(t)
	bill := f.newBill(t, 1500)

	resp, err := f.svc.ProcessMaintenancePayment(context.Background(), paymentdomain.ProcessPaymentRequest{
		BillID:        bill.ID.String(),
		PaymentAmount: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, billingdomain.BillStatusPaid, resp.Bill.Status)
	assert.Equal(t, int64(-500), resp.Bill.PendingAmount)
	assert.NotNil(t, resp.Bill.PaidAt)
}

func TestProcessPaymentValidation(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	bill := f.newBill(t, 1000)

	_, err := f.svc.ProcessMaintenancePayment(ctx, paymentdomain.ProcessPaymentRequest{
		BillID:        bill.ID.String(),
		PaymentAmount: 0,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	_, err = f.svc.ProcessMaintenancePayment(ctx, paymentdomain.ProcessPaymentRequest{
		BillID:        "not-a-snowflake",
		PaymentAmount: 100,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidID)

	_, err = f.svc.ProcessMaintenancePayment(ctx, paymentdomain.ProcessPaymentRequest{
		BillID:        f.node.Generate().String(),
		PaymentAmount: 100,
	})
	assert.ErrorIs(t, err, billingdomain.ErrBillNotFound)
}

func TestItemEditAfterPaymentReopensBill(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	bill := f.newBill(t, 1000)

	resp, err := f.svc.ProcessMaintenancePayment(ctx, paymentdomain.ProcessPaymentRequest{
		BillID:        bill.ID.String(),
		PaymentAmount: 1000,
	})
	require.NoError(t, err)
	require.Equal(t, billingdomain.BillStatusPaid, resp.Bill.Status)
	require.NotNil(t, resp.Bill.PaidAt)

	// A late charge reopens the bill through the same recompute path.
	extra := int64(500)
	_, err = f.billing.AddBillItem(ctx, billingdomain.AddBillItemRequest{
		BillID:        bill.ID.String(),
		BillItemInput: billingdomain.BillItemInput{ChargeName: "Late fee", Amount: &extra},
	})
	require.NoError(t, err)

	after, err := f.billing.GetBillByID(ctx, bill.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), after.TotalAmount)
	assert.Equal(t, int64(500), after.PendingAmount)
	assert.Equal(t, billingdomain.BillStatusPartial, after.Status)
	assert.Nil(t, after.PaidAt)
}

func TestDefaultPaymentMethodFlip(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	societyID := f.node.Generate()

	first, err := f.svc.CreateMethod(ctx, paymentdomain.CreateMethodRequest{
		SocietyID:   societyID.String(),
		PaymentType: "bank_transfer",
		IsDefault:   true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := f.svc.CreateMethod(ctx, paymentdomain.CreateMethodRequest{
		SocietyID:   societyID.String(),
		PaymentType: "upi",
		IsDefault:   true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	countDefaults := func() int64 {
		var n int64
		require.NoError(t, f.conn.Model(&paymentdomain.PaymentMethod{}).
			Where("society_id = ? AND is_default = ?", societyID, true).
			Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), countDefaults())

	flipped, err := f.svc.SetDefaultMethod(ctx, first.ID.String())
	require.NoError(t, err)
	assert.True(t, flipped.IsDefault)
	assert.Equal(t, int64(1), countDefaults())

	current, err := f.svc.GetMethodByID(ctx, second.ID.String())
	require.NoError(t, err)
	assert.False(t, current.IsDefault)
}
