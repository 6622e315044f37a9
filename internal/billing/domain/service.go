package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/societyhq/societyhub/pkg/pagination"
	"gorm.io/gorm"
)

type CreateChargeRequest struct {
	SocietyID      string     `json:"society_id" binding:"required"`
	ChargeName     string     `json:"charge_name" binding:"required"`
	ChargeType     string     `json:"charge_type"`
	BaseAmount     int64      `json:"base_amount"`
	PerUnitRate    int64      `json:"per_unit_rate"`
	UnitType       string     `json:"unit_type"`
	IsRecurring    bool       `json:"is_recurring"`
	ApplicableTo   string     `json:"applicable_to"`
	EffectiveFrom  *time.Time `json:"effective_from"`
	EffectiveUntil *time.Time `json:"effective_until"`
	Description    string     `json:"description"`
}

type UpdateChargeRequest struct {
	ID             string     `json:"-"`
	ChargeName     *string    `json:"charge_name"`
	ChargeType     *string    `json:"charge_type"`
	BaseAmount     *int64     `json:"base_amount"`
	PerUnitRate    *int64     `json:"per_unit_rate"`
	UnitType       *string    `json:"unit_type"`
	IsActive       *bool      `json:"is_active"`
	IsRecurring    *bool      `json:"is_recurring"`
	ApplicableTo   *string    `json:"applicable_to"`
	EffectiveFrom  *time.Time `json:"effective_from"`
	EffectiveUntil *time.Time `json:"effective_until"`
	Description    *string    `json:"description"`
}

type ListChargesRequest struct {
	pagination.Pagination
	SocietyID string `form:"society_id"`
	IsActive  *bool  `form:"is_active"`
}

type ListChargesResponse struct {
	Charges    []ChargeTemplate    `json:"charge_templates"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type BillItemInput struct {
	ChargeID    string `json:"charge_id"`
	ChargeName  string `json:"charge_name" binding:"required"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitRate    int64  `json:"unit_rate"`
	Amount      *int64 `json:"amount"`
}

type CreateBillRequest struct {
	SocietyID    string          `json:"society_id" binding:"required"`
	MemberID     string          `json:"member_id" binding:"required"`
	BillingMonth string          `json:"billing_month" binding:"required"`
	DueDate      *time.Time      `json:"due_date"`
	Notes        string          `json:"notes"`
	Items        []BillItemInput `json:"items"`
}

type UpdateBillRequest struct {
	ID      string     `json:"-"`
	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes"`
}

type ListBillsRequest struct {
	pagination.Pagination
	SocietyID    string `form:"society_id"`
	MemberID     string `form:"member_id"`
	Status       string `form:"status"`
	BillingMonth string `form:"billing_month"`
}

type ListBillsResponse struct {
	Bills      []MaintenanceBill   `json:"maintenance_bills"`
	Pagination pagination.PageInfo `json:"pagination"`
}

// BillDetail is a bill with its line items embedded.
type BillDetail struct {
	MaintenanceBill
	Items []MaintenanceBillItem `json:"items"`
}

type AddBillItemRequest struct {
	BillID string `json:"bill_id" binding:"required"`
	BillItemInput
}

type UpdateBillItemRequest struct {
	ID          string  `json:"-"`
	ChargeName  *string `json:"charge_name"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
	UnitRate    *int64  `json:"unit_rate"`
	Amount      *int64  `json:"amount"`
}

type Service interface {
	CreateCharge(ctx context.Context, req CreateChargeRequest) (*ChargeTemplate, error)
	ListCharges(ctx context.Context, req ListChargesRequest) (ListChargesResponse, error)
	GetChargeByID(ctx context.Context, id string) (*ChargeTemplate, error)
	UpdateCharge(ctx context.Context, req UpdateChargeRequest) (*ChargeTemplate, error)
	DeleteCharge(ctx context.Context, id string) error

	CreateBill(ctx context.Context, req CreateBillRequest) (*BillDetail, error)
	ListBills(ctx context.Context, req ListBillsRequest) (ListBillsResponse, error)
	GetBillByID(ctx context.Context, id string) (*BillDetail, error)
	UpdateBill(ctx context.Context, req UpdateBillRequest) (*MaintenanceBill, error)
	DeleteBill(ctx context.Context, id string) error

	AddBillItem(ctx context.Context, req AddBillItemRequest) (*MaintenanceBillItem, error)
	UpdateBillItem(ctx context.Context, req UpdateBillItemRequest) (*MaintenanceBillItem, error)
	DeleteBillItem(ctx context.Context, id string) error

	// Recompute refreshes a bill's total, pending amount and status from
	// its items inside the caller's transaction. Item edits and payments
	// both go through it.
	Recompute(ctx context.Context, tx *gorm.DB, billID snowflake.ID) (*MaintenanceBill, error)
}

var (
	ErrInvalidID           = errors.New("invalid_bill_id")
	ErrInvalidChargeName   = errors.New("invalid_charge_name")
	ErrInvalidBillingMonth = errors.New("invalid_billing_month")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrChargeNotFound      = errors.New("charge_template_not_found")
	ErrBillNotFound        = errors.New("bill_not_found")
	ErrBillItemNotFound    = errors.New("bill_item_not_found")
	ErrInvalidReference    = errors.New("invalid_bill_reference")
)
