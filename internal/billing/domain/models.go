package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	BillStatusPending = "pending"
	BillStatusPartial = "partial"
	BillStatusPaid    = "paid"
)

// StatusFor derives a bill status from its totals. The same formula is
// applied after item edits and after payments so the two paths can never
// disagree.
func StatusFor(total, paid int64) string {
	pending := total - paid
	switch {
	case pending <= 0:
		return BillStatusPaid
	case paid > 0:
		return BillStatusPartial
	default:
		return BillStatusPending
	}
}

// ChargeTemplate is a reusable line-item definition scoped to a society.
// Amounts are integer minor units.
type ChargeTemplate struct {
	ID             snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID      snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	ChargeName     string        `gorm:"column:charge_name" json:"charge_name"`
	ChargeType     string        `gorm:"column:charge_type" json:"charge_type,omitempty"`
	BaseAmount     int64         `gorm:"column:base_amount" json:"base_amount"`
	PerUnitRate    int64         `gorm:"column:per_unit_rate" json:"per_unit_rate"`
	UnitType       string        `gorm:"column:unit_type" json:"unit_type,omitempty"`
	IsActive       bool          `gorm:"column:is_active" json:"is_active"`
	IsRecurring    bool          `gorm:"column:is_recurring" json:"is_recurring"`
	ApplicableTo   string        `gorm:"column:applicable_to" json:"applicable_to,omitempty"`
	EffectiveFrom  *time.Time    `gorm:"column:effective_from" json:"effective_from,omitempty"`
	EffectiveUntil *time.Time    `gorm:"column:effective_until" json:"effective_until,omitempty"`
	Description    string        `gorm:"column:description" json:"description,omitempty"`
	CreatedBy      *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy      *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt      time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (ChargeTemplate) TableName() string { return "charge_templates" }

// MaintenanceBill carries denormalized totals recomputed from its items.
// pending_amount is always total_amount - paid_amount after a mutation
// commits.
type MaintenanceBill struct {
	ID            snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID     snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	MemberID      snowflake.ID  `gorm:"column:member_id" json:"member_id"`
	BillNumber    string        `gorm:"column:bill_number" json:"bill_number"`
	BillingMonth  string        `gorm:"column:billing_month" json:"billing_month"`
	DueDate       *time.Time    `gorm:"column:due_date" json:"due_date,omitempty"`
	TotalAmount   int64         `gorm:"column:total_amount" json:"total_amount"`
	PaidAmount    int64         `gorm:"column:paid_amount" json:"paid_amount"`
	PendingAmount int64         `gorm:"column:pending_amount" json:"pending_amount"`
	Status        string        `gorm:"column:status" json:"status"`
	PaidAt        *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`
	Notes         string        `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy     *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy     *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (MaintenanceBill) TableName() string { return "maintenance_bills" }

// MaintenanceBillItem is a single line on a bill. amount is the charged
// value; quantity and unit_rate record how it was derived.
type MaintenanceBillItem struct {
	ID          snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	BillID      snowflake.ID  `gorm:"column:bill_id" json:"bill_id"`
	ChargeID    *snowflake.ID `gorm:"column:charge_id" json:"charge_id,omitempty"`
	ChargeName  string        `gorm:"column:charge_name" json:"charge_name"`
	Description string        `gorm:"column:description" json:"description,omitempty"`
	Quantity    int           `gorm:"column:quantity" json:"quantity"`
	UnitRate    int64         `gorm:"column:unit_rate" json:"unit_rate"`
	Amount      int64         `gorm:"column:amount" json:"amount"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (MaintenanceBillItem) TableName() string { return "maintenance_bill_items" }

// ChargeListFilter narrows charge-template listings.
type ChargeListFilter struct {
	SocietyID *snowflake.ID
	IsActive  *bool
	Offset    int
	Limit     int
}

// BillListFilter narrows bill listings.
type BillListFilter struct {
	SocietyID    *snowflake.ID
	MemberID     *snowflake.ID
	Status       string
	BillingMonth string
	Offset       int
	Limit        int
}

type Repository interface {
	InsertCharge(ctx context.Context, db *gorm.DB, charge *ChargeTemplate) error
	FindChargeByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ChargeTemplate, error)
	ListCharges(ctx context.Context, db *gorm.DB, filter ChargeListFilter) ([]*ChargeTemplate, int64, error)
	UpdateCharge(ctx context.Context, db *gorm.DB, charge *ChargeTemplate) error
	DeleteCharge(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertBill(ctx context.Context, db *gorm.DB, bill *MaintenanceBill) error
	FindBillByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MaintenanceBill, error)
	// FindBillByIDForUpdate acquires a row lock; only meaningful inside a
	// transaction.
	FindBillByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MaintenanceBill, error)
	ListBills(ctx context.Context, db *gorm.DB, filter BillListFilter) ([]*MaintenanceBill, int64, error)
	UpdateBill(ctx context.Context, db *gorm.DB, bill *MaintenanceBill) error
	DeleteBill(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// SumItemAmounts totals the bill's line items, treating no rows as zero.
	SumItemAmounts(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error)

	InsertItem(ctx context.Context, db *gorm.DB, item *MaintenanceBillItem) error
	FindItemByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MaintenanceBillItem, error)
	ListItemsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]*MaintenanceBillItem, error)
	UpdateItem(ctx context.Context, db *gorm.DB, item *MaintenanceBillItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteItemsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) error
}
