package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// MaintenancePayment is an append-only record of money received against a
// bill. Rows are never updated after insert; corrections are new payments.
type MaintenancePayment struct {
	ID               snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	BillID           snowflake.ID  `gorm:"column:bill_id" json:"bill_id"`
	SocietyID        snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	MemberID         snowflake.ID  `gorm:"column:member_id" json:"member_id"`
	PaymentAmount    int64         `gorm:"column:payment_amount" json:"payment_amount"`
	PaymentDate      time.Time     `gorm:"column:payment_date" json:"payment_date"`
	PaymentMethod    string        `gorm:"column:payment_method" json:"payment_method,omitempty"`
	PaymentReference string        `gorm:"column:payment_reference" json:"payment_reference,omitempty"`
	PaymentStatus    string        `gorm:"column:payment_status" json:"payment_status"`
	ReceivedBy       *snowflake.ID `gorm:"column:received_by" json:"received_by,omitempty"`
	ReceiptNumber    string        `gorm:"column:receipt_number" json:"receipt_number"`
	CreatedBy        *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy        *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt        time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (MaintenancePayment) TableName() string { return "maintenance_payments" }

// PaymentMethod is a society's registered way to receive payments. At
// most one per society is the default; a partial unique index backs the
// transactional flip.
type PaymentMethod struct {
	ID                 snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID          snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	PaymentType        string        `gorm:"column:payment_type" json:"payment_type"`
	Provider           string        `gorm:"column:provider" json:"provider,omitempty"`
	AccountHolderName  string        `gorm:"column:account_holder_name" json:"account_holder_name,omitempty"`
	AccountNumberLast4 string        `gorm:"column:account_number_last4" json:"account_number_last4,omitempty"`
	ExpiryDate         *time.Time    `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	IsDefault          bool          `gorm:"column:is_default" json:"is_default"`
	IsActive           bool          `gorm:"column:is_active" json:"is_active"`
	CreatedBy          *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy          *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt          time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

// PaymentListFilter narrows payment listings.
type PaymentListFilter struct {
	BillID    *snowflake.ID
	SocietyID *snowflake.ID
	MemberID  *snowflake.ID
	Offset    int
	Limit     int
}

// MethodListFilter narrows payment-method listings.
type MethodListFilter struct {
	SocietyID *snowflake.ID
	IsActive  *bool
	Offset    int
	Limit     int
}

type Repository interface {
	InsertPayment(ctx context.Context, db *gorm.DB, payment *MaintenancePayment) error
	FindPaymentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MaintenancePayment, error)
	ListPayments(ctx context.Context, db *gorm.DB, filter PaymentListFilter) ([]*MaintenancePayment, int64, error)

	InsertMethod(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	FindMethodByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentMethod, error)
	ListMethods(ctx context.Context, db *gorm.DB, filter MethodListFilter) ([]*PaymentMethod, int64, error)
	UpdateMethod(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	DeleteMethod(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// UnsetDefaultMethod clears the default flag for one society's methods.
	UnsetDefaultMethod(ctx context.Context, db *gorm.DB, societyID snowflake.ID, now time.Time) error
}
