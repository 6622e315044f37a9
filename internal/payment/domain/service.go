package domain

import (
	"context"
	"errors"
	"time"

	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"github.com/societyhq/societyhub/pkg/pagination"
)

type ProcessPaymentRequest struct {
	BillID           string     `json:"bill_id" binding:"required"`
	PaymentAmount    int64      `json:"payment_amount" binding:"required"`
	PaymentDate      *time.Time `json:"payment_date"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference string     `json:"payment_reference"`
}

// ProcessPaymentResponse returns the immutable payment alongside the
// bill as it stands after the payment committed.
type ProcessPaymentResponse struct {
	Payment MaintenancePayment            `json:"payment"`
	Bill    billingdomain.MaintenanceBill `json:"bill"`
}

type ListPaymentsRequest struct {
	pagination.Pagination
	BillID    string `form:"bill_id"`
	SocietyID string `form:"society_id"`
	MemberID  string `form:"member_id"`
}

type ListPaymentsResponse struct {
	Payments   []MaintenancePayment `json:"payments"`
	Pagination pagination.PageInfo  `json:"pagination"`
}

type CreateMethodRequest struct {
	SocietyID          string     `json:"society_id" binding:"required"`
	PaymentType        string     `json:"payment_type" binding:"required"`
	Provider           string     `json:"provider"`
	AccountHolderName  string     `json:"account_holder_name"`
	AccountNumberLast4 string     `json:"account_number_last4"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	IsDefault          bool       `json:"is_default"`
}

type UpdateMethodRequest struct {
	ID                 string     `json:"-"`
	PaymentType        *string    `json:"payment_type"`
	Provider           *string    `json:"provider"`
	AccountHolderName  *string    `json:"account_holder_name"`
	AccountNumberLast4 *string    `json:"account_number_last4"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	IsActive           *bool      `json:"is_active"`
}

type ListMethodsRequest struct {
	pagination.Pagination
	SocietyID string `form:"society_id"`
	IsActive  *bool  `form:"is_active"`
}

type ListMethodsResponse struct {
	Methods    []PaymentMethod     `json:"payment_methods"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	// ProcessMaintenancePayment applies a payment to a bill: the bill row
	// is locked, totals and status recomputed, and the payment inserted,
	// all in one transaction.
	ProcessMaintenancePayment(ctx context.Context, req ProcessPaymentRequest) (*ProcessPaymentResponse, error)
	ListPayments(ctx context.Context, req ListPaymentsRequest) (ListPaymentsResponse, error)
	GetPaymentByID(ctx context.Context, id string) (*MaintenancePayment, error)

	CreateMethod(ctx context.Context, req CreateMethodRequest) (*PaymentMethod, error)
	ListMethods(ctx context.Context, req ListMethodsRequest) (ListMethodsResponse, error)
	GetMethodByID(ctx context.Context, id string) (*PaymentMethod, error)
	UpdateMethod(ctx context.Context, req UpdateMethodRequest) (*PaymentMethod, error)
	DeleteMethod(ctx context.Context, id string) error
	// SetDefaultMethod flips the society's single default in one
	// transaction.
	SetDefaultMethod(ctx context.Context, id string) (*PaymentMethod, error)
}

var (
	ErrInvalidID       = errors.New("invalid_payment_id")
	ErrInvalidAmount   = errors.New("invalid_payment_amount")
	ErrPaymentNotFound = errors.New("payment_not_found")
	ErrMethodNotFound  = errors.New("payment_method_not_found")
)
