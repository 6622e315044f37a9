package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// ReceiptItem is one bill line rendered on the receipt.
type ReceiptItem struct {
	Description string
	Quantity    int
	UnitRate    string
	Amount      string
}

// ReceiptData is everything the receipt layout needs, pre-formatted.
// Amount strings already carry the currency so the renderer stays dumb.
type ReceiptData struct {
	ReceiptNumber string
	BillNumber    string
	BillingMonth  string
	PaymentDate   string
	PaymentMethod string
	SocietyName   string
	MemberName    string
	FlatNumber    string
	Items         []ReceiptItem
	AmountPaid    string
	TotalAmount   string
	PendingAmount string
}

// Renderer produces printable documents for the payment endpoints.
type Renderer interface {
	RenderReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

var Module = fx.Module("pdf",
	fx.Provide(NewMarotoRenderer),
)
