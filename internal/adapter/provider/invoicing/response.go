package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus is the payment state reported by the invoicing service.
type VoucherStatus string

const (
	VoucherOpen   VoucherStatus = "open"
	VoucherPaid   VoucherStatus = "paid"
	VoucherVoided VoucherStatus = "voided"
)

// Draft is an invoice to be issued.
type Draft struct {
	Reference     string      `json:"reference"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Currency      string      `json:"currency"`
	Lines         []DraftLine `json:"lines"`
	// Total is serialized as a string to keep cents exact.
	Total decimal.Decimal `json:"total"`
}

// DraftLine is one invoice position.
type DraftLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Voucher is an issued invoice.
type Voucher struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference"`
	Status    VoucherStatus   `json:"status"`
	Total     decimal.Decimal `json:"total"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
}

type listResponse struct {
	Vouchers []Voucher `json:"vouchers"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
