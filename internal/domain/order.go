package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one cart line of a catering order. UnitPrice * Quantity equals LineTotal
// before cent rounding.
type OrderItem struct {
	PackageID  *uuid.UUID      `json:"packageId,omitempty"`
	MenuItemID *uuid.UUID      `json:"menuItemId,omitempty"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

// CateringOrder is an order placed through the shop checkout.
type CateringOrder struct {
	ID               uuid.UUID
	OrderNumber      string
	CustomerID       *uuid.UUID
	CustomerName     string
	CustomerEmail    string
	Items            []OrderItem
	TotalAmount      decimal.Decimal
	DeliveryDate     *time.Time
	Status           OrderStatus
	PaymentStatus    PaymentStatus
	InvoiceVoucherID *string
	AssignedTo       *uuid.UUID
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
