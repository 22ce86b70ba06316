// Package invoice issues invoices for catering orders and syncs their payment state.
package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catering-backend/internal/adapter/provider/invoicing"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

type orderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CateringOrder, error)
	SetInvoice(ctx context.Context, id uuid.UUID, voucherID string) error
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
	ListOpenInvoices(ctx context.Context, limit int) ([]domain.CateringOrder, error)
}

type invoicer interface {
	CreateInvoice(ctx context.Context, d invoicing.Draft) (*invoicing.Voucher, error)
	GetVoucher(ctx context.Context, id string) (*invoicing.Voucher, error)
}

type activityLogger interface {
	Append(ctx context.Context, e domain.ActivityLogEntry)
}

const (
	syncBatchSize   = 500
	syncConcurrency = 4
	currency        = "EUR"
)

// Service bridges orders and the invoicing service.
type Service struct {
	orders   orderRepo
	invoicer invoicer
	activity activityLogger
	log      *slog.Logger
}

// NewService creates a new invoice service.
func NewService(log *slog.Logger, orders orderRepo, invoicer invoicer, activity activityLogger) *Service {
	return &Service{
		orders:   orders,
		invoicer: invoicer,
		activity: activity,
		log:      log.With("service", "invoice"),
	}
}

// CreateForOrder issues an invoice for an order and stores the voucher id on it.
func (s *Service) CreateForOrder(ctx context.Context, orderID uuid.UUID) (*domain.CateringOrder, error) {
	if orderID == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.InvoiceVoucherID != nil {
		return nil, fmt.Errorf("order %s already invoiced: %w", o.OrderNumber, domain.ErrConflict)
	}
	if o.Status == domain.OrderStatusCancelled {
		return nil, domain.NewValidationError("status", "cancelled orders cannot be invoiced")
	}

	draft := invoicing.Draft{
		Reference:     o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Currency:      currency,
		Total:         o.TotalAmount,
	}
	for _, it := range o.Items {
		draft.Lines = append(draft.Lines, invoicing.DraftLine{
			Description: it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Round(2),
			Total:       it.LineTotal,
		})
	}

	v, err := s.invoicer.CreateInvoice(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	if err := s.orders.SetInvoice(ctx, o.ID, v.ID); err != nil {
		// The voucher exists remotely now; log it so it can be linked by hand.
		s.log.ErrorContext(ctx, "store voucher id failed",
			slog.String("order_id", o.ID.String()),
			slog.String("voucher_id", v.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("store voucher: %w", err)
	}

	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: domain.EntityTypeOrder,
		EntityID:   o.ID,
		Action:     domain.ActionInvoiceCreated,
		NewValue:   map[string]any{"voucher_id": v.ID, "total": o.TotalAmount.StringFixed(2)},
	})

	voucherID := v.ID
	o.InvoiceVoucherID = &voucherID
	o.PaymentStatus = domain.PaymentStatusOpen
	return o, nil
}

// ItemError records one order that could not be synced.
type ItemError struct {
	OrderID uuid.UUID `json:"orderId"`
	Error   string    `json:"error"`
}

// SyncResult summarizes a payment sync run.
type SyncResult struct {
	Checked int         `json:"checked"`
	Updated int         `json:"updated"`
	Errors  []ItemError `json:"errors"`
}

// SyncPayments checks every order with an open voucher and records payments
// the invoicing service reports. Per-order failures are collected, not fatal.
func (s *Service) SyncPayments(ctx context.Context) (*SyncResult, error) {
	orders, err := s.orders.ListOpenInvoices(ctx, syncBatchSize)
	if err != nil {
		return nil, fmt.Errorf("list open invoices: %w", err)
	}

	var (
		mu  sync.Mutex
		res = &SyncResult{Checked: len(orders), Errors: []ItemError{}}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)

	for _, o := range orders {
		g.Go(func() error {
			updated, err := s.syncOne(gctx, o)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Errors = append(res.Errors, ItemError{OrderID: o.ID, Error: err.Error()})
				return nil
			}
			if updated {
				res.Updated++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	s.log.InfoContext(ctx, "payment sync finished",
		slog.Int("checked", res.Checked),
		slog.Int("updated", res.Updated),
		slog.Int("errors", len(res.Errors)),
	)
	return res, nil
}

func (s *Service) syncOne(ctx context.Context, o domain.CateringOrder) (bool, error) {
	if o.InvoiceVoucherID == nil {
		return false, nil
	}

	v, err := s.invoicer.GetVoucher(ctx, *o.InvoiceVoucherID)
	if err != nil {
		return false, fmt.Errorf("get voucher %s: %w", *o.InvoiceVoucherID, err)
	}

	var next domain.PaymentStatus
	switch v.Status {
	case invoicing.VoucherPaid:
		next = domain.PaymentStatusPaid
	case invoicing.VoucherVoided:
		next = domain.PaymentStatusVoided
	default:
		return false, nil
	}

	if err := s.orders.SetPaymentStatus(ctx, o.ID, next); err != nil {
		return false, fmt.Errorf("set payment status: %w", err)
	}

	if next == domain.PaymentStatusPaid {
		meta := map[string]any{"voucher_id": v.ID}
		if v.PaidAt != nil {
			meta["paid_at"] = v.PaidAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		s.activity.Append(ctx, domain.ActivityLogEntry{
			EntityType: domain.EntityTypeOrder,
			EntityID:   o.ID,
			Action:     domain.ActionPaymentReceived,
			OldValue:   map[string]any{"payment_status": string(o.PaymentStatus)},
			NewValue:   map[string]any{"payment_status": string(next)},
			Metadata:   meta,
		})
	}
	return true, nil
}
