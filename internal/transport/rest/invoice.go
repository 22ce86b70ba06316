package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/invoice"
)

type invoiceService interface {
	CreateForOrder(ctx context.Context, orderID uuid.UUID) (*domain.CateringOrder, error)
	SyncPayments(ctx context.Context) (*invoice.SyncResult, error)
}

// InvoiceHandler triggers invoice creation and payment sync with the invoicing provider.
type InvoiceHandler struct {
	svc invoiceService
	log *slog.Logger
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(svc invoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, log: logger.With("handler", "invoice")}
}

// CreateForOrder issues the invoice of an order.
// POST /api/admin/orders/{id}/invoice
func (h *InvoiceHandler) CreateForOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	order, err := h.svc.CreateForOrder(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// Sync pulls payment state for every open invoice.
// POST /api/admin/invoices/sync
func (h *InvoiceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SyncPayments(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if res.Errors == nil {
		res.Errors = []invoice.ItemError{}
	}
	writeJSON(w, http.StatusOK, res)
}
