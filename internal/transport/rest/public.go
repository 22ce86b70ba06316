package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/checkout"
	"github.com/heartmarshall/catering-backend/internal/service/inquiry"
	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

type inquiryService interface {
	Submit(ctx context.Context, input inquiry.SubmitInput) (*domain.EventInquiry, error)
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, input checkout.PlaceOrderInput) (*domain.CateringOrder, error)
	ListOrders(ctx context.Context) ([]domain.CateringOrder, error)
}

// PublicHandler serves submissions from the public site: event inquiries and shop checkout.
type PublicHandler struct {
	inquiries inquiryService
	checkout  checkoutService
	log       *slog.Logger
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(inquiries inquiryService, checkout checkoutService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{inquiries: inquiries, checkout: checkout, log: logger.With("handler", "public")}
}

type inquiryRequest struct {
	ContactName   string     `json:"contactName"`
	CompanyName   *string    `json:"companyName"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone"`
	GuestCount    *int       `json:"guestCount"`
	EventType     *string    `json:"eventType"`
	PreferredDate *time.Time `json:"preferredDate"`
	Message       *string    `json:"message"`
	Language      string     `json:"language"`
}

// SubmitInquiry records an event inquiry from the contact form.
// POST /api/inquiries
func (h *PublicHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req inquiryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.inquiries.Submit(r.Context(), inquiry.SubmitInput{
		ContactName:   req.ContactName,
		CompanyName:   req.CompanyName,
		Email:         req.Email,
		Phone:         req.Phone,
		GuestCount:    req.GuestCount,
		EventType:     req.EventType,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
		Language:      domain.Language(req.Language),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID, "status": created.Status})
}

type orderLineRequest struct {
	PackageID  *uuid.UUID `json:"packageId"`
	GuestCount int        `json:"guestCount"`
	MenuItemID *uuid.UUID `json:"menuItemId"`
	Quantity   int        `json:"quantity"`
}

type placeOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	DeliveryDate  *time.Time         `json:"deliveryDate"`
	Language      string             `json:"language"`
	Lines         []orderLineRequest `json:"lines"`
}

// PlaceOrder turns the caller's cart into an order.
// POST /api/checkout/orders
func (h *PublicHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := req.CustomerEmail
	if email == "" {
		email = ctxutil.EmailFromCtx(r.Context())
	}
	lines := make([]checkout.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = checkout.LineInput{
			PackageID:  l.PackageID,
			GuestCount: l.GuestCount,
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
		}
	}

	order, err := h.checkout.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: email,
		DeliveryDate:  req.DeliveryDate,
		Language:      domain.Language(req.Language),
		Lines:         lines,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// MyOrders lists the caller's own orders.
// GET /api/account/orders
func (h *PublicHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.checkout.ListOrders(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderList(list))
}
