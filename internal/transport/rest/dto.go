package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/activity"
	"github.com/heartmarshall/catering-backend/internal/service/pricing"
)

type inquiryResponse struct {
	ID            uuid.UUID  `json:"id"`
	ContactName   string     `json:"contactName"`
	CompanyName   *string    `json:"companyName,omitempty"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	GuestCount    *int       `json:"guestCount,omitempty"`
	EventType     *string    `json:"eventType,omitempty"`
	PreferredDate *time.Time `json:"preferredDate,omitempty"`
	Message       *string    `json:"message,omitempty"`
	Language      string     `json:"language"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	AssignedTo    *uuid.UUID `json:"assignedTo,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	OpenTasks     *int       `json:"openTasks,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func toInquiryResponse(e *domain.EventInquiry) *inquiryResponse {
	return &inquiryResponse{
		ID:            e.ID,
		ContactName:   e.ContactName,
		CompanyName:   e.CompanyName,
		Email:         e.Email,
		Phone:         e.Phone,
		GuestCount:    e.GuestCount,
		EventType:     e.EventType,
		PreferredDate: e.PreferredDate,
		Message:       e.Message,
		Language:      e.Language.String(),
		Status:        e.Status.String(),
		Priority:      e.Priority.String(),
		AssignedTo:    e.AssignedTo,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

type orderResponse struct {
	ID               uuid.UUID          `json:"id"`
	OrderNumber      string             `json:"orderNumber"`
	CustomerName     string             `json:"customerName"`
	CustomerEmail    string             `json:"customerEmail"`
	Items            []domain.OrderItem `json:"items"`
	TotalAmount      decimal.Decimal    `json:"totalAmount"`
	DeliveryDate     *time.Time         `json:"deliveryDate,omitempty"`
	Status           string             `json:"status"`
	PaymentStatus    string             `json:"paymentStatus"`
	InvoiceVoucherID *string            `json:"invoiceVoucherId,omitempty"`
	AssignedTo       *uuid.UUID         `json:"assignedTo,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

func toOrderResponse(o *domain.CateringOrder) *orderResponse {
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	return &orderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		Items:            items,
		TotalAmount:      o.TotalAmount,
		DeliveryDate:     o.DeliveryDate,
		Status:           o.Status.String(),
		PaymentStatus:    o.PaymentStatus.String(),
		InvoiceVoucherID: o.InvoiceVoucherID,
		AssignedTo:       o.AssignedTo,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
	}
}

func toOrderList(list []domain.CateringOrder) []*orderResponse {
	out := make([]*orderResponse, len(list))
	for i := range list {
		out[i] = toOrderResponse(&list[i])
	}
	return out
}

type bookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	BookingNumber string     `json:"bookingNumber"`
	InquiryID     *uuid.UUID `json:"inquiryId,omitempty"`
	CustomerName  string     `json:"customerName"`
	GuestCount    int        `json:"guestCount"`
	EventDate     time.Time  `json:"eventDate"`
	MenuConfirmed bool       `json:"menuConfirmed"`
	Status        string     `json:"status"`
	AssignedTo    *uuid.UUID `json:"assignedTo,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toBookingResponse(b *domain.EventBooking) *bookingResponse {
	return &bookingResponse{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		InquiryID:     b.InquiryID,
		CustomerName:  b.CustomerName,
		GuestCount:    b.GuestCount,
		EventDate:     b.EventDate,
		MenuConfirmed: b.MenuConfirmed,
		Status:        b.Status.String(),
		AssignedTo:    b.AssignedTo,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
}

// inboxItemResponse is the tagged union of the feed: Type names the one
// payload that is set.
type inboxItemResponse struct {
	Type      string           `json:"type"`
	ID        uuid.UUID        `json:"id"`
	Status    string           `json:"status"`
	Priority  string           `json:"priority"`
	CreatedAt time.Time        `json:"createdAt"`
	Inquiry   *inquiryResponse `json:"inquiry,omitempty"`
	Order     *orderResponse   `json:"order,omitempty"`
	Booking   *bookingResponse `json:"booking,omitempty"`
}

func toInboxItemResponse(item domain.InboxItem) inboxItemResponse {
	resp := inboxItemResponse{
		Type:      item.Type.String(),
		ID:        item.ID(),
		Status:    item.Status(),
		Priority:  item.Priority().String(),
		CreatedAt: item.CreatedAt(),
	}
	switch item.Type {
	case domain.EntityTypeInquiry:
		resp.Inquiry = toInquiryResponse(item.Inquiry)
	case domain.EntityTypeOrder:
		resp.Order = toOrderResponse(item.Order)
	case domain.EntityTypeBooking:
		resp.Booking = toBookingResponse(item.Booking)
	}
	return resp
}

type taskResponse struct {
	ID          uuid.UUID  `json:"id"`
	InquiryID   *uuid.UUID `json:"inquiryId,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Overdue     bool       `json:"overdue"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy *uuid.UUID `json:"completedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toTaskResponse(t *domain.Task, now time.Time) *taskResponse {
	return &taskResponse{
		ID:          t.ID,
		InquiryID:   t.InquiryID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		AssignedTo:  t.AssignedTo,
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
		Overdue:     t.IsOverdue(now),
		CreatedBy:   t.CreatedBy,
		CompletedAt: t.CompletedAt,
		CompletedBy: t.CompletedBy,
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskList(list []domain.Task, now time.Time) []*taskResponse {
	out := make([]*taskResponse, len(list))
	for i := range list {
		out[i] = toTaskResponse(&list[i], now)
	}
	return out
}

type activityResponse struct {
	ID         uuid.UUID      `json:"id"`
	EntityType string         `json:"entityType"`
	EntityID   uuid.UUID      `json:"entityId"`
	Action     string         `json:"action"`
	Text       string         `json:"text"`
	ActorID    *uuid.UUID     `json:"actorId,omitempty"`
	ActorEmail string         `json:"actorEmail,omitempty"`
	OldValue   map[string]any `json:"oldValue,omitempty"`
	NewValue   map[string]any `json:"newValue,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toActivityResponse(e domain.ActivityLogEntry) activityResponse {
	return activityResponse{
		ID:         e.ID,
		EntityType: e.EntityType.String(),
		EntityID:   e.EntityID,
		Action:     e.Action.String(),
		Text:       activity.Format(e),
		ActorID:    e.ActorID,
		ActorEmail: e.ActorEmail,
		OldValue:   e.OldValue,
		NewValue:   e.NewValue,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}

type packageResponse struct {
	ID             uuid.UUID       `json:"id"`
	Slug           string          `json:"slug"`
	Name           string          `json:"name"`
	BasePrice      decimal.Decimal `json:"basePrice"`
	PricePerPerson bool            `json:"pricePerPerson"`
	MinGuests      int             `json:"minGuests"`
	MaxGuests      int             `json:"maxGuests,omitempty"`
}

func toPackageResponse(p *domain.EventPackage, lang domain.Language) packageResponse {
	return packageResponse{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name(lang),
		BasePrice:      p.BasePrice,
		PricePerPerson: p.PricePerPerson,
		MinGuests:      p.MinGuests,
		MaxGuests:      p.MaxGuests,
	}
}

type locationResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	MaxCapacity int       `json:"maxCapacity"`
}

func toLocationResponse(l *domain.Location, lang domain.Language) locationResponse {
	return locationResponse{
		ID:          l.ID,
		Slug:        l.Slug,
		Name:        l.Name(lang),
		City:        l.City,
		MaxCapacity: l.MaxCapacity,
	}
}

type menuItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func toMenuItemResponse(m *domain.MenuItem, lang domain.Language) menuItemResponse {
	return menuItemResponse{
		ID:        m.ID,
		Slug:      m.Slug,
		Name:      m.Name(lang),
		UnitPrice: m.UnitPrice,
	}
}

type quoteResponse struct {
	PackageID   uuid.UUID       `json:"packageId"`
	Mode        string          `json:"mode"`
	GuestCount  int             `json:"guestCount"`
	Total       decimal.Decimal `json:"total"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ExtraGuests int             `json:"extraGuests"`
	ExtraCost   decimal.Decimal `json:"extraCost"`
}

func toQuoteResponse(pkg *domain.EventPackage, q pricing.Quote) quoteResponse {
	return quoteResponse{
		PackageID:   pkg.ID,
		Mode:        string(q.Mode),
		GuestCount:  q.Guests,
		Total:       q.Display,
		UnitPrice:   pricing.Round(q.UnitPrice),
		ExtraGuests: q.ExtraGuests,
		ExtraCost:   pricing.Round(q.ExtraCost),
	}
}
