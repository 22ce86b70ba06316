package domain

// Language is a site language.
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	return l == LanguageDE || l == LanguageEN
}

// Other returns the alternate site language.
func (l Language) Other() Language {
	if l == LanguageEN {
		return LanguageDE
	}
	return LanguageEN
}

// EntityType identifies the kind of record an inbox item, task, or activity entry refers to.
type EntityType string

const (
	EntityTypeInquiry EntityType = "inquiry"
	EntityTypeOrder   EntityType = "order"
	EntityTypeBooking EntityType = "booking"
	EntityTypeTask    EntityType = "task"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeInquiry, EntityTypeOrder, EntityTypeBooking, EntityTypeTask:
		return true
	}
	return false
}

// IsInboxType reports whether the entity type is one of the three inbox sources.
func (e EntityType) IsInboxType() bool {
	switch e {
	case EntityTypeInquiry, EntityTypeOrder, EntityTypeBooking:
		return true
	}
	return false
}

// InboxEntityTypes lists the inbox sources in tie-break order.
var InboxEntityTypes = []EntityType{EntityTypeBooking, EntityTypeInquiry, EntityTypeOrder}

// InquiryStatus is the lifecycle state of an event inquiry.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusOfferSent InquiryStatus = "offer_sent"
	InquiryStatusConfirmed InquiryStatus = "confirmed"
	InquiryStatusDeclined  InquiryStatus = "declined"
)

func (s InquiryStatus) String() string { return string(s) }

func (s InquiryStatus) IsValid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusContacted, InquiryStatusOfferSent,
		InquiryStatusConfirmed, InquiryStatusDeclined:
		return true
	}
	return false
}

// OrderStatus is the lifecycle state of a catering order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of an event booking.
type BookingStatus string

const (
	BookingStatusMenuPending BookingStatus = "menu_pending"
	BookingStatusReady       BookingStatus = "ready"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

func (s BookingStatus) String() string { return string(s) }

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusMenuPending, BookingStatusReady, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsValidStatus reports whether status belongs to the status enum of the given inbox type.
func IsValidStatus(t EntityType, status string) bool {
	switch t {
	case EntityTypeInquiry:
		return InquiryStatus(status).IsValid()
	case EntityTypeOrder:
		return OrderStatus(status).IsValid()
	case EntityTypeBooking:
		return BookingStatus(status).IsValid()
	case EntityTypeTask:
		return TaskStatus(status).IsValid()
	}
	return false
}

// Priority is the urgency of an inquiry or task.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank orders priorities: urgent > high > normal. Unknown values rank as normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 2
	case PriorityHigh:
		return 1
	}
	return 0
}

// TaskStatus is the lifecycle state of a follow-up task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// DeliveryStatus is the local view of an outbound email's delivery state.
type DeliveryStatus string

const (
	DeliveryStatusQueued     DeliveryStatus = "queued"
	DeliveryStatusSent       DeliveryStatus = "sent"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
	DeliveryStatusDelayed    DeliveryStatus = "delayed"
	DeliveryStatusBounced    DeliveryStatus = "bounced"
	DeliveryStatusComplained DeliveryStatus = "complained"
	DeliveryStatusOpened     DeliveryStatus = "opened"
	DeliveryStatusClicked    DeliveryStatus = "clicked"
)

func (s DeliveryStatus) String() string { return string(s) }

// PaymentStatus tracks whether the invoice for an order has been paid.
type PaymentStatus string

const (
	PaymentStatusUnbilled PaymentStatus = "unbilled"
	PaymentStatusOpen     PaymentStatus = "open"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusVoided   PaymentStatus = "voided"
)

func (s PaymentStatus) String() string { return string(s) }

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
