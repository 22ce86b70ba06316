package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingTimeKey selects which booking timestamp orders bookings in the inbox feed.
type BookingTimeKey string

const (
	BookingByCreatedAt BookingTimeKey = "created_at"
	BookingByEventDate BookingTimeKey = "event_date"
)

// InboxItem is one entry of the unified inbox: exactly one payload is set and
// Type names which. Type plus ID identifies the item.
type InboxItem struct {
	Type    EntityType
	Inquiry *EventInquiry
	Order   *CateringOrder
	Booking *EventBooking
}

func InquiryInboxItem(e *EventInquiry) InboxItem { return InboxItem{Type: EntityTypeInquiry, Inquiry: e} }
func OrderInboxItem(o *CateringOrder) InboxItem  { return InboxItem{Type: EntityTypeOrder, Order: o} }
func BookingInboxItem(b *EventBooking) InboxItem { return InboxItem{Type: EntityTypeBooking, Booking: b} }

// ID returns the source row id.
func (i InboxItem) ID() uuid.UUID {
	switch i.Type {
	case EntityTypeInquiry:
		return i.Inquiry.ID
	case EntityTypeOrder:
		return i.Order.ID
	case EntityTypeBooking:
		return i.Booking.ID
	}
	return uuid.Nil
}

// CreatedAt returns the source row creation time.
func (i InboxItem) CreatedAt() time.Time {
	switch i.Type {
	case EntityTypeInquiry:
		return i.Inquiry.CreatedAt
	case EntityTypeOrder:
		return i.Order.CreatedAt
	case EntityTypeBooking:
		return i.Booking.CreatedAt
	}
	return time.Time{}
}

// SortTime returns the feed ordering key. Bookings may sort by event date.
func (i InboxItem) SortTime(key BookingTimeKey) time.Time {
	if i.Type == EntityTypeBooking && key == BookingByEventDate {
		return i.Booking.EventDate
	}
	return i.CreatedAt()
}

// Status returns the source status as a plain string.
func (i InboxItem) Status() string {
	switch i.Type {
	case EntityTypeInquiry:
		return string(i.Inquiry.Status)
	case EntityTypeOrder:
		return string(i.Order.Status)
	case EntityTypeBooking:
		return string(i.Booking.Status)
	}
	return ""
}

// Priority returns the inquiry priority. Orders and bookings are always normal.
func (i InboxItem) Priority() Priority {
	if i.Type == EntityTypeInquiry && i.Inquiry.Priority != "" {
		return i.Inquiry.Priority
	}
	return PriorityNormal
}

// AssignedTo returns the assignee of the source row, if any.
func (i InboxItem) AssignedTo() *uuid.UUID {
	switch i.Type {
	case EntityTypeInquiry:
		return i.Inquiry.AssignedTo
	case EntityTypeOrder:
		return i.Order.AssignedTo
	case EntityTypeBooking:
		return i.Booking.AssignedTo
	}
	return nil
}

// InboxFilter narrows the unified inbox.
type InboxFilter struct {
	Search     string
	Types      []EntityType
	Statuses   []string
	Priorities []Priority
	AssignedTo *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Ranked reports whether the feed is ordered by priority before time.
func (f InboxFilter) Ranked() bool {
	return len(f.Statuses) > 0 || len(f.Priorities) > 0
}

// SourceQuery is an InboxFilter translated for a single source collection.
// Statuses only holds values valid for that source.
type SourceQuery struct {
	Search     string
	Statuses   []string
	Priorities []Priority
	AssignedTo *uuid.UUID
	From       *time.Time
	To         *time.Time
	TimeKey    BookingTimeKey
	Ranked     bool
	Limit      int
}

// InboxCounts are the badge counters of the inbox.
type InboxCounts struct {
	NewInquiries    int `json:"newInquiries"`
	UrgentInquiries int `json:"urgentInquiries"`
	PendingOrders   int `json:"pendingOrders"`
	PendingMenu     int `json:"pendingMenu"`
	OverdueTasks    int `json:"overdueTasks"`
}
