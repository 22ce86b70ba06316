package domain

import "github.com/google/uuid"

// ChangeOp is the kind of row change carried by a notification.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// Watched tables.
const (
	TableInquiries    = "event_inquiries"
	TableOrders       = "catering_orders"
	TableBookings     = "event_bookings"
	TableActivityLogs = "activity_logs"
	TableTasks        = "inquiry_tasks"
)

// Change is a row-level change notification from the data store.
// EntityType/EntityID are set for activity_logs rows, InquiryID for task rows.
type Change struct {
	Table      string     `json:"table"`
	Op         ChangeOp   `json:"op"`
	ID         uuid.UUID  `json:"id"`
	EntityType EntityType `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	InquiryID  *uuid.UUID `json:"inquiry_id,omitempty"`
}

// SourceEntityType maps an inbox source table to its entity type.
func SourceEntityType(table string) (EntityType, bool) {
	switch table {
	case TableInquiries:
		return EntityTypeInquiry, true
	case TableOrders:
		return EntityTypeOrder, true
	case TableBookings:
		return EntityTypeBooking, true
	}
	return "", false
}
