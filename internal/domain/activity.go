package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction names a recorded state transition.
type ActivityAction string

const (
	ActionCreated         ActivityAction = "created"
	ActionStatusChanged   ActivityAction = "status_changed"
	ActionPriorityChanged ActivityAction = "priority_changed"
	ActionAssigned        ActivityAction = "assigned"
	ActionUnassigned      ActivityAction = "unassigned"
	ActionNoteUpdated     ActivityAction = "note_updated"
	ActionMenuConfirmed   ActivityAction = "menu_confirmed"
	ActionPriceUpdated    ActivityAction = "price_updated"
	ActionTaskCreated     ActivityAction = "task_created"
	ActionTaskCompleted   ActivityAction = "task_completed"
	ActionTaskCancelled   ActivityAction = "task_cancelled"
	ActionEmailSent       ActivityAction = "email_sent"
	ActionInvoiceCreated  ActivityAction = "invoice_created"
	ActionPaymentReceived ActivityAction = "payment_received"
)

func (a ActivityAction) String() string { return string(a) }

// ActivityLogEntry is one append-only audit record.
type ActivityLogEntry struct {
	ID         uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Action     ActivityAction
	ActorID    *uuid.UUID
	ActorEmail string
	OldValue   map[string]any
	NewValue   map[string]any
	Metadata   map[string]any
	CreatedAt  time.Time
}
