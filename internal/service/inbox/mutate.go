package inbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/realtime"
)

// UpdateStatus changes the status of an inquiry, order or booking and records the transition.
func (s *Service) UpdateStatus(ctx context.Context, input UpdateStatusInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	var (
		old string
		err error
	)
	switch input.Type {
	case domain.EntityTypeInquiry:
		var prev domain.InquiryStatus
		prev, err = s.inquiries.UpdateStatus(ctx, input.ID, domain.InquiryStatus(input.Status))
		old = string(prev)
	case domain.EntityTypeOrder:
		var prev domain.OrderStatus
		prev, err = s.orders.UpdateStatus(ctx, input.ID, domain.OrderStatus(input.Status))
		old = string(prev)
	case domain.EntityTypeBooking:
		var prev domain.BookingStatus
		prev, err = s.bookings.UpdateStatus(ctx, input.ID, domain.BookingStatus(input.Status))
		old = string(prev)
	}
	if err != nil {
		return fmt.Errorf("update %s status: %w", input.Type, err)
	}

	s.invalidate(input.Type, input.ID)
	if old == input.Status {
		return nil
	}
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: input.Type,
		EntityID:   input.ID,
		Action:     domain.ActionStatusChanged,
		OldValue:   map[string]any{"status": old},
		NewValue:   map[string]any{"status": input.Status},
	})
	return nil
}

// SetPriority changes the priority of an inquiry.
func (s *Service) SetPriority(ctx context.Context, inquiryID uuid.UUID, p domain.Priority) error {
	if inquiryID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	if !p.IsValid() {
		return domain.NewValidationError("priority", fmt.Sprintf("invalid priority %q", p))
	}

	old, err := s.inquiries.UpdatePriority(ctx, inquiryID, p)
	if err != nil {
		return fmt.Errorf("set inquiry priority: %w", err)
	}

	s.invalidate(domain.EntityTypeInquiry, inquiryID)
	if old == p {
		return nil
	}
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: domain.EntityTypeInquiry,
		EntityID:   inquiryID,
		Action:     domain.ActionPriorityChanged,
		OldValue:   map[string]any{"priority": string(old)},
		NewValue:   map[string]any{"priority": string(p)},
	})
	return nil
}

// Assign sets or clears the assignee of an item.
func (s *Service) Assign(ctx context.Context, input AssignInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	var (
		old *uuid.UUID
		err error
	)
	switch input.Type {
	case domain.EntityTypeInquiry:
		old, err = s.inquiries.UpdateAssignee(ctx, input.ID, input.AssignedTo)
	case domain.EntityTypeOrder:
		old, err = s.orders.UpdateAssignee(ctx, input.ID, input.AssignedTo)
	case domain.EntityTypeBooking:
		old, err = s.bookings.UpdateAssignee(ctx, input.ID, input.AssignedTo)
	}
	if err != nil {
		return fmt.Errorf("assign %s: %w", input.Type, err)
	}

	s.invalidate(input.Type, input.ID)
	if sameUUID(old, input.AssignedTo) {
		return nil
	}

	action := domain.ActionAssigned
	if input.AssignedTo == nil {
		action = domain.ActionUnassigned
	}
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: input.Type,
		EntityID:   input.ID,
		Action:     action,
		OldValue:   map[string]any{"assigned_to": uuidValue(old)},
		NewValue:   map[string]any{"assigned_to": uuidValue(input.AssignedTo)},
	})
	return nil
}

// UpdateNotes replaces the internal notes of an item. Blank notes clear them.
func (s *Service) UpdateNotes(ctx context.Context, input UpdateNotesInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	notes := trimOrNil(input.Notes)

	var (
		old *string
		err error
	)
	switch input.Type {
	case domain.EntityTypeInquiry:
		old, err = s.inquiries.UpdateNotes(ctx, input.ID, notes)
	case domain.EntityTypeOrder:
		old, err = s.orders.UpdateNotes(ctx, input.ID, notes)
	case domain.EntityTypeBooking:
		old, err = s.bookings.UpdateNotes(ctx, input.ID, notes)
	}
	if err != nil {
		return fmt.Errorf("update %s notes: %w", input.Type, err)
	}

	s.invalidate(input.Type, input.ID)
	if sameString(old, notes) {
		return nil
	}
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: input.Type,
		EntityID:   input.ID,
		Action:     domain.ActionNoteUpdated,
		Metadata:   map[string]any{"length": len(deref(notes))},
	})
	return nil
}

// ConfirmMenu marks a booking's menu as confirmed. Confirming twice is a no-op.
func (s *Service) ConfirmMenu(ctx context.Context, bookingID uuid.UUID) error {
	if bookingID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	old, err := s.bookings.ConfirmMenu(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("confirm menu: %w", err)
	}

	s.invalidate(domain.EntityTypeBooking, bookingID)
	if old.MenuConfirmed {
		return nil
	}

	newStatus := old.Status
	if old.Status == domain.BookingStatusMenuPending {
		newStatus = domain.BookingStatusReady
	}
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: domain.EntityTypeBooking,
		EntityID:   bookingID,
		Action:     domain.ActionMenuConfirmed,
		OldValue:   map[string]any{"status": string(old.Status), "menu_confirmed": false},
		NewValue:   map[string]any{"status": string(newStatus), "menu_confirmed": true},
	})
	return nil
}

// invalidate marks the views touched by a local write stale. The database
// notification for the same write will arrive too.
func (s *Service) invalidate(t domain.EntityType, id uuid.UUID) {
	s.views.Invalidate(realtime.ViewInboxList, realtime.ViewInboxCount, realtime.ItemView(t, id))
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uuidValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
