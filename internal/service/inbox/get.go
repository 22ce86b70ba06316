package inbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// GetOne loads a single item from its own source only.
func (s *Service) GetOne(ctx context.Context, t domain.EntityType, id uuid.UUID) (domain.InboxItem, error) {
	if !t.IsInboxType() {
		return domain.InboxItem{}, domain.NewValidationError("type", "unknown inbox type")
	}
	if id == uuid.Nil {
		return domain.InboxItem{}, domain.NewValidationError("id", "required")
	}

	switch t {
	case domain.EntityTypeInquiry:
		e, err := s.inquiries.GetByID(ctx, id)
		if err != nil {
			return domain.InboxItem{}, fmt.Errorf("get inquiry: %w", err)
		}
		return domain.InquiryInboxItem(e), nil
	case domain.EntityTypeOrder:
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return domain.InboxItem{}, fmt.Errorf("get order: %w", err)
		}
		return domain.OrderInboxItem(o), nil
	default:
		b, err := s.bookings.GetByID(ctx, id)
		if err != nil {
			return domain.InboxItem{}, fmt.Errorf("get booking: %w", err)
		}
		return domain.BookingInboxItem(b), nil
	}
}
