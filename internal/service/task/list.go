package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// ListByInquiry returns all tasks of an inquiry, newest first.
func (s *Service) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Task, error) {
	if inquiryID == uuid.Nil {
		return nil, domain.NewValidationError("inquiry_id", "required")
	}
	tasks, err := s.tasks.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("list inquiry tasks: %w", err)
	}
	return tasks, nil
}

// ListOpen returns pending tasks by due date, optionally only those assigned to assignee.
func (s *Service) ListOpen(ctx context.Context, assignee *uuid.UUID, limit int) ([]domain.Task, error) {
	if limit < 0 || limit > MaxListLimit {
		return nil, domain.NewValidationError("limit", fmt.Sprintf("must be between 0 and %d", MaxListLimit))
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	tasks, err := s.tasks.ListOpen(ctx, assignee, limit)
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}
	return tasks, nil
}
