package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

// Create stores a new pending task created by the caller.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t := &domain.Task{
		ID:        uuid.New(),
		InquiryID: input.InquiryID,
		Status:    domain.TaskStatusPending,
		Priority:  domain.PriorityNormal,
		CreatedBy: userID,
		CreatedAt: now,
	}
	if input.Preset != "" {
		var err error
		t, err = FromPreset(input.Preset, input.InquiryID, userID, now)
		if err != nil {
			return nil, err
		}
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		t.Title = title
	}
	if input.DueDate != nil {
		due := input.DueDate.UTC()
		t.DueDate = &due
	}
	if input.Priority != "" {
		t.Priority = input.Priority
	}
	t.Description = trimOrNil(input.Description)
	t.AssignedTo = input.AssignedTo

	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	entityType, entityID := subject(created)
	meta := map[string]any{"task_id": created.ID.String(), "title": created.Title}
	if input.Preset != "" {
		meta["preset"] = string(input.Preset)
	}
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     domain.ActionTaskCreated,
		Metadata:   meta,
	})

	return created, nil
}
