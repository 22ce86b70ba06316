package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

// Complete marks a pending task completed. A task that is already closed yields domain.ErrConflict.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.transition(ctx, id, domain.TaskStatusCompleted, domain.ActionTaskCompleted)
}

// Cancel marks a pending task cancelled. A task that is already closed yields domain.ErrConflict.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.transition(ctx, id, domain.TaskStatusCancelled, domain.ActionTaskCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to domain.TaskStatus, action domain.ActivityAction) (*domain.Task, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	t, err := s.tasks.Transition(ctx, id, to, userID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s task: %w", verb(to), err)
	}

	entityType, entityID := subject(t)
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   map[string]any{"status": string(domain.TaskStatusPending)},
		NewValue:   map[string]any{"status": string(to)},
		Metadata:   map[string]any{"task_id": t.ID.String(), "title": t.Title},
	})

	return t, nil
}

func verb(to domain.TaskStatus) string {
	if to == domain.TaskStatusCancelled {
		return "cancel"
	}
	return "complete"
}
