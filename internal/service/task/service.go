// Package task manages staff follow-up tasks.
package task

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

type taskRepo interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Transition(ctx context.Context, id uuid.UUID, to domain.TaskStatus, by uuid.UUID, at time.Time) (*domain.Task, error)
	ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Task, error)
	ListOpen(ctx context.Context, assignee *uuid.UUID, limit int) ([]domain.Task, error)
}

type activityLogger interface {
	Append(ctx context.Context, e domain.ActivityLogEntry)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service provides task operations.
type Service struct {
	tasks    taskRepo
	activity activityLogger
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new task service.
func NewService(log *slog.Logger, tasks taskRepo, activity activityLogger) *Service {
	return &Service{
		tasks:    tasks,
		activity: activity,
		log:      log.With("service", "task"),
		now:      time.Now,
	}
}

// subject returns the entity a task's activity is recorded against.
func subject(t *domain.Task) (domain.EntityType, uuid.UUID) {
	if t.InquiryID != nil {
		return domain.EntityTypeInquiry, *t.InquiryID
	}
	return domain.EntityTypeTask, t.ID
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
