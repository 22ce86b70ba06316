// Package inquiry accepts event inquiries from the public site.
package inquiry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/task"
)

type inquiryRepo interface {
	Create(ctx context.Context, e *domain.EventInquiry) (*domain.EventInquiry, error)
}

type taskRepo interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
}

type activityLogger interface {
	Append(ctx context.Context, e domain.ActivityLogEntry)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service handles public inquiry submissions.
type Service struct {
	inquiries inquiryRepo
	tasks     taskRepo
	activity  activityLogger
	tx        txManager
	log       *slog.Logger
	now       func() time.Time
}

// NewService creates a new inquiry service.
func NewService(log *slog.Logger, inquiries inquiryRepo, tasks taskRepo, activity activityLogger, tx txManager) *Service {
	return &Service{
		inquiries: inquiries,
		tasks:     tasks,
		activity:  activity,
		tx:        tx,
		log:       log.With("service", "inquiry"),
		now:       time.Now,
	}
}

// Submit stores a new inquiry together with a call-back task for staff.
// Both rows commit or neither does; the activity entries are written after commit.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.EventInquiry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lang := input.Language
	if lang == "" {
		lang = domain.LanguageDE
	}
	e := &domain.EventInquiry{
		ID:            uuid.New(),
		ContactName:   strings.TrimSpace(input.ContactName),
		CompanyName:   trimOrNil(input.CompanyName),
		Email:         strings.TrimSpace(input.Email),
		Phone:         trimOrNil(input.Phone),
		GuestCount:    input.GuestCount,
		EventType:     trimOrNil(input.EventType),
		PreferredDate: input.PreferredDate,
		Message:       trimOrNil(input.Message),
		Language:      lang,
		Status:        domain.InquiryStatusNew,
		Priority:      domain.PriorityNormal,
		CreatedAt:     now,
	}

	var (
		created  *domain.EventInquiry
		followUp *domain.Task
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.inquiries.Create(txCtx, e)
		if err != nil {
			return fmt.Errorf("create inquiry: %w", err)
		}

		t, err := task.FromPreset(task.PresetCallBack, &created.ID, domain.SystemActorID, now)
		if err != nil {
			return err
		}
		followUp, err = s.tasks.Create(txCtx, t)
		if err != nil {
			return fmt.Errorf("create call-back task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: domain.EntityTypeInquiry,
		EntityID:   created.ID,
		Action:     domain.ActionCreated,
		ActorEmail: created.Email,
		Metadata:   map[string]any{"source": "website", "language": string(created.Language)},
	})
	s.activity.Append(ctx, domain.ActivityLogEntry{
		EntityType: domain.EntityTypeInquiry,
		EntityID:   created.ID,
		Action:     domain.ActionTaskCreated,
		Metadata:   map[string]any{"task_id": followUp.ID.String(), "title": followUp.Title, "preset": string(task.PresetCallBack)},
	})

	s.log.InfoContext(ctx, "inquiry submitted", slog.String("inquiry_id", created.ID.String()))
	return created, nil
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
