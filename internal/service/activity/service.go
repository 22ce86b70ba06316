// Package activity records and renders the append-only activity log.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
	writeTimeout = 5 * time.Second
)

type activityRepo interface {
	Insert(ctx context.Context, e domain.ActivityLogEntry) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error)
}

// Service appends and lists activity entries.
type Service struct {
	repo activityRepo
	log  *slog.Logger
	now  func() time.Time
}

// NewService creates a new activity service.
func NewService(log *slog.Logger, repo activityRepo) *Service {
	return &Service{
		repo: repo,
		log:  log.With("service", "activity"),
		now:  time.Now,
	}
}

// Append records e. It never fails the caller: invalid entries and write
// errors are logged and dropped. The actor defaults to the identity in ctx.
// Call it after the primary write committed, not inside its transaction.
func (s *Service) Append(ctx context.Context, e domain.ActivityLogEntry) {
	if !e.EntityType.IsValid() || e.EntityID == uuid.Nil || e.Action == "" {
		s.log.ErrorContext(ctx, "dropping malformed activity entry",
			slog.String("entity_type", string(e.EntityType)),
			slog.String("entity_id", e.EntityID.String()),
			slog.String("action", string(e.Action)),
		)
		return
	}

	if e.ID == uuid.Nil {
		e.ID = newEntryID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	if e.ActorID == nil {
		if id, ok := ctxutil.UserIDFromCtx(ctx); ok {
			e.ActorID = &id
		}
	}
	if e.ActorEmail == "" {
		e.ActorEmail = ctxutil.EmailFromCtx(ctx)
	}

	// The primary action already succeeded; a cancelled request must not lose its entry.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := s.repo.Insert(writeCtx, e); err != nil {
		s.log.ErrorContext(ctx, "activity log write failed",
			slog.String("entity_type", string(e.EntityType)),
			slog.String("entity_id", e.EntityID.String()),
			slog.String("action", string(e.Action)),
			slog.String("error", err.Error()),
		)
	}
}

// ListInput selects the timeline of one entity.
type ListInput struct {
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Limit      int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if !i.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "unknown entity type"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("max %d", MaxLimit)})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.ActivityLogEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	entries, err := s.repo.ListByEntity(ctx, input.EntityType, input.EntityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}

// newEntryID returns a time-ordered id, so entries sharing created_at list in
// append order under ORDER BY created_at DESC, id DESC.
func newEntryID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
