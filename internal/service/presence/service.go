// Package presence tracks who is viewing or editing an inbox entity.
package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

type broker interface {
	Upsert(ctx context.Context, channel string, rec domain.PresenceRecord) error
	Remove(ctx context.Context, channel string, sessionID uuid.UUID) error
	Members(ctx context.Context, channel string) ([]domain.PresenceRecord, error)
	Subscribe(ctx context.Context, channel string) (<-chan struct{}, func(), error)
}

// Service creates presence sessions.
type Service struct {
	broker broker
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a new presence service.
func NewService(log *slog.Logger, broker broker) *Service {
	return &Service{
		broker: broker,
		log:    log.With("service", "presence"),
		now:    time.Now,
	}
}

// Channel returns the broker channel name of an entity.
func Channel(entityType domain.EntityType, entityID uuid.UUID) string {
	return string(entityType) + ":" + entityID.String()
}

// JoinInput identifies the entity and the joining user.
type JoinInput struct {
	EntityType domain.EntityType
	EntityID   uuid.UUID
	Self       domain.Identity
}

// Validate checks all fields and collects all errors.
func (i JoinInput) Validate() error {
	var errs []domain.FieldError
	if !i.EntityType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "entity_type", Message: "unknown entity type"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.Self.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Join registers the caller on the entity channel and starts delivering the
// member list of everyone else. The session ends on Leave or when ctx is done.
func (s *Service) Join(ctx context.Context, input JoinInput) (*Session, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	channel := Channel(input.EntityType, input.EntityID)

	signals, unsubscribe, err := s.broker.Subscribe(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("join presence: %w", err)
	}

	self := domain.PresenceRecord{
		SessionID: uuid.New(),
		UserID:    input.Self.ID,
		Email:     input.Self.Email,
		JoinedAt:  s.now().UTC(),
	}
	if err := s.broker.Upsert(ctx, channel, self); err != nil {
		unsubscribe()
		return nil, fmt.Errorf("join presence: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &Session{
		svc:         s,
		channel:     channel,
		userID:      self.UserID,
		sessionID:   self.SessionID,
		self:        self,
		out:         make(chan []domain.PresenceRecord, 1),
		cancel:      cancel,
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
	}

	go sess.run(runCtx, ctx.Done(), signals)

	s.log.DebugContext(ctx, "presence joined",
		slog.String("channel", channel),
		slog.String("user_id", self.UserID.String()),
		slog.String("session_id", self.SessionID.String()),
	)
	return sess, nil
}
