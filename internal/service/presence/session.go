package presence

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const leaveTimeout = 5 * time.Second

// Session is one connection's membership in one entity channel. A user may
// hold several sessions on the same channel; each leaves independently.
type Session struct {
	svc         *Service
	channel     string
	userID      uuid.UUID
	sessionID   uuid.UUID
	out         chan []domain.PresenceRecord
	cancel      context.CancelFunc
	unsubscribe func()
	done        chan struct{}

	mu   sync.Mutex
	self domain.PresenceRecord
	left bool
}

// Changes delivers the full list of other members after every change,
// starting with the list at join time. Only the latest list is kept when the
// receiver falls behind. The channel is closed after Leave.
func (s *Session) Changes() <-chan []domain.PresenceRecord {
	return s.out
}

// SetEditing updates the caller's own record.
func (s *Session) SetEditing(ctx context.Context, editing bool) error {
	s.mu.Lock()
	if s.left {
		s.mu.Unlock()
		return fmt.Errorf("set editing: session closed: %w", domain.ErrConflict)
	}
	s.self.IsEditing = editing
	rec := s.self
	s.mu.Unlock()

	if err := s.svc.broker.Upsert(ctx, s.channel, rec); err != nil {
		return fmt.Errorf("set editing: %w", err)
	}
	return nil
}

// Leave removes the caller's record for all other subscribers. Safe to call more than once.
func (s *Session) Leave(ctx context.Context) error {
	s.mu.Lock()
	if s.left {
		s.mu.Unlock()
		return nil
	}
	s.left = true
	s.mu.Unlock()

	s.cancel()
	s.unsubscribe()
	<-s.done

	if err := s.svc.broker.Remove(ctx, s.channel, s.sessionID); err != nil {
		return fmt.Errorf("leave presence: %w", err)
	}
	return nil
}

func (s *Session) run(ctx context.Context, parentDone <-chan struct{}, signals <-chan struct{}) {
	defer close(s.done)
	defer close(s.out)

	s.publish(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-parentDone:
			// Disconnect without an explicit Leave.
			go s.leaveDetached()
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			s.publish(ctx)
		}
	}
}

func (s *Session) leaveDetached() {
	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if err := s.Leave(ctx); err != nil {
		s.svc.log.Warn("presence leave failed", slog.String("channel", s.channel), slog.String("error", err.Error()))
	}
}

func (s *Session) publish(ctx context.Context) {
	members, err := s.svc.broker.Members(ctx, s.channel)
	if err != nil {
		if ctx.Err() == nil {
			s.svc.log.WarnContext(ctx, "presence members unavailable",
				slog.String("channel", s.channel),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	others := Others(members, s.userID)

	// Replace a list the receiver has not read yet.
	select {
	case <-s.out:
	default:
	}
	select {
	case s.out <- others:
	default:
	}
}

// Others drops every session of self, folds the remaining sessions into one
// record per user and orders them by join time, then user id. A folded user
// keeps the earliest join time and is editing when any of their sessions is.
func Others(members []domain.PresenceRecord, self uuid.UUID) []domain.PresenceRecord {
	byUser := make(map[uuid.UUID]int, len(members))
	out := make([]domain.PresenceRecord, 0, len(members))
	for _, m := range members {
		if m.UserID == self {
			continue
		}
		m.SessionID = uuid.Nil
		i, seen := byUser[m.UserID]
		if !seen {
			byUser[m.UserID] = len(out)
			out = append(out, m)
			continue
		}
		if m.JoinedAt.Before(out[i].JoinedAt) {
			out[i].JoinedAt = m.JoinedAt
		}
		out[i].IsEditing = out[i].IsEditing || m.IsEditing
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out
}
