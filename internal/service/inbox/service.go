// Package inbox aggregates inquiries, catering orders and event bookings into
// one ordered feed and applies admin mutations to them.
package inbox

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/realtime"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type inquiryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EventInquiry, error)
	ListInbox(ctx context.Context, q domain.SourceQuery) ([]domain.EventInquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.InquiryStatus, error)
	UpdatePriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Priority, error)
	UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error)
	CountByStatus(ctx context.Context, status domain.InquiryStatus) (int, error)
	CountOpenByPriority(ctx context.Context, p domain.Priority) (int, error)
}

type orderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CateringOrder, error)
	ListInbox(ctx context.Context, q domain.SourceQuery) ([]domain.CateringOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.OrderStatus, error)
	UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
}

type bookingRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error)
	ListInbox(ctx context.Context, q domain.SourceQuery) ([]domain.EventBooking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.BookingStatus, error)
	UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error)
	ConfirmMenu(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error)
	CountPendingMenu(ctx context.Context) (int, error)
}

type taskCounter interface {
	CountOverdue(ctx context.Context, now time.Time) (int, error)
}

type activityLogger interface {
	Append(ctx context.Context, e domain.ActivityLogEntry)
}

type viewTracker interface {
	Invalidate(views ...realtime.View)
	Version(v realtime.View) uint64
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds feed defaults.
type Config struct {
	BookingTimeKey domain.BookingTimeKey
	DefaultLimit   int
	MaxLimit       int
	// CountsMaxAge bounds how long cached counts are served; the overdue
	// bucket changes with the clock, not only with row changes.
	CountsMaxAge time.Duration
}

// Service provides the unified inbox.
type Service struct {
	inquiries inquiryRepo
	orders    orderRepo
	bookings  bookingRepo
	tasks     taskCounter
	activity  activityLogger
	views     viewTracker
	cfg       Config
	log       *slog.Logger
	now       func() time.Time

	countsGroup singleflight.Group
	countsMu    sync.Mutex
	counts      cachedCounts
}

type cachedCounts struct {
	value     domain.InboxCounts
	version   uint64
	fetchedAt time.Time
	valid     bool
}

// NewService creates a new inbox service.
func NewService(
	log *slog.Logger,
	cfg Config,
	inquiries inquiryRepo,
	orders orderRepo,
	bookings bookingRepo,
	tasks taskCounter,
	activity activityLogger,
	views viewTracker,
) *Service {
	if cfg.BookingTimeKey == "" {
		cfg.BookingTimeKey = domain.BookingByCreatedAt
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 50
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	if cfg.CountsMaxAge <= 0 {
		cfg.CountsMaxAge = time.Minute
	}
	return &Service{
		inquiries: inquiries,
		orders:    orders,
		bookings:  bookings,
		tasks:     tasks,
		activity:  activity,
		views:     views,
		cfg:       cfg,
		log:       log.With("service", "inbox"),
		now:       time.Now,
	}
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
