package inbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/realtime"
)

var (
	_ inquiryRepo    = &inquiryRepoFake{}
	_ orderRepo      = &orderRepoFake{}
	_ bookingRepo    = &bookingRepoFake{}
	_ taskCounter    = &taskCounterFake{}
	_ activityLogger = &activityRecorder{}
	_ viewTracker    = &viewsFake{}
)

// Func fields left nil fall back to zero values, unlike generated mocks.

type inquiryRepoFake struct {
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.EventInquiry, error)
	ListInboxFunc           func(ctx context.Context, q domain.SourceQuery) ([]domain.EventInquiry, error)
	UpdateStatusFunc        func(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.InquiryStatus, error)
	UpdatePriorityFunc      func(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Priority, error)
	UpdateAssigneeFunc      func(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error)
	UpdateNotesFunc         func(ctx context.Context, id uuid.UUID, notes *string) (*string, error)
	CountByStatusFunc       func(ctx context.Context, status domain.InquiryStatus) (int, error)
	CountOpenByPriorityFunc func(ctx context.Context, p domain.Priority) (int, error)

	mu      sync.Mutex
	queries []domain.SourceQuery
}

func (f *inquiryRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventInquiry, error) {
	if f.GetByIDFunc == nil {
		return nil, domain.ErrNotFound
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *inquiryRepoFake) ListInbox(ctx context.Context, q domain.SourceQuery) ([]domain.EventInquiry, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.ListInboxFunc == nil {
		return nil, nil
	}
	return f.ListInboxFunc(ctx, q)
}

func (f *inquiryRepoFake) Queries() []domain.SourceQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func (f *inquiryRepoFake) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.InquiryStatus, error) {
	return f.UpdateStatusFunc(ctx, id, status)
}

func (f *inquiryRepoFake) UpdatePriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Priority, error) {
	return f.UpdatePriorityFunc(ctx, id, p)
}

func (f *inquiryRepoFake) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error) {
	return f.UpdateAssigneeFunc(ctx, id, assignee)
}

func (f *inquiryRepoFake) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error) {
	return f.UpdateNotesFunc(ctx, id, notes)
}

func (f *inquiryRepoFake) CountByStatus(ctx context.Context, status domain.InquiryStatus) (int, error) {
	if f.CountByStatusFunc == nil {
		return 0, nil
	}
	return f.CountByStatusFunc(ctx, status)
}

func (f *inquiryRepoFake) CountOpenByPriority(ctx context.Context, p domain.Priority) (int, error) {
	if f.CountOpenByPriorityFunc == nil {
		return 0, nil
	}
	return f.CountOpenByPriorityFunc(ctx, p)
}

type orderRepoFake struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.CateringOrder, error)
	ListInboxFunc      func(ctx context.Context, q domain.SourceQuery) ([]domain.CateringOrder, error)
	UpdateStatusFunc   func(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.OrderStatus, error)
	UpdateAssigneeFunc func(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error)
	UpdateNotesFunc    func(ctx context.Context, id uuid.UUID, notes *string) (*string, error)
	CountByStatusFunc  func(ctx context.Context, status domain.OrderStatus) (int, error)

	mu      sync.Mutex
	queries []domain.SourceQuery
}

func (f *orderRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.CateringOrder, error) {
	if f.GetByIDFunc == nil {
		return nil, domain.ErrNotFound
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *orderRepoFake) ListInbox(ctx context.Context, q domain.SourceQuery) ([]domain.CateringOrder, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.ListInboxFunc == nil {
		return nil, nil
	}
	return f.ListInboxFunc(ctx, q)
}

func (f *orderRepoFake) Queries() []domain.SourceQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func (f *orderRepoFake) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.OrderStatus, error) {
	return f.UpdateStatusFunc(ctx, id, status)
}

func (f *orderRepoFake) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error) {
	return f.UpdateAssigneeFunc(ctx, id, assignee)
}

func (f *orderRepoFake) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error) {
	return f.UpdateNotesFunc(ctx, id, notes)
}

func (f *orderRepoFake) CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	if f.CountByStatusFunc == nil {
		return 0, nil
	}
	return f.CountByStatusFunc(ctx, status)
}

type bookingRepoFake struct {
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error)
	ListInboxFunc        func(ctx context.Context, q domain.SourceQuery) ([]domain.EventBooking, error)
	UpdateStatusFunc     func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.BookingStatus, error)
	UpdateAssigneeFunc   func(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error)
	UpdateNotesFunc      func(ctx context.Context, id uuid.UUID, notes *string) (*string, error)
	ConfirmMenuFunc      func(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error)
	CountPendingMenuFunc func(ctx context.Context) (int, error)

	mu      sync.Mutex
	queries []domain.SourceQuery
}

func (f *bookingRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error) {
	if f.GetByIDFunc == nil {
		return nil, domain.ErrNotFound
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *bookingRepoFake) ListInbox(ctx context.Context, q domain.SourceQuery) ([]domain.EventBooking, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.ListInboxFunc == nil {
		return nil, nil
	}
	return f.ListInboxFunc(ctx, q)
}

func (f *bookingRepoFake) Queries() []domain.SourceQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func (f *bookingRepoFake) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.BookingStatus, error) {
	return f.UpdateStatusFunc(ctx, id, status)
}

func (f *bookingRepoFake) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error) {
	return f.UpdateAssigneeFunc(ctx, id, assignee)
}

func (f *bookingRepoFake) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error) {
	return f.UpdateNotesFunc(ctx, id, notes)
}

func (f *bookingRepoFake) ConfirmMenu(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error) {
	return f.ConfirmMenuFunc(ctx, id)
}

func (f *bookingRepoFake) CountPendingMenu(ctx context.Context) (int, error) {
	if f.CountPendingMenuFunc == nil {
		return 0, nil
	}
	return f.CountPendingMenuFunc(ctx)
}

type taskCounterFake struct {
	CountOverdueFunc func(ctx context.Context, now time.Time) (int, error)
}

func (f *taskCounterFake) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	if f.CountOverdueFunc == nil {
		return 0, nil
	}
	return f.CountOverdueFunc(ctx, now)
}

type activityRecorder struct {
	mu      sync.Mutex
	entries []domain.ActivityLogEntry
}

func (r *activityRecorder) Append(_ context.Context, e domain.ActivityLogEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

func (r *activityRecorder) Entries() []domain.ActivityLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ActivityLogEntry(nil), r.entries...)
}

type viewsFake struct {
	mu          sync.Mutex
	versions    map[realtime.View]uint64
	invalidated []realtime.View
}

func (v *viewsFake) Invalidate(views ...realtime.View) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.versions == nil {
		v.versions = make(map[realtime.View]uint64)
	}
	for _, view := range views {
		v.versions[view]++
		v.invalidated = append(v.invalidated, view)
	}
}

func (v *viewsFake) Version(view realtime.View) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.versions[view]
}

func (v *viewsFake) Invalidated() []realtime.View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]realtime.View(nil), v.invalidated...)
}
