package inbox

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// ListResult is one page of the unified feed. Partial is set when at least
// one source failed; its items are missing and Failed names it.
type ListResult struct {
	Items   []domain.InboxItem
	Partial bool
	Failed  []domain.EntityType
}

// List queries every source selected by f concurrently and merges the results.
// A failing source does not fail the call.
func (s *Service) List(ctx context.Context, f domain.InboxFilter) (*ListResult, error) {
	if err := s.validateFilter(f); err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}

	plans := s.plan(f, limit)
	lists := make([][]domain.InboxItem, len(plans))

	var (
		mu     sync.Mutex
		failed []domain.EntityType
		g      errgroup.Group
	)
	for i, p := range plans {
		g.Go(func() error {
			items, err := s.fetch(ctx, p)
			if err != nil {
				s.log.WarnContext(ctx, "inbox source failed",
					slog.String("source", string(p.Type)),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failed = append(failed, p.Type)
				mu.Unlock()
				return nil
			}
			lists[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := ordering{timeKey: s.cfg.BookingTimeKey, ranked: f.Ranked()}
	res := &ListResult{
		Items:   merge(lists, order, limit),
		Partial: len(failed) > 0,
		Failed:  sortTypes(failed),
	}
	return res, nil
}

func (s *Service) fetch(ctx context.Context, p sourcePlan) ([]domain.InboxItem, error) {
	switch p.Type {
	case domain.EntityTypeInquiry:
		rows, err := s.inquiries.ListInbox(ctx, p.Query)
		if err != nil {
			return nil, err
		}
		out := make([]domain.InboxItem, len(rows))
		for i := range rows {
			out[i] = domain.InquiryInboxItem(&rows[i])
		}
		return out, nil

	case domain.EntityTypeOrder:
		rows, err := s.orders.ListInbox(ctx, p.Query)
		if err != nil {
			return nil, err
		}
		out := make([]domain.InboxItem, len(rows))
		for i := range rows {
			out[i] = domain.OrderInboxItem(&rows[i])
		}
		return out, nil

	case domain.EntityTypeBooking:
		rows, err := s.bookings.ListInbox(ctx, p.Query)
		if err != nil {
			return nil, err
		}
		out := make([]domain.InboxItem, len(rows))
		for i := range rows {
			out[i] = domain.BookingInboxItem(&rows[i])
		}
		return out, nil
	}
	return nil, nil
}

func sortTypes(types []domain.EntityType) []domain.EntityType {
	var out []domain.EntityType
	for _, t := range domain.InboxEntityTypes {
		for _, f := range types {
			if f == t {
				out = append(out, t)
			}
		}
	}
	return out
}
