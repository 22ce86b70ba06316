package inbox

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/realtime"
)

const countsTimeout = 10 * time.Second

// Counts returns the badge counters. A cached value is served until the counts
// view is invalidated or it ages out; concurrent refreshes share one fetch.
func (s *Service) Counts(ctx context.Context) (domain.InboxCounts, error) {
	if c, ok := s.cachedCounts(); ok {
		return c, nil
	}

	v, err, _ := s.countsGroup.Do("counts", func() (any, error) {
		// Read the version before querying so an invalidation that lands
		// mid-fetch leaves the stored result stale.
		version := s.views.Version(realtime.ViewInboxCount)
		started := s.now()

		// Shared by every waiting caller, so one caller leaving must not cancel it.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), countsTimeout)
		defer cancel()

		c, err := s.fetchCounts(fetchCtx)
		if err != nil {
			return nil, err
		}

		s.countsMu.Lock()
		if !s.counts.valid || version >= s.counts.version {
			s.counts = cachedCounts{value: c, version: version, fetchedAt: started, valid: true}
		}
		s.countsMu.Unlock()
		return c, nil
	})
	if err != nil {
		return domain.InboxCounts{}, fmt.Errorf("inbox counts: %w", err)
	}
	return v.(domain.InboxCounts), nil
}

func (s *Service) cachedCounts() (domain.InboxCounts, bool) {
	version := s.views.Version(realtime.ViewInboxCount)

	s.countsMu.Lock()
	defer s.countsMu.Unlock()
	c := s.counts
	if !c.valid || c.version != version || s.now().Sub(c.fetchedAt) >= s.cfg.CountsMaxAge {
		return domain.InboxCounts{}, false
	}
	return c.value, true
}

func (s *Service) fetchCounts(ctx context.Context) (domain.InboxCounts, error) {
	var c domain.InboxCounts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		c.NewInquiries, err = s.inquiries.CountByStatus(ctx, domain.InquiryStatusNew)
		return err
	})
	g.Go(func() (err error) {
		c.UrgentInquiries, err = s.inquiries.CountOpenByPriority(ctx, domain.PriorityUrgent)
		return err
	})
	g.Go(func() (err error) {
		c.PendingOrders, err = s.orders.CountByStatus(ctx, domain.OrderStatusPending)
		return err
	})
	g.Go(func() (err error) {
		c.PendingMenu, err = s.bookings.CountPendingMenu(ctx)
		return err
	})
	g.Go(func() (err error) {
		c.OverdueTasks, err = s.tasks.CountOverdue(ctx, s.now())
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.InboxCounts{}, err
	}
	return c, nil
}
