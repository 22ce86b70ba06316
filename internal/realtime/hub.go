// Package realtime turns row-change notifications into coalesced view invalidations.
package realtime

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Hub tracks a version per view and fans invalidations out to subscribers.
// It satisfies notify.Handler.
type Hub struct {
	window time.Duration
	log    *slog.Logger

	mu        sync.Mutex
	versions  map[View]uint64
	resyncs   uint64
	subs      map[*Subscription]struct{}
	listeners []func(views []View)
}

// NewHub creates a hub that batches deliveries to subscribers for window.
func NewHub(window time.Duration, log *slog.Logger) *Hub {
	return &Hub{
		window:   window,
		log:      log.With("component", "realtime_hub"),
		versions: make(map[View]uint64),
		subs:     make(map[*Subscription]struct{}),
	}
}

// HandleChange invalidates the views affected by c.
func (h *Hub) HandleChange(c domain.Change) {
	h.Invalidate(ViewsForChange(c)...)
}

// HandleResync invalidates everything.
func (h *Hub) HandleResync() {
	h.mu.Lock()
	h.resyncs++
	h.mu.Unlock()
	h.deliver([]View{ViewAll})
}

// Invalidate marks views stale. Delivery to subscribers is at-least-once and
// may be merged with other invalidations inside the coalescing window.
func (h *Hub) Invalidate(views ...View) {
	if len(views) == 0 {
		return
	}
	h.mu.Lock()
	for _, v := range views {
		h.versions[v]++
	}
	h.mu.Unlock()
	h.deliver(views)
}

// Version is a monotonic counter that changes every time v is invalidated.
func (h *Hub) Version(v View) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.versions[v] + h.resyncs
}

// OnInvalidate registers fn to be called synchronously, uncoalesced, on every invalidation.
// fn must not block.
func (h *Hub) OnInvalidate(fn func(views []View)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Subscribe returns a subscription receiving coalesced batches.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{
		hub:     h,
		c:       make(chan []View, 1),
		pending: make(map[View]struct{}),
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Subscribers returns the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) deliver(views []View) {
	h.mu.Lock()
	listeners := append([]func([]View){}, h.listeners...)
	subs := make([]*Subscription, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(views)
	}
	for _, s := range subs {
		s.add(views)
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

// Subscription receives batches of stale views on C.
type Subscription struct {
	hub *Hub
	c   chan []View

	mu      sync.Mutex
	pending map[View]struct{}
	timer   *time.Timer
	closed  bool
}

// C delivers sorted, de-duplicated batches. It is closed by Close.
func (s *Subscription) C() <-chan []View {
	return s.c
}

// Close detaches the subscription from the hub.
func (s *Subscription) Close() {
	s.hub.remove(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.c)
}

func (s *Subscription) add(views []View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, v := range views {
		s.pending[v] = struct{}{}
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.hub.window, s.flush)
	}
}

func (s *Subscription) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = nil
	if s.closed || len(s.pending) == 0 {
		return
	}

	batch := make([]View, 0, len(s.pending))
	if _, all := s.pending[ViewAll]; all {
		batch = append(batch, ViewAll)
	} else {
		for v := range s.pending {
			batch = append(batch, v)
		}
		sort.Slice(batch, func(i, j int) bool { return batch[i] < batch[j] })
	}

	select {
	case s.c <- batch:
		s.pending = make(map[View]struct{})
	default:
		// Consumer has not drained the previous batch; keep accumulating.
		s.hub.log.Debug("subscriber behind, batch deferred", slog.Int("pending", len(s.pending)))
		s.timer = time.AfterFunc(s.hub.window, s.flush)
	}
}
