package inbox

import (
	"container/heap"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// ordering decides feed position. It must match the ORDER BY of every source.
type ordering struct {
	timeKey domain.BookingTimeKey
	ranked  bool
}

// before reports whether a sorts ahead of b: priority rank first when ranked,
// then sort time descending, then type name, then id.
func (o ordering) before(a, b domain.InboxItem) bool {
	if o.ranked {
		if ra, rb := a.Priority().Rank(), b.Priority().Rank(); ra != rb {
			return ra > rb
		}
	}
	if ta, tb := a.SortTime(o.timeKey), b.SortTime(o.timeKey); !ta.Equal(tb) {
		return ta.After(tb)
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.ID().String() < b.ID().String()
}

type cursor struct {
	items []domain.InboxItem
	pos   int
}

type cursorHeap struct {
	cursors []*cursor
	order   ordering
}

func (h *cursorHeap) Len() int { return len(h.cursors) }
func (h *cursorHeap) Less(i, j int) bool {
	return h.order.before(h.cursors[i].items[h.cursors[i].pos], h.cursors[j].items[h.cursors[j].pos])
}
func (h *cursorHeap) Swap(i, j int) { h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i] }
func (h *cursorHeap) Push(x any)   { h.cursors = append(h.cursors, x.(*cursor)) }
func (h *cursorHeap) Pop() any {
	old := h.cursors
	c := old[len(old)-1]
	h.cursors = old[:len(old)-1]
	return c
}

// merge k-way merges lists that are each already sorted by o, keeping at most limit items.
func merge(lists [][]domain.InboxItem, o ordering, limit int) []domain.InboxItem {
	h := &cursorHeap{order: o}
	total := 0
	for _, l := range lists {
		if len(l) > 0 {
			h.cursors = append(h.cursors, &cursor{items: l})
			total += len(l)
		}
	}
	if limit > 0 && limit < total {
		total = limit
	}
	heap.Init(h)

	out := make([]domain.InboxItem, 0, total)
	for h.Len() > 0 && len(out) < total {
		c := h.cursors[0]
		out = append(out, c.items[c.pos])
		c.pos++
		if c.pos == len(c.items) {
			heap.Pop(h)
		} else {
			heap.Fix(h, 0)
		}
	}
	return out
}
