package realtime

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

func newTestHub(window time.Duration) *Hub {
	return NewHub(window, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func receive(t *testing.T, s *Subscription) []View {
	t.Helper()
	select {
	case batch := <-s.C():
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
		return nil
	}
}

func TestViewsForChange(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	inquiryID := uuid.New()

	tests := []struct {
		name   string
		change domain.Change
		want   []View
	}{
		{
			name:   "source row",
			change: domain.Change{Table: domain.TableOrders, Op: domain.ChangeUpdate, ID: id},
			want:   []View{ViewInboxList, ViewInboxCount, ItemView(domain.EntityTypeOrder, id)},
		},
		{
			name:   "activity on inbox entity",
			change: domain.Change{Table: domain.TableActivityLogs, ID: uuid.New(), EntityType: domain.EntityTypeBooking, EntityID: &id},
			want: []View{
				ActivityView(domain.EntityTypeBooking, id),
				ViewInboxList, ViewInboxCount, ItemView(domain.EntityTypeBooking, id),
			},
		},
		{
			name:   "activity on task",
			change: domain.Change{Table: domain.TableActivityLogs, ID: uuid.New(), EntityType: domain.EntityTypeTask, EntityID: &id},
			want:   []View{ActivityView(domain.EntityTypeTask, id)},
		},
		{
			name:   "activity without entity",
			change: domain.Change{Table: domain.TableActivityLogs, ID: uuid.New()},
			want:   nil,
		},
		{
			name:   "linked task",
			change: domain.Change{Table: domain.TableTasks, ID: id, InquiryID: &inquiryID},
			want: []View{
				ViewInboxCount, ViewOpenTasks, InquiryTasksView(inquiryID),
				ItemView(domain.EntityTypeInquiry, inquiryID), ViewInboxList,
			},
		},
		{
			name:   "standalone task",
			change: domain.Change{Table: domain.TableTasks, ID: id},
			want:   []View{ViewInboxCount, ViewOpenTasks},
		},
		{
			name:   "unwatched table",
			change: domain.Change{Table: "packages", ID: id},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ViewsForChange(tt.change))
		})
	}
}

func TestHub_CoalescesRapidChanges(t *testing.T) {
	t.Parallel()
	hub := newTestHub(50 * time.Millisecond)
	sub := hub.Subscribe()
	defer sub.Close()

	a, b := uuid.New(), uuid.New()
	for range 10 {
		hub.HandleChange(domain.Change{Table: domain.TableInquiries, Op: domain.ChangeUpdate, ID: a})
	}
	hub.HandleChange(domain.Change{Table: domain.TableBookings, Op: domain.ChangeInsert, ID: b})

	batch := receive(t, sub)
	assert.ElementsMatch(t, []View{
		ViewInboxCount, ViewInboxList,
		ItemView(domain.EntityTypeInquiry, a), ItemView(domain.EntityTypeBooking, b),
	}, batch)

	select {
	case extra := <-sub.C():
		t.Fatalf("unexpected second batch %v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestHub_ResyncDeliversAll(t *testing.T) {
	t.Parallel()
	hub := newTestHub(10 * time.Millisecond)
	sub := hub.Subscribe()
	defer sub.Close()

	hub.Invalidate(ViewInboxList)
	hub.HandleResync()

	batch := receive(t, sub)
	require.Equal(t, []View{ViewAll}, batch)
	assert.True(t, batch[0].Covers(ItemView(domain.EntityTypeOrder, uuid.New())))
}

func TestHub_VersionIsMonotonic(t *testing.T) {
	t.Parallel()
	hub := newTestHub(time.Millisecond)

	v0 := hub.Version(ViewInboxCount)
	hub.Invalidate(ViewInboxCount)
	v1 := hub.Version(ViewInboxCount)
	hub.Invalidate(ViewInboxList)
	v2 := hub.Version(ViewInboxCount)
	hub.HandleResync()
	v3 := hub.Version(ViewInboxCount)

	assert.Greater(t, v1, v0)
	assert.Equal(t, v1, v2, "unrelated view does not bump")
	assert.Greater(t, v3, v2, "resync bumps every view")
}

func TestHub_OnInvalidateIsSynchronous(t *testing.T) {
	t.Parallel()
	hub := newTestHub(time.Hour)

	var calls atomic.Int32
	hub.OnInvalidate(func(views []View) { calls.Add(1) })

	hub.Invalidate(ViewInboxList)
	hub.HandleResync()
	hub.Invalidate()

	assert.Equal(t, int32(2), calls.Load())
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	t.Parallel()
	hub := newTestHub(time.Millisecond)
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers())

	hub.Invalidate(ViewInboxList)
	_, ok := <-sub.C()
	assert.False(t, ok, "channel closed")
}

func TestSubscription_SlowConsumerKeepsPending(t *testing.T) {
	t.Parallel()
	hub := newTestHub(5 * time.Millisecond)
	sub := hub.Subscribe()
	defer sub.Close()

	hub.Invalidate(ViewInboxList)
	time.Sleep(30 * time.Millisecond) // first batch parked in the buffer
	hub.Invalidate(ViewInboxCount)
	time.Sleep(30 * time.Millisecond)

	first := receive(t, sub)
	assert.Equal(t, []View{ViewInboxList}, first)
	second := receive(t, sub)
	assert.Equal(t, []View{ViewInboxCount}, second)
}
