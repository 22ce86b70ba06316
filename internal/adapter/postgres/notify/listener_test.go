package notify_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/notify"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/catering-backend/internal/config"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

type recorder struct {
	mu      sync.Mutex
	changes []domain.Change
	resyncs int
	signal  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{signal: make(chan struct{}, 64)}
}

func (r *recorder) notify() {
	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *recorder) HandleChange(c domain.Change) {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
	r.notify()
}

func (r *recorder) HandleResync() {
	r.mu.Lock()
	r.resyncs++
	r.mu.Unlock()
	r.notify()
}

// waitFor blocks until cond holds or the deadline passes.
func (r *recorder) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		r.mu.Lock()
		ok := cond()
		r.mu.Unlock()
		if ok {
			return
		}
		select {
		case <-r.signal:
		case <-deadline:
			t.Fatal("timed out waiting for notification")
		}
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startListener(t *testing.T, cfg notify.Config) (*notify.Listener, *recorder) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	l := notify.NewListener(pool, cfg, quietLogger())
	rec := newRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx, rec)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-l.Ready():
	case <-time.After(10 * time.Second):
		t.Fatal("listener never became ready")
	}
	return l, rec
}

func TestListener_ReceivesTriggerPayloads(t *testing.T) {
	t.Parallel()
	// The only channel config accepts must be the one the migration's trigger uses.
	_, rec := startListener(t, notify.Config{Channel: config.TriggerNotifyChannel, Backoff: 50 * time.Millisecond})
	pool := testhelper.SetupTestDB(t)

	inq := testhelper.SeedInquiry(t, pool, "Notify "+testhelper.UniqueSuffix(), time.Now())

	rec.waitFor(t, func() bool {
		for _, c := range rec.changes {
			if c.Table == domain.TableInquiries && c.ID == inq.ID {
				return true
			}
		}
		return false
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, c := range rec.changes {
		if c.ID == inq.ID {
			assert.Equal(t, domain.ChangeInsert, c.Op)
		}
	}
}

func TestListener_Ping(t *testing.T) {
	t.Parallel()

	idle := notify.NewListener(testhelper.SetupTestDB(t), notify.Config{Channel: "table_changes"}, quietLogger())
	assert.ErrorIs(t, idle.Ping(context.Background()), notify.ErrNotListening)

	l, _ := startListener(t, notify.Config{Channel: "table_changes", Backoff: 50 * time.Millisecond})
	assert.NoError(t, l.Ping(context.Background()))
}

func TestListener_ActivityPayloadCarriesEntity(t *testing.T) {
	t.Parallel()
	_, rec := startListener(t, notify.Config{Channel: "table_changes", Backoff: 50 * time.Millisecond})
	pool := testhelper.SetupTestDB(t)

	entityID := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO activity_logs (entity_type, entity_id, action) VALUES ('order', $1, 'created')`, entityID)
	require.NoError(t, err)

	rec.waitFor(t, func() bool {
		for _, c := range rec.changes {
			if c.Table == domain.TableActivityLogs && c.EntityID != nil && *c.EntityID == entityID {
				return c.EntityType == domain.EntityTypeOrder
			}
		}
		return false
	})
}

func TestListener_ResyncsAfterReconnect(t *testing.T) {
	t.Parallel()
	channel := "test_changes_" + testhelper.UniqueSuffix()
	_, rec := startListener(t, notify.Config{Channel: channel, Backoff: 50 * time.Millisecond, MaxBackoff: 200 * time.Millisecond})
	pool := testhelper.SetupTestDB(t)
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`SELECT pg_terminate_backend(pid) FROM pg_stat_activity
		 WHERE query ILIKE '%' || $1 || '%' AND pid <> pg_backend_pid()`, channel)
	require.NoError(t, err)

	rec.waitFor(t, func() bool { return rec.resyncs >= 1 })

	// Still delivering after the reconnect.
	id := uuid.New()
	payload := `{"table":"event_orders_test","op":"UPDATE","id":"` + id.String() + `"}`
	require.Eventually(t, func() bool {
		_, err := pool.Exec(ctx, `SELECT pg_notify($1, $2)`, channel, payload)
		if err != nil {
			return false
		}
		rec.mu.Lock()
		defer rec.mu.Unlock()
		for _, c := range rec.changes {
			if c.ID == id {
				return true
			}
		}
		return false
	}, 10*time.Second, 100*time.Millisecond)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c, err := notify.Decode(`{"table":"inquiry_tasks","op":"DELETE","id":"` + id.String() + `","inquiry_id":null}`)
	require.NoError(t, err)
	assert.Equal(t, domain.TableTasks, c.Table)
	assert.Equal(t, domain.ChangeDelete, c.Op)
	assert.Equal(t, id, c.ID)
	assert.Nil(t, c.InquiryID)

	_, err = notify.Decode(`{"op":"INSERT"}`)
	assert.Error(t, err)

	_, err = notify.Decode(`not json`)
	assert.Error(t, err)
}
