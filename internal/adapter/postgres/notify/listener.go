// Package notify consumes row-change notifications published by the
// notify_table_change trigger over PostgreSQL LISTEN/NOTIFY.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Handler receives decoded changes. HandleResync is called after the listener
// reconnects, since notifications sent while disconnected are lost.
type Handler interface {
	HandleChange(c domain.Change)
	HandleResync()
}

// Config controls the channel name and reconnect backoff.
type Config struct {
	Channel    string
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// Listener holds one dedicated connection in LISTEN mode and reconnects on failure.
type Listener struct {
	pool *pgxpool.Pool
	cfg  Config
	log  *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
	listening atomic.Bool
}

// ErrNotListening is returned by Ping while the LISTEN connection is down.
var ErrNotListening = errors.New("change listener not connected")

// NewListener creates a listener. It does not connect until Run is called.
func NewListener(pool *pgxpool.Pool, cfg Config, log *slog.Logger) *Listener {
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.MaxBackoff < cfg.Backoff {
		cfg.MaxBackoff = cfg.Backoff
	}
	return &Listener{
		pool:  pool,
		cfg:   cfg,
		log:   log.With("component", "change_listener"),
		ready: make(chan struct{}),
	}
}

// Ready is closed once the first LISTEN succeeded.
func (l *Listener) Ready() <-chan struct{} {
	return l.ready
}

// Ping reports whether the LISTEN connection is currently up.
func (l *Listener) Ping(context.Context) error {
	if !l.listening.Load() {
		return ErrNotListening
	}
	return nil
}

// Run blocks until ctx is cancelled, delivering changes to h.
func (l *Listener) Run(ctx context.Context, h Handler) error {
	backoff := l.cfg.Backoff
	connectedBefore := false

	for {
		err := l.listen(ctx, h, func() {
			if connectedBefore {
				l.log.InfoContext(ctx, "change listener reconnected, resyncing")
				h.HandleResync()
			}
			connectedBefore = true
			l.listening.Store(true)
			backoff = l.cfg.Backoff
			l.readyOnce.Do(func() { close(l.ready) })
		})
		l.listening.Store(false)
		if ctx.Err() != nil {
			return nil
		}

		l.log.WarnContext(ctx, "change listener disconnected",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, l.cfg.MaxBackoff)
	}
}

func (l *Listener) listen(ctx context.Context, h Handler, onListening func()) error {
	pc, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	// The connection leaves the pool; LISTEN state must not leak to other users.
	conn := pc.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.cfg.Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.cfg.Channel, err)
	}
	onListening()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		c, err := Decode(n.Payload)
		if err != nil {
			l.log.WarnContext(ctx, "undecodable change notification",
				slog.String("payload", n.Payload),
				slog.String("error", err.Error()),
			)
			continue
		}
		h.HandleChange(c)
	}
}

// Decode parses a trigger payload.
func Decode(payload string) (domain.Change, error) {
	var c domain.Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return domain.Change{}, fmt.Errorf("decode change: %w", err)
	}
	if c.Table == "" {
		return domain.Change{}, fmt.Errorf("decode change: missing table")
	}
	return c, nil
}
