// Package redis is a presence broker shared across server instances.
// Each channel is a hash (session id -> JSON record) plus a pub/sub topic that
// carries a change signal.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	keyPrefix   = "presence:"
	topicPrefix = "presence:events:"
)

// Broker implements presence over Redis.
type Broker struct {
	rdb goredis.UniversalClient
	ttl time.Duration
	log *slog.Logger
}

// New creates a broker. Channel hashes expire after ttl without writes so
// records of crashed instances do not live forever.
func New(rdb goredis.UniversalClient, ttl time.Duration, log *slog.Logger) *Broker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Broker{rdb: rdb, ttl: ttl, log: log.With("component", "presence_redis")}
}

// Ping checks the Redis connection.
func (b *Broker) Ping(ctx context.Context) error {
	if err := b.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Upsert stores rec under its session id and signals the channel.
func (b *Broker) Upsert(ctx context.Context, channel string, rec domain.PresenceRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal presence: %w", err)
	}

	key := keyPrefix + channel
	pipe := b.rdb.TxPipeline()
	pipe.HSet(ctx, key, rec.SessionID.String(), raw)
	pipe.Expire(ctx, key, b.ttl)
	pipe.Publish(ctx, topicPrefix+channel, "changed")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence upsert %s: %w", channel, err)
	}
	return nil
}

// Remove deletes the record of sessionID and signals the channel.
func (b *Broker) Remove(ctx context.Context, channel string, sessionID uuid.UUID) error {
	pipe := b.rdb.TxPipeline()
	pipe.HDel(ctx, keyPrefix+channel, sessionID.String())
	pipe.Publish(ctx, topicPrefix+channel, "changed")
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence remove %s: %w", channel, err)
	}
	return nil
}

// Members returns the raw member set of channel. Undecodable entries are skipped.
func (b *Broker) Members(ctx context.Context, channel string) ([]domain.PresenceRecord, error) {
	raw, err := b.rdb.HGetAll(ctx, keyPrefix+channel).Result()
	if err != nil {
		return nil, fmt.Errorf("presence members %s: %w", channel, err)
	}

	out := make([]domain.PresenceRecord, 0, len(raw))
	for field, v := range raw {
		var rec domain.PresenceRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			b.log.WarnContext(ctx, "skipping malformed presence record",
				slog.String("channel", channel),
				slog.String("field", field),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Subscribe listens on the channel topic. The returned signal channel is closed by cancel.
func (b *Broker) Subscribe(ctx context.Context, channel string) (<-chan struct{}, func(), error) {
	ps := b.rdb.Subscribe(ctx, topicPrefix+channel)

	// Wait for the subscription to be confirmed so no change is missed after Upsert.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("presence subscribe %s: %w", channel, err)
	}

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	msgs := ps.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := ps.Close(); err != nil {
				b.log.Warn("presence unsubscribe failed", slog.String("channel", channel), slog.String("error", err.Error()))
			}
		})
	}
	return out, cancel, nil
}
