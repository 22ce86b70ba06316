// Package memory is an in-process presence broker for single-instance deployments and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Broker keeps presence channels in memory.
type Broker struct {
	mu       sync.Mutex
	channels map[string]map[uuid.UUID]domain.PresenceRecord
	subs     map[string]map[chan struct{}]struct{}
}

// New creates an empty broker.
func New() *Broker {
	return &Broker{
		channels: make(map[string]map[uuid.UUID]domain.PresenceRecord),
		subs:     make(map[string]map[chan struct{}]struct{}),
	}
}

// Upsert stores rec under its session id on channel.
func (b *Broker) Upsert(_ context.Context, channel string, rec domain.PresenceRecord) error {
	b.mu.Lock()
	members, ok := b.channels[channel]
	if !ok {
		members = make(map[uuid.UUID]domain.PresenceRecord)
		b.channels[channel] = members
	}
	members[rec.SessionID] = rec
	b.signalLocked(channel)
	b.mu.Unlock()
	return nil
}

// Remove deletes the record of sessionID from channel.
func (b *Broker) Remove(_ context.Context, channel string, sessionID uuid.UUID) error {
	b.mu.Lock()
	if members, ok := b.channels[channel]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(b.channels, channel)
		}
	}
	b.signalLocked(channel)
	b.mu.Unlock()
	return nil
}

// Members returns the raw per-session records of channel, self included.
func (b *Broker) Members(_ context.Context, channel string) ([]domain.PresenceRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.PresenceRecord, 0, len(b.channels[channel]))
	for _, r := range b.channels[channel] {
		out = append(out, r)
	}
	return out, nil
}

// Ping always succeeds; the broker lives in process.
func (b *Broker) Ping(context.Context) error { return nil }

// Subscribe returns a channel signalled after every membership change on channel.
// Signals coalesce; the receiver re-reads Members.
func (b *Broker) Subscribe(_ context.Context, channel string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	set, ok := b.subs[channel]
	if !ok {
		set = make(map[chan struct{}]struct{})
		b.subs[channel] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channel], ch)
			if len(b.subs[channel]) == 0 {
				delete(b.subs, channel)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

func (b *Broker) signalLocked(channel string) {
	for ch := range b.subs[channel] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
