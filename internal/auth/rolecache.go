package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type roleSource interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type roleEntry struct {
	admin     bool
	expiresAt time.Time
}

// RoleCache remembers whether a user is an admin for a bounded time.
// Logout calls Invalidate so a revoked role is not served from cache.
type RoleCache struct {
	source roleSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]roleEntry
	group   singleflight.Group
}

// NewRoleCache creates a RoleCache backed by source.
func NewRoleCache(source roleSource, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RoleCache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]roleEntry),
	}
}

// IsAdmin reports whether userID holds the admin role.
func (c *RoleCache) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[userID]
	c.mu.Unlock()
	if ok && c.now().Before(e.expiresAt) {
		return e.admin, nil
	}

	v, err, _ := c.group.Do(userID.String(), func() (any, error) {
		admin, err := c.source.IsAdmin(ctx, userID)
		if err != nil {
			return false, err
		}
		c.mu.Lock()
		c.entries[userID] = roleEntry{admin: admin, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return admin, nil
	})
	if err != nil {
		return false, fmt.Errorf("lookup role: %w", err)
	}
	return v.(bool), nil
}

// Invalidate drops the cached role of userID.
func (c *RoleCache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *RoleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
