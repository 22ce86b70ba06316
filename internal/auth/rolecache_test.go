package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleSourceFake struct {
	calls  atomic.Int32
	admins map[uuid.UUID]bool
	err    error
	mu     sync.Mutex
}

func (f *roleSourceFake) IsAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admins[id], nil
}

func (f *roleSourceFake) set(id uuid.UUID, admin bool) {
	f.mu.Lock()
	f.admins[id] = admin
	f.mu.Unlock()
}

func TestRoleCache_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	src := &roleSourceFake{admins: map[uuid.UUID]bool{user: true}}
	c := NewRoleCache(src, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for range 3 {
		admin, err := c.IsAdmin(context.Background(), user)
		require.NoError(t, err)
		assert.True(t, admin)
	}
	assert.Equal(t, int32(1), src.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err := c.IsAdmin(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestRoleCache_InvalidateForcesLookup(t *testing.T) {
	t.Parallel()

	user := uuid.New()
	src := &roleSourceFake{admins: map[uuid.UUID]bool{user: true}}
	c := NewRoleCache(src, time.Hour)

	admin, err := c.IsAdmin(context.Background(), user)
	require.NoError(t, err)
	require.True(t, admin)

	src.set(user, false)
	admin, _ = c.IsAdmin(context.Background(), user)
	assert.True(t, admin, "cached value until invalidated")

	c.Invalidate(user)
	assert.Zero(t, c.Len())

	admin, err = c.IsAdmin(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestRoleCache_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	src := &roleSourceFake{admins: map[uuid.UUID]bool{}, err: errors.New("db down")}
	c := NewRoleCache(src, time.Hour)
	user := uuid.New()

	_, err := c.IsAdmin(context.Background(), user)
	require.Error(t, err)
	assert.Zero(t, c.Len())

	src.err = nil
	_, err = c.IsAdmin(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
