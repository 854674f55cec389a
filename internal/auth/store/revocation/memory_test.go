package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryList()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := NewMemoryList(WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Once the underlying token is past its own expiry, the denylist entry
	// no longer matters.
	now = now.Add(2 * time.Hour)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestExpiredEntriesCollected(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := NewMemoryList(WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, list.Revoke(ctx, "jti-old", time.Minute))

	now = now.Add(10 * time.Minute)
	require.NoError(t, list.Revoke(ctx, "jti-new", time.Hour))

	list.mu.RLock()
	_, stillThere := list.expiry["jti-old"]
	list.mu.RUnlock()
	assert.False(t, stillThere)
}

func TestEmptyJTIIsNoop(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryList()

	require.NoError(t, list.Revoke(ctx, "", time.Hour))
	revoked, err := list.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}
