package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-api/internal/auth"
)

func newDenylist(t *testing.T) (*auth.Denylist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return auth.NewDenylist(rdb), mr
}

func TestDenylistRevoke(t *testing.T) {
	ctx := context.Background()
	dl, _ := newDenylist(t)

	revoked, err := dl.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, dl.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = dl.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// other tokens are unaffected
	revoked, err = dl.Revoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylistEntryExpires(t *testing.T) {
	ctx := context.Background()
	dl, mr := newDenylist(t)

	require.NoError(t, dl.Revoke(ctx, "jti-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := dl.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenylistNoOps(t *testing.T) {
	ctx := context.Background()
	dl, mr := newDenylist(t)

	// empty jti and already-expired tokens are silently ignored
	require.NoError(t, dl.Revoke(ctx, "", time.Minute))
	require.NoError(t, dl.Revoke(ctx, "jti-1", -time.Second))
	assert.Empty(t, mr.Keys())

	revoked, err := dl.Revoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}
