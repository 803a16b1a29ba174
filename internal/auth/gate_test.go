package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGate(t *testing.T, ttl time.Duration) (*Gate, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewGate(NewTokenManager("test-secret", ttl), NewRedisRevocationStore(rdb)), mr
}

func TestIssueAndAuthorize(t *testing.T) {
	gate, _ := setupGate(t, 36*time.Hour)
	ctx := context.Background()

	token, err := gate.Issue("u1", "alice")
	require.NoError(t, err)

	claims, err := gate.Authorize(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthorizeRejectsMissingToken(t *testing.T) {
	gate, _ := setupGate(t, time.Hour)
	_, err := gate.Authorize(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestAuthorizeRejectsGarbage(t *testing.T) {
	gate, _ := setupGate(t, time.Hour)
	_, err := gate.Authorize(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthorizeRejectsWrongSecret(t *testing.T) {
	other := NewTokenManager("other-secret", time.Hour)
	token, err := other.Issue("u1", "alice")
	require.NoError(t, err)

	gate, _ := setupGate(t, time.Hour)
	_, err = gate.Authorize(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokedTokenNeverAuthorizesAgain(t *testing.T) {
	gate, _ := setupGate(t, 36*time.Hour)
	ctx := context.Background()

	token, err := gate.Issue("u1", "alice")
	require.NoError(t, err)
	_, err = gate.Authorize(ctx, token)
	require.NoError(t, err)

	require.NoError(t, gate.Revoke(ctx, token))
	_, err = gate.Authorize(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// 重复注销是幂等的
	require.NoError(t, gate.Revoke(ctx, token))
	_, err = gate.Authorize(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRevocationEntryExpiresWithToken(t *testing.T) {
	gate, mr := setupGate(t, time.Minute)
	ctx := context.Background()

	token, err := gate.Issue("u1", "alice")
	require.NoError(t, err)
	require.NoError(t, gate.Revoke(ctx, token))

	// 条目 TTL 不超过令牌剩余有效期，集合大小有界
	mr.FastForward(2 * time.Minute)
	revoked, err := NewRedisRevocationStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})).IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestExpiredTokenRejected(t *testing.T) {
	gate, _ := setupGate(t, -time.Minute)
	token, err := gate.Issue("u1", "alice")
	require.NoError(t, err)
	_, err = gate.Authorize(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
