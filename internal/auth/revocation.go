package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore 注销令牌集合。条目 TTL 跟随令牌剩余有效期，集合大小有界。
type RevocationStore interface {
	Revoke(ctx context.Context, raw string, ttl time.Duration) error
	IsRevoked(ctx context.Context, raw string) (bool, error)
}

type redisRevocationStore struct {
	rdb *redis.Client
}

func NewRedisRevocationStore(rdb *redis.Client) RevocationStore {
	return &redisRevocationStore{rdb: rdb}
}

// 只存令牌摘要，redis 里不落明文 JWT
func revocationKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "revoked:" + hex.EncodeToString(sum[:])
}

func (s *redisRevocationStore) Revoke(ctx context.Context, raw string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	// SET 天然幂等，重复注销不报错
	return s.rdb.Set(ctx, revocationKey(raw), 1, ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, raw string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revocationKey(raw)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
