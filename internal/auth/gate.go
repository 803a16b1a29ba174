package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoToken      = errors.New("no token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Gate 身份闸门：注销集合先查（O(1) 快速拒绝），再做签名/过期校验
type Gate struct {
	tokens  *TokenManager
	revoked RevocationStore
}

func NewGate(tokens *TokenManager, revoked RevocationStore) *Gate {
	return &Gate{tokens: tokens, revoked: revoked}
}

func (g *Gate) Issue(userID, username string) (string, error) {
	return g.tokens.Issue(userID, username)
}

func (g *Gate) Authorize(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrNoToken
	}
	revoked, err := g.revoked.IsRevoked(ctx, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return g.tokens.Parse(raw)
}

// Revoke 将令牌放入注销集合，TTL 取剩余有效期；无法解析的令牌按完整有效期兜底
func (g *Gate) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return ErrNoToken
	}
	ttl := g.tokens.TTL()
	if claims, err := g.tokens.Parse(raw); err == nil && claims.ExpiresAt != nil {
		if remain := time.Until(claims.ExpiresAt.Time); remain > 0 {
			ttl = remain
		}
	}
	return g.revoked.Revoke(ctx, raw, ttl)
}
