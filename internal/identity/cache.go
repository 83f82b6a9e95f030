package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
)

// ClaimsCache stores validated token claims for a short TTL so hot tokens
// do not hit the provider on every request.
type ClaimsCache interface {
	Get(ctx context.Context, bearerToken string) (*domain.ExternalIdentity, bool)
	Set(ctx context.Context, bearerToken string, claims *domain.ExternalIdentity)
}

type redisClaimsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClaimsCache builds a Redis-backed claims cache. Returns nil when
// the TTL is zero, which disables caching entirely.
func NewRedisClaimsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ClaimsCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &redisClaimsCache{client: client, ttl: ttl, logger: logger}
}

// cacheKey derives the key from a token digest; raw tokens never reach Redis.
func cacheKey(bearerToken string) string {
	sum := sha256.Sum256([]byte(bearerToken))
	return "idp:claims:" + hex.EncodeToString(sum[:])
}

func (c *redisClaimsCache) Get(ctx context.Context, bearerToken string) (*domain.ExternalIdentity, bool) {
	raw, err := c.client.Get(ctx, cacheKey(bearerToken)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("claims cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var claims domain.ExternalIdentity
	if err := json.Unmarshal(raw, &claims); err != nil || claims.Subject == "" {
		return nil, false
	}
	return &claims, true
}

func (c *redisClaimsCache) Set(ctx context.Context, bearerToken string, claims *domain.ExternalIdentity) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(bearerToken), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("claims cache write failed", zap.Error(err))
	}
}
