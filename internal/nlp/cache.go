// internal/nlp/cache.go
package nlp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"workorder-assistant/internal/common/database"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedResolver memoizes parse results in Redis. Identical queries
// within the TTL skip the model server entirely.
type CachedResolver struct {
	inner Resolver
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedResolver(inner Resolver, rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		redis: rdb,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return "nlp:" + hex.EncodeToString(sum[:16])
}

func (c *CachedResolver) Resolve(ctx context.Context, text string) (*models.ParsedQuery, error) {
	key := cacheKey(text)

	cached, err := c.redis.Get(ctx, key)
	if err == nil {
		var parsed models.ParsedQuery
		if jsonErr := json.Unmarshal([]byte(cached), &parsed); jsonErr == nil {
			c.log.Debug("nlp cache hit", map[string]interface{}{"key": key})
			return &parsed, nil
		}
		// Corrupt entry, drop it and fall through to the model.
		_ = c.redis.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.WithError(err).Warn("nlp cache read failed", nil)
	}

	parsed, err := c.inner.Resolve(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(parsed); jsonErr == nil {
		if setErr := c.redis.Set(ctx, key, string(data), c.ttl); setErr != nil {
			c.log.WithError(setErr).Warn("nlp cache write failed", nil)
		}
	}

	return parsed, nil
}
