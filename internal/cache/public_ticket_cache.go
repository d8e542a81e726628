// Package cache holds the redis-backed cache for public ticket views. The
// dashboard polls the public comment thread every 10 seconds; serving those
// reads from redis keeps the poll off postgres.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fleetdesk/fleetdesk/internal/events"
	"github.com/fleetdesk/fleetdesk/internal/persistence"
)

const publicTicketKeyPrefix = "public_ticket:"

// PublicTicketCache caches serialized public ticket views keyed by the
// ticket's public link token.
type PublicTicketCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewPublicTicketCache constructs the cache.
func NewPublicTicketCache(r *persistence.Redis, ttl time.Duration, logger *zap.Logger) *PublicTicketCache {
	return &PublicTicketCache{redis: r, ttl: ttl, logger: logger}
}

// Get returns the cached JSON view for a public token, or ok=false on miss
// or when redis is unavailable.
func (c *PublicTicketCache) Get(ctx context.Context, publicToken string) ([]byte, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	val, err := c.redis.Client.Get(ctx, publicTicketKeyPrefix+publicToken).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("public ticket cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

// Set stores the serialized view. Failures are logged and swallowed; the
// cache is best-effort.
func (c *PublicTicketCache) Set(ctx context.Context, publicToken string, view []byte) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Set(ctx, publicTicketKeyPrefix+publicToken, view, c.ttl).Err(); err != nil {
		c.logger.Warn("public ticket cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached view for a public token.
func (c *PublicTicketCache) Invalidate(ctx context.Context, publicToken string) {
	if c == nil || c.redis == nil || c.redis.Client == nil || publicToken == "" {
		return
	}
	if err := c.redis.Client.Del(ctx, publicTicketKeyPrefix+publicToken).Err(); err != nil {
		c.logger.Warn("public ticket cache invalidation failed", zap.Error(err))
	}
}

// RegisterInvalidation subscribes the cache to every event that changes what
// the public view renders.
func (c *PublicTicketCache) RegisterInvalidation(dispatcher events.Dispatcher) {
	handler := func(ctx context.Context, event events.Event) error {
		c.Invalidate(ctx, event.PublicToken)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketStatusChanged, handler)
	dispatcher.Subscribe(events.EventTicketResolved, handler)
	dispatcher.Subscribe(events.EventTicketReopened, handler)
	dispatcher.Subscribe(events.EventCommentAdded, handler)
	dispatcher.Subscribe(events.EventAttachmentAdded, handler)
}
