package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	domain "github.com/slotline/slotline-api/internal/domain/schedule"
)

// SlotCache keeps generated slot lists in Redis between writes. Each
// tenant has a version counter baked into its keys; invalidation bumps
// the counter so every cached list of the tenant expires at once,
// without scanning keys. Cache failures degrade to a recompute.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *SlotCache) Get(
	ctx context.Context,
	tenantID uint,
	date time.Time,
	serviceID *uint,
	staffID *uint,
) ([]domain.Slot, bool) {

	key, err := c.key(ctx, tenantID, date, serviceID, staffID)
	if err != nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("bad cached slot payload")
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(
	ctx context.Context,
	tenantID uint,
	date time.Time,
	serviceID *uint,
	staffID *uint,
	slots []domain.Slot,
) {

	key, err := c.key(ctx, tenantID, date, serviceID, staffID)
	if err != nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("slot cache write failed")
	}
}

func (c *SlotCache) Invalidate(ctx context.Context, tenantID uint) {
	if err := c.rdb.Incr(ctx, versionKey(tenantID)).Err(); err != nil {
		c.log.Warn().Err(err).Uint("tenant_id", tenantID).Msg("slot cache invalidation failed")
	}
}

func (c *SlotCache) key(
	ctx context.Context,
	tenantID uint,
	date time.Time,
	serviceID *uint,
	staffID *uint,
) (string, error) {

	version, err := c.rdb.Get(ctx, versionKey(tenantID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}

	svc, staff := uint(0), uint(0)
	if serviceID != nil {
		svc = *serviceID
	}
	if staffID != nil {
		staff = *staffID
	}

	return fmt.Sprintf(
		"slots:%d:v%d:%s:%d:%d",
		tenantID, version, date.Format("2006-01-02"), svc, staff,
	), nil
}

func versionKey(tenantID uint) string {
	return fmt.Sprintf("slots:%d:version", tenantID)
}
