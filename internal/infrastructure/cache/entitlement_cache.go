package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"contentscale/internal/domain/models"
)

const entitlementTTL = 30 * time.Second

// EntitlementCache keeps short-lived entitlement snapshots in Redis. Every
// balance mutation invalidates, so staleness is bounded by the TTL only for
// reads that race a mutation on another instance.
type EntitlementCache struct {
	client *RedisClient
	logger *slog.Logger
}

func NewEntitlementCache(client *RedisClient, logger *slog.Logger) *EntitlementCache {
	return &EntitlementCache{client: client, logger: logger}
}

func entitlementKey(userID int64) string {
	return fmt.Sprintf("entitlement:%d", userID)
}

func (c *EntitlementCache) Get(ctx context.Context, userID int64) (*models.Entitlement, bool) {
	raw, err := c.client.Client.Get(ctx, entitlementKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var ent models.Entitlement
	if err := json.Unmarshal(raw, &ent); err != nil {
		c.logger.Warn("corrupt entitlement cache entry", "error", err, "user_id", userID)
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return &ent, true
}

func (c *EntitlementCache) Set(ctx context.Context, ent *models.Entitlement) {
	raw, err := json.Marshal(ent)
	if err != nil {
		return
	}
	if err := c.client.Client.Set(ctx, entitlementKey(ent.UserID), raw, entitlementTTL).Err(); err != nil {
		c.logger.Warn("failed to cache entitlement", "error", err, "user_id", ent.UserID)
	}
}

func (c *EntitlementCache) Invalidate(ctx context.Context, userID int64) {
	if err := c.client.Client.Del(ctx, entitlementKey(userID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate entitlement", "error", err, "user_id", userID)
	}
}
