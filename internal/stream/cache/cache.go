// Package cache holds short-lived Redis snapshots of the ledger's columnar
// stream listings. Raw columns are cached, never classified results:
// classification depends on the caller's clock and is recomputed per request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	platformredis "paystream/internal/platform/redis"
	"paystream/internal/stream/classifier"
)

// RedisCache is a read-through snapshot cache with a short TTL. A stale
// listing only delays visibility of new streams by the TTL; vested amounts
// stay exact because they are derived from timestamps, not from the fetch.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewRedis(client *platformredis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(party classifier.Party, account string) string {
	return fmt.Sprintf("paystream:columns:%s:%s", party, account)
}

// Get returns the cached columns for the account's role, if present.
func (c *RedisCache) Get(ctx context.Context, party classifier.Party, account string) (classifier.Columns, bool, error) {
	raw, err := c.client.Get(ctx, key(party, account)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return classifier.Columns{}, false, nil
	}
	if err != nil {
		return classifier.Columns{}, false, fmt.Errorf("cache get: %w", err)
	}

	var cols classifier.Columns
	if err := json.Unmarshal(raw, &cols); err != nil {
		return classifier.Columns{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return cols, true, nil
}

// Set stores the columns under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, party classifier.Party, account string, cols classifier.Columns) error {
	raw, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(party, account), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
