package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "todoman/internal/domain"
	"todoman/internal/page"
	"todoman/internal/query"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "todos:q:"

// QueryCache caches list results in Redis keyed by the full
// (search, status, sort, page, limit) tuple. Every successful write
// invalidates the whole keyspace so counts and pages never go stale.
type QueryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQueryCache returns a new QueryCache.
func NewQueryCache(rdb *redis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{rdb: rdb, ttl: ttl}
}

type cachedList struct {
	Todos []dom.Todo `json:"todos"`
	Total int        `json:"total"`
}

// Key builds the canonical cache key for a query.
func Key(f query.Filter, s query.Sort, w page.Window) string {
	return fmt.Sprintf("%ssearch=%s&status=%s&sort=%s&page=%d&limit=%d",
		keyPrefix, strings.ToLower(f.Search), f.Status, s.Mode, w.Page, w.Limit)
}

// Get returns the cached result for key, or ok=false on miss.
func (c *QueryCache) Get(ctx context.Context, key string) ([]dom.Todo, int, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	var v cachedList
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, 0, false, err
	}
	return v.Todos, v.Total, true, nil
}

// Set stores a list result under key.
func (c *QueryCache) Set(ctx context.Context, key string, todos []dom.Todo, total int) error {
	b, err := json.Marshal(cachedList{Todos: todos, Total: total})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidateAll removes every cached query result (cache invalidation
// on write).
func (c *QueryCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
