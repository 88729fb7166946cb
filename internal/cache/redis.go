package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares list pages across API replicas.
type Redis struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedis(rdb *redis.Client, namespace string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Redis{rdb: rdb, namespace: namespace, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, c.namespace+key).Bytes()
	if err != nil {
		// redis.Nil or an outage: either way fall through to the database
		return nil, false
	}
	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	_ = c.rdb.Set(ctx, c.namespace+key, val, c.ttl).Err()
}

func (c *Redis) DeletePrefix(ctx context.Context, prefix string) {
	iter := c.rdb.Scan(ctx, 0, c.namespace+prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if len(keys) > 0 {
		_ = c.rdb.Del(ctx, keys...).Err()
	}
}
