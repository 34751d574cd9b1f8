package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisSeen shares the seen-id set across consumer replicas. Entries
// expire after TTL; an expired entry just means one extra idempotent
// insert on redelivery.
type RedisSeen struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

func NewRedisSeen(cfg RedisConfig) *RedisSeen {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisSeen{
		rdb:    rdb,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (c *RedisSeen) makeKey(id string) string {
	return c.prefix + id
}

func (c *RedisSeen) Seen(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := c.rdb.Exists(ctx, c.makeKey(id)).Result()
	if err != nil {
		// On a cache error fall through to the idempotent insert.
		return false
	}
	return n > 0
}

func (c *RedisSeen) Mark(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.rdb.Set(ctx, c.makeKey(id), "1", c.ttl).Err()
}

func (c *RedisSeen) Close() error {
	return c.rdb.Close()
}
