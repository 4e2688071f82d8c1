package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

// RedisCache 把快照以 JSON 的形式存放在 redis 中，多个 API 实例可以共享同一份缓存
type RedisCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, opTimeout time.Duration) *RedisCache {
	return &RedisCache{
		rdb:       rdb,
		ttl:       ttl,
		opTimeout: opTimeout,
	}
}

func redisKey(key SnapshotKey) string {
	return fmt.Sprintf("schedule:%s:%s", key.Date, key.Filter)
}

func (c *RedisCache) Get(ctx context.Context, key SnapshotKey) (*domain.Schedule, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	data, err := c.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	s := &domain.Schedule{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, false, err
	}

	return s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key SnapshotKey, s *domain.Schedule) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return c.rdb.Set(ctx, redisKey(key), data, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key SnapshotKey) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return c.rdb.Del(ctx, redisKey(key)).Err()
}

func (c *RedisCache) Flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	iter := c.rdb.Scan(ctx, 0, "schedule:*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}
