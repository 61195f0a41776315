package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the keys a RedisPool writes
const DefaultRedisPrefix = "sportsbook"

// RedisPool stores each region as a hash of values plus a sorted set of
// zero-padded keys that gives ascending iteration order.
type RedisPool struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisPool wraps a connected client
func NewRedisPool(rdb *redis.Client, prefix string) *RedisPool {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisPool{rdb: rdb, prefix: prefix}
}

// ConnectRedis dials addr, selects db and verifies the connection
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

func (p *RedisPool) valuesKey(region RegionID) string {
	return fmt.Sprintf("%s:region:%d:values", p.prefix, uint8(region))
}

func (p *RedisPool) keysKey(region RegionID) string {
	return fmt.Sprintf("%s:region:%d:keys", p.prefix, uint8(region))
}

// member renders key so lexical order equals numeric order
func member(key uint64) string {
	return fmt.Sprintf("%020d", key)
}

func (p *RedisPool) Get(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	value, err := p.rdb.HGet(ctx, p.valuesKey(region), member(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%d: %w", region, key, err)
	}
	return value, true, nil
}

func (p *RedisPool) Put(ctx context.Context, region RegionID, key uint64, value []byte) ([]byte, bool, error) {
	prev, existed, err := p.Get(ctx, region, key)
	if err != nil {
		return nil, false, err
	}

	m := member(key)
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, p.valuesKey(region), m, value)
		pipe.ZAdd(ctx, p.keysKey(region), redis.Z{Score: 0, Member: m})
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to put %s/%d: %w", region, key, err)
	}
	return prev, existed, nil
}

func (p *RedisPool) Delete(ctx context.Context, region RegionID, key uint64) ([]byte, bool, error) {
	prev, existed, err := p.Get(ctx, region, key)
	if err != nil || !existed {
		return nil, false, err
	}

	m := member(key)
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, p.valuesKey(region), m)
		pipe.ZRem(ctx, p.keysKey(region), m)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to delete %s/%d: %w", region, key, err)
	}
	return prev, true, nil
}

func (p *RedisPool) Scan(ctx context.Context, region RegionID, fn func(key uint64, value []byte) bool) error {
	start := "-"
	for {
		members, err := p.rdb.ZRangeArgs(ctx, redis.ZRangeArgs{
			Key:   p.keysKey(region),
			Start: start,
			Stop:  "+",
			ByLex: true,
			Count: scanBatchSize,
		}).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s keys: %w", region, err)
		}
		if len(members) == 0 {
			return nil
		}

		values, err := p.rdb.HMGet(ctx, p.valuesKey(region), members...).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s values: %w", region, err)
		}

		for i, m := range members {
			raw, ok := values[i].(string)
			if !ok {
				continue
			}
			key, err := strconv.ParseUint(m, 10, 64)
			if err != nil {
				return fmt.Errorf("malformed %s key %q: %w", region, m, err)
			}
			if !fn(key, []byte(raw)) {
				return nil
			}
		}

		if len(members) < scanBatchSize {
			return nil
		}
		start = "(" + members[len(members)-1]
	}
}

func (p *RedisPool) Count(ctx context.Context, region RegionID) (int, error) {
	n, err := p.rdb.HLen(ctx, p.valuesKey(region)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", region, err)
	}
	return int(n), nil
}

func (p *RedisPool) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *RedisPool) Close() error {
	return p.rdb.Close()
}
