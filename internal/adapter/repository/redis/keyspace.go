package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyspace stores raw values under one key prefix.
type keyspace struct {
	client redis.UniversalClient
	prefix string
}

func (k keyspace) key(id string) string {
	return k.prefix + id
}

// get returns the stored value and whether the key exists.
func (k keyspace) get(ctx context.Context, id string) ([]byte, bool, error) {
	val, err := k.client.Get(ctx, k.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// put overwrites the value and resets its TTL.
func (k keyspace) put(ctx context.Context, id string, val any, ttl time.Duration) error {
	return k.client.Set(ctx, k.key(id), val, ttl).Err()
}

// claim sets the value only when the key is absent.
func (k keyspace) claim(ctx context.Context, id string, val any, ttl time.Duration) (bool, error) {
	return k.client.SetNX(ctx, k.key(id), val, ttl).Result()
}

func (k keyspace) drop(ctx context.Context, id string) error {
	return k.client.Del(ctx, k.key(id)).Err()
}
