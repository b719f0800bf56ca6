package redis

import (
	"bytes"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idempotency:"

// pendingMarker holds an idempotency key while the first request is still running.
var pendingMarker = []byte("processing")

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	keys keyspace
}

func NewIdempotencyStore(client redis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{keys: keyspace{client: client, prefix: idempotencyPrefix}}
}

// Reserve claims key for a new request. When the key is already known it
// reports exists=true together with the stored response, which is nil while
// the original request is still in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error) {
	for {
		claimed, err := s.keys.claim(ctx, key, pendingMarker, ttl)
		if err != nil {
			return false, nil, err
		}
		if claimed {
			return false, nil, nil
		}

		existing, ok, err := s.keys.get(ctx, key)
		if err != nil {
			return false, nil, err
		}
		if !ok {
			// Released or expired between the two calls.
			if err := ctx.Err(); err != nil {
				return false, nil, err
			}
			continue
		}
		if bytes.Equal(existing, pendingMarker) {
			return true, nil, nil
		}
		return true, existing, nil
	}
}

// Complete stores the final response for key.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.keys.put(ctx, key, response, ttl)
}

// Release drops a reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.keys.drop(ctx, key)
}
