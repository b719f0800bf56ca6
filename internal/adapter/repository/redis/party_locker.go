package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iho/gosettle/internal/domain"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// ErrLockNotHeld is returned when unlocking a lock that expired or belongs to another holder.
var ErrLockNotHeld = errors.New("lock not held")

// PartyLocker implements usecase.PartyLocker with a Redis SET NX lock per party.
type PartyLocker struct {
	keys     keyspace
	ttl      time.Duration
	wait     time.Duration
	newToken func() string
}

// NewPartyLocker creates a PartyLocker. Locks expire after ttl; Lock retries for up to wait.
func NewPartyLocker(client redis.UniversalClient, ttl, wait time.Duration) *PartyLocker {
	return &PartyLocker{
		keys:     keyspace{client: client, prefix: "lock:party:"},
		ttl:      ttl,
		wait:     wait,
		newToken: func() string { return uuid.NewString() },
	}
}

// Lock acquires the party's lock and returns the token needed to release it.
// It returns domain.ErrPartyLocked when the lock stays taken for the whole wait.
func (l *PartyLocker) Lock(ctx context.Context, partyID string) (string, error) {
	token := l.newToken()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.keys.claim(ctx, partyID, token, l.ttl)
		if err != nil {
			return "", fmt.Errorf("acquire lock for party %s: %w", partyID, err)
		}
		if ok {
			return token, nil
		}
		if !time.Now().Before(deadline) {
			return "", fmt.Errorf("%w: %s", domain.ErrPartyLocked, partyID)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(10+rand.IntN(90)) * time.Millisecond):
		}
	}
}

// Unlock releases the lock if token still owns it.
func (l *PartyLocker) Unlock(ctx context.Context, partyID, token string) error {
	result, err := l.keys.client.Eval(ctx, unlockScript, []string{l.keys.key(partyID)}, token).Result()
	if err != nil {
		return err
	}
	if result == int64(0) {
		return fmt.Errorf("%w: party %s", ErrLockNotHeld, partyID)
	}
	return nil
}
