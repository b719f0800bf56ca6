package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gosettle/internal/domain"
)

const sessionPrefix = "session:"

// SessionStore implements usecase.SessionStore by keeping sessions as JSON in Redis.
type SessionStore struct {
	keys keyspace
}

func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{keys: keyspace{client: client, prefix: sessionPrefix}}
}

// Save stores the session, replacing any previous version, and resets its TTL.
func (s *SessionStore) Save(ctx context.Context, session *domain.AllocationSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	return s.keys.put(ctx, session.ID, data, ttl)
}

// Get loads a session. Expired and unknown sessions return domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.AllocationSession, error) {
	data, ok, err := s.keys.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	var session domain.AllocationSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	return &session, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.keys.drop(ctx, id)
}
