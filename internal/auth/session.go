package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session key layout: session:{id} -> user id. TTL matches the token
// lifetime so a revoked or expired session can no longer authenticate even
// with a syntactically valid token.
const keySession = "session:%s"

// SessionStore tracks which session ids are still valid. Logout revokes the
// session, which invalidates the matching token immediately.
type SessionStore interface {
	Save(ctx context.Context, id string, userID uint, ttl time.Duration) error
	Valid(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis so they survive restarts and
// are shared across server instances.
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, fmt.Sprintf(keySession, id), userID, ttl).Err()
}

func (s *RedisSessionStore) Valid(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Exists(ctx, fmt.Sprintf(keySession, id)).Result()
	return n > 0, err
}

func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keySession, id)).Err()
}

// MemorySessionStore is the fallback when no Redis address is configured.
// Sessions are lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
}

// NewMemorySessionStore creates an empty in-process store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]time.Time)}
}

func (s *MemorySessionStore) Save(_ context.Context, id string, _ uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = time.Now().Add(ttl)
	return nil
}

func (s *MemorySessionStore) Valid(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
