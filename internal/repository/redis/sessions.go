package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps signed-in profiles under random tokens with a TTL.
// Deleting a session is idempotent; an unknown token simply reads as absent.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Create stores the profile and returns a fresh token.
func (s *SessionStore) Create(ctx context.Context, p domain.Profile) (string, error) {
	token := newToken()

	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, KeySession(token), b, s.ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Get resolves a token to its profile. The second return value is false for
// unknown or expired tokens.
func (s *SessionStore) Get(ctx context.Context, token string) (domain.Profile, bool, error) {
	var p domain.Profile

	v, err := s.rdb.Get(ctx, KeySession(token)).Result()
	if err == redis.Nil {
		return p, false, nil
	}
	if err != nil {
		return p, false, err
	}

	if err := json.Unmarshal([]byte(v), &p); err != nil {
		return p, false, err
	}

	return p, true, nil
}

// Delete removes a session. Deleting a token that is already gone is not an
// error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, KeySession(token)).Err()
}

func newToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
