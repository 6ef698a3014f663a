package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore remembers which session ids are live and who they belong to.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (int64, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) SessionStore {
	return &redisStore{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *redisStore) Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKey(sessionID), userID, ttl).Err()
}

func (s *redisStore) Lookup(ctx context.Context, sessionID string) (int64, error) {
	userID, err := s.rdb.Get(ctx, sessionKey(sessionID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	return userID, nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
