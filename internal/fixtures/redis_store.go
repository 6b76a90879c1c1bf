package fixtures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultKeyPrefix = "nba-replay:"

// redisClient is the subset of *redis.Client used by RedisStore.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps raw play-by-play documents in redis so replicas share one upstream fetch.
type RedisStore struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps documents indefinitely.
func NewRedisStore(client redisClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// LoadPlayByPlay returns the raw document for gameID, or ErrNotFound.
func (s *RedisStore) LoadPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", gameID, err)
	}
	return raw, nil
}

// SavePlayByPlay stores the raw document for gameID.
func (s *RedisStore) SavePlayByPlay(ctx context.Context, gameID string, raw []byte) error {
	if !ValidGameID(gameID) {
		return fmt.Errorf("invalid game id %q", gameID)
	}
	if err := s.client.Set(ctx, s.key(gameID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", gameID, err)
	}
	return nil
}

func (s *RedisStore) key(gameID string) string {
	return s.prefix + "pbp:" + gameID
}
